package kakeibo

import "github.com/google/uuid"

// ID is an opaque record identifier. Generated ids are UUIDv4 strings, but
// nothing in the core depends on that shape.
type ID string

// NewID generates a fresh unique id.
func NewID() ID { return ID(uuid.NewString()) }

func (id ID) String() string { return string(id) }

// IsZero returns true for the empty id, used to model optional references.
func (id ID) IsZero() bool { return id == "" }
