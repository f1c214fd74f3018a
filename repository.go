package kakeibo

import "context"

// SortDirection orders a repository listing.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Page carries offset/limit pagination and a sort field with direction.
// The zero value means "everything, natural order".
type Page struct {
	Offset    int
	Limit     int // 0 means no limit
	SortBy    string
	Direction SortDirection
}

// EntryFilter selects entries in a findByOptions query. Zero fields do not
// filter.
type EntryFilter struct {
	From           Date
	To             Date
	Types          []EntryType
	MethodIDs      []ID
	CategoryIDs    []ID
	DebtID         ID
	IncludePrivate bool
	Page           Page
}

// MethodFilter selects payment methods in a findByOptions query.
type MethodFilter struct {
	Name            string // substring match
	IncludeArchived bool
	Page            Page
}

// DebtFilter selects debts in a findByOptions query.
type DebtFilter struct {
	Type            DebtType // zero means both
	Counterpart     string   // substring match
	OutstandingOnly bool
	From            Date
	To              Date
	Page            Page
}

// TransferFilter selects transfers in a findByOptions query.
type TransferFilter struct {
	MethodID ID // either endpoint
	From     Date
	To       Date
	Page     Page
}

// MethodRepository is the persistence port for payment methods.
//
// Every port method that targets a nonexistent id fails with a NotFound
// error. Adapters translate their storage constraint violations into the
// business error taxonomy and wrap everything else as a SystemError; raw
// storage errors never reach the caller.
type MethodRepository interface {
	FindByID(ctx context.Context, id ID) (Method, error)
	FindAll(ctx context.Context, includeArchived bool) ([]Method, error)
	FindByOptions(ctx context.Context, filter MethodFilter) ([]Method, error)
	Create(ctx context.Context, m Method) error
	Update(ctx context.Context, m Method) error
	SetArchiveStatus(ctx context.Context, id ID, archived bool) (Method, error)
	// Delete fails with METHOD_IN_USE while any entry or transfer
	// references the method.
	Delete(ctx context.Context, id ID) error
}

// EntryRepository is the persistence port for entries.
type EntryRepository interface {
	FindByID(ctx context.Context, id ID) (Entry, error)
	FindByOptions(ctx context.Context, filter EntryFilter) ([]Entry, error)
	FindByMethodID(ctx context.Context, method ID) ([]Entry, error)
	FindByCategoryID(ctx context.Context, category ID) ([]Entry, error)
	FindByDebtID(ctx context.Context, debt ID) ([]Entry, error)
	Create(ctx context.Context, e Entry) error
	// CreateWithDebt persists a borrow/lend entry and its debt in one
	// transaction: either both records commit or neither does.
	CreateWithDebt(ctx context.Context, e Entry, d Debt) error
	// CreateWithTransfer persists a transfer entry and its transfer record
	// in one transaction.
	CreateWithTransfer(ctx context.Context, e Entry, t Transfer) error
	Update(ctx context.Context, e Entry) error
	Delete(ctx context.Context, id ID) error
	// CalculateBalance folds the signed balance impact of the method's
	// entries dated within [start, end], starting from zero.
	CalculateBalance(ctx context.Context, method ID, start, end Date) (Money, error)
}

// DebtRepository is the persistence port for debts.
type DebtRepository interface {
	FindByID(ctx context.Context, id ID) (Debt, error)
	FindByRootEntryID(ctx context.Context, rootEntry ID) (Debt, error)
	FindByOptions(ctx context.Context, filter DebtFilter) ([]Debt, error)
	FindOutstandingDebts(ctx context.Context, debtType DebtType) ([]Debt, error)
	Create(ctx context.Context, d Debt) error
	Update(ctx context.Context, d Debt) error
	// MarkAsRepaid closes the debt exactly once; a concurrent or repeated
	// call fails with DEBT_ALREADY_REPAID. The check and the write happen
	// atomically.
	MarkAsRepaid(ctx context.Context, id ID, on Date) (Debt, error)
	Delete(ctx context.Context, id ID) error
}

// TransferRepository is the persistence port for transfers.
type TransferRepository interface {
	FindByID(ctx context.Context, id ID) (Transfer, error)
	FindByRootEntryID(ctx context.Context, rootEntry ID) (Transfer, error)
	FindByOptions(ctx context.Context, filter TransferFilter) ([]Transfer, error)
	FindByMethodID(ctx context.Context, method ID) ([]Transfer, error)
	// Create rejects identical-account transfers with IDENTICAL_ACCOUNTS
	// even if a caller bypassed NewTransfer.
	Create(ctx context.Context, t Transfer) error
	Update(ctx context.Context, t Transfer) error
	Delete(ctx context.Context, id ID) error
}

// Repository bundles the four ports an adapter provides.
type Repository interface {
	Methods() MethodRepository
	Entries() EntryRepository
	Debts() DebtRepository
	Transfers() TransferRepository
}
