package kakeibo

import (
	"strings"
	"testing"
)

func TestNewMethod(t *testing.T) {
	tests := []struct {
		name       string
		methodName string
		code       Code
	}{
		{"valid", "Wallet", ""},
		{"blank", "   ", CodeInvalidInput},
		{"empty", "", CodeInvalidInput},
		{"exactly max", strings.Repeat("あ", MethodNameMaxLen), ""},
		{"too long", strings.Repeat("あ", MethodNameMaxLen+1), CodeInvalidValueRange},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMethod(tc.methodName, Money{})
			if tc.code == "" {
				if err != nil {
					t.Fatalf("NewMethod(%q) = %v, want nil", tc.methodName, err)
				}
				return
			}
			if !IsCode(err, tc.code) {
				t.Fatalf("NewMethod(%q) = %v, want code %s", tc.methodName, err, tc.code)
			}
		})
	}
}

func TestMethodRename(t *testing.T) {
	m, err := NewMethod("Wallet", yen(1000))
	if err != nil {
		t.Fatal(err)
	}

	renamed, err := m.Rename("Bank")
	if err != nil {
		t.Fatal(err)
	}
	if renamed.Name != "Bank" || m.Name != "Wallet" {
		t.Fatalf("Rename must copy, got %q and %q", renamed.Name, m.Name)
	}

	// Renaming to the current name is a semantic no-op.
	same, err := m.Rename("Wallet")
	if err != nil {
		t.Fatal(err)
	}
	if !same.Equal(m) {
		t.Error("renaming to the same name must return the original value")
	}

	if _, err := m.Rename(""); !IsCode(err, CodeInvalidInput) {
		t.Errorf("Rename(\"\") = %v, want INVALID_INPUT", err)
	}
}

func TestMethodSetArchived(t *testing.T) {
	m, _ := NewMethod("Wallet", Money{})
	archived := m.SetArchived(true)
	if !archived.Archived || m.Archived {
		t.Fatal("SetArchived must copy")
	}
	if got := archived.SetArchived(true); !got.Equal(archived) {
		t.Error("setting the current value must return the original value")
	}
}
