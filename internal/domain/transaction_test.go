package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransactionType_Valid(t *testing.T) {
	tests := []struct {
		txType TransactionType
		want   bool
	}{
		{TransactionTypeInput, true},
		{TransactionTypeOutput, true},
		{"input", false},
		{"SIDEWAYS", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.txType.Valid(); got != tt.want {
			t.Errorf("TransactionType(%q).Valid() = %v, want %v", tt.txType, got, tt.want)
		}
	}
}

func TestTransactionChanges_IsEmpty(t *testing.T) {
	empty := &TransactionChanges{}
	if !empty.IsEmpty() {
		t.Error("Expected empty changes to report empty")
	}

	amount := decimal.NewFromInt(10)
	if (&TransactionChanges{Amount: &amount}).IsEmpty() {
		t.Error("Expected changes with an amount to report non-empty")
	}
}

func TestCategoryChanges_IsEmpty(t *testing.T) {
	if !(&CategoryChanges{}).IsEmpty() {
		t.Error("Expected empty changes to report empty")
	}

	name := "Groceries"
	if (&CategoryChanges{Name: &name}).IsEmpty() {
		t.Error("Expected changes with a name to report non-empty")
	}
}
