package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeInput  TransactionType = "INPUT"
	TransactionTypeOutput TransactionType = "OUTPUT"
)

// Valid reports whether t is one of the two known transaction types
func (t TransactionType) Valid() bool {
	return t == TransactionTypeInput || t == TransactionTypeOutput
}

// Transaction represents a single income (INPUT) or expense (OUTPUT) entry
type Transaction struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"userId"`
	CategoryID uuid.UUID       `json:"categoryId"`
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount"`
	Type       TransactionType `json:"type"`
	Date       time.Time       `json:"date"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// TransactionChanges is a partial-update field set. Nil fields are absent.
type TransactionChanges struct {
	Title      *string
	Amount     *decimal.Decimal
	Type       *TransactionType
	Date       *time.Time
	CategoryID *uuid.UUID
}

// IsEmpty reports whether no field is set
func (c *TransactionChanges) IsEmpty() bool {
	return c.Title == nil && c.Amount == nil && c.Type == nil && c.Date == nil && c.CategoryID == nil
}

// TransactionRepository defines the interface for transaction persistence operations
type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(userID uuid.UUID, id uuid.UUID) (*Transaction, error)
	// GetAllByUser returns the user's transactions ordered by date descending
	GetAllByUser(userID uuid.UUID) ([]*Transaction, error)
	Update(userID uuid.UUID, id uuid.UUID, changes *TransactionChanges) (*Transaction, error)
	Delete(userID uuid.UUID, id uuid.UUID) error
	// SumByTypeAndDateRange sums amounts of the given type with date in [start, end)
	SumByTypeAndDateRange(userID uuid.UUID, txType TransactionType, start, end time.Time) (decimal.Decimal, error)
}
