package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a user-owned spending/income category.
// TransactionCount is derived at list time, never stored.
type Category struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"userId"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Icon             string    `json:"icon"`
	Color            string    `json:"color"`
	TransactionCount int64     `json:"transactionCount"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// CategoryChanges is a partial-update field set. A nil field is absent and
// leaves the stored value untouched; a non-nil pointer to the zero value
// sets the field to empty.
type CategoryChanges struct {
	Name        *string
	Description *string
	Icon        *string
	Color       *string
}

// IsEmpty reports whether no field is set
func (c *CategoryChanges) IsEmpty() bool {
	return c.Name == nil && c.Description == nil && c.Icon == nil && c.Color == nil
}

// CategoryRepository defines the interface for category persistence operations
type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	GetByID(userID uuid.UUID, id uuid.UUID) (*Category, error)
	GetByName(userID uuid.UUID, name string) (*Category, error)
	// GetAllByUser returns the user's categories ordered by name ascending,
	// with TransactionCount populated.
	GetAllByUser(userID uuid.UUID) ([]*Category, error)
	Update(userID uuid.UUID, id uuid.UUID, changes *CategoryChanges) (*Category, error)
	Delete(userID uuid.UUID, id uuid.UUID) error
}
