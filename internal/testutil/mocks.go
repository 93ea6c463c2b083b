package testutil

import (
	"sort"
	"strings"
	"time"

	"github.com/financy/financy-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockUserRepository is an in-memory implementation of domain.UserRepository
type MockUserRepository struct {
	ByID    map[uuid.UUID]*domain.User
	ByEmail map[string]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		ByID:    make(map[uuid.UUID]*domain.User),
		ByEmail: make(map[string]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email
func (m *MockUserRepository) GetByEmail(email string) (*domain.User, error) {
	if user, ok := m.ByEmail[email]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetAll returns all users
func (m *MockUserRepository) GetAll() ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(m.ByID))
	for _, user := range m.ByID {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

// Create creates a new user
func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	if _, ok := m.ByEmail[user.Email]; ok {
		return nil, domain.ErrEmailAlreadyExists
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.ByID[user.ID] = user
	m.ByEmail[user.Email] = user
	return user, nil
}

// UpdateName updates only the user's name
func (m *MockUserRepository) UpdateName(id uuid.UUID, name string) (*domain.User, error) {
	user, ok := m.ByID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.Name = name
	user.UpdatedAt = time.Now()
	return user, nil
}

// MockCategoryRepository is an in-memory implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[uuid.UUID]*domain.Category

	// CountFor supplies derived transaction counts per category id
	CountFor map[uuid.UUID]int64
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[uuid.UUID]*domain.Category),
		CountFor:   make(map[uuid.UUID]int64),
	}
}

// Create creates a new category
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	for _, c := range m.Categories {
		if c.UserID == category.UserID && c.Name == category.Name {
			return nil, domain.ErrCategoryNameTaken
		}
	}
	category.ID = uuid.New()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	m.Categories[category.ID] = category
	return category, nil
}

// GetByID retrieves a category owned by userID
func (m *MockCategoryRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.Category, error) {
	if c, ok := m.Categories[id]; ok && c.UserID == userID {
		return c, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// GetByName retrieves a category by owner and name
func (m *MockCategoryRepository) GetByName(userID uuid.UUID, name string) (*domain.Category, error) {
	for _, c := range m.Categories {
		if c.UserID == userID && c.Name == name {
			return c, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

// GetAllByUser returns the user's categories, name ascending, with counts
func (m *MockCategoryRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Category, error) {
	categories := make([]*domain.Category, 0)
	for _, c := range m.Categories {
		if c.UserID == userID {
			c.TransactionCount = m.CountFor[c.ID]
			categories = append(categories, c)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})
	return categories, nil
}

// Update applies a partial update to a category owned by userID
func (m *MockCategoryRepository) Update(userID uuid.UUID, id uuid.UUID, changes *domain.CategoryChanges) (*domain.Category, error) {
	c, ok := m.Categories[id]
	if !ok || c.UserID != userID {
		return nil, domain.ErrCategoryNotFound
	}
	if changes.Name != nil {
		for _, other := range m.Categories {
			if other.ID != id && other.UserID == userID && other.Name == *changes.Name {
				return nil, domain.ErrCategoryNameTaken
			}
		}
		c.Name = *changes.Name
	}
	if changes.Description != nil {
		c.Description = *changes.Description
	}
	if changes.Icon != nil {
		c.Icon = *changes.Icon
	}
	if changes.Color != nil {
		c.Color = *changes.Color
	}
	c.UpdatedAt = time.Now()
	return c, nil
}

// Delete removes a category owned by userID
func (m *MockCategoryRepository) Delete(userID uuid.UUID, id uuid.UUID) error {
	if c, ok := m.Categories[id]; ok && c.UserID == userID {
		delete(m.Categories, id)
		return nil
	}
	return domain.ErrCategoryNotFound
}

// MockTransactionRepository is an in-memory implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[uuid.UUID]*domain.Transaction
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	transaction.ID = uuid.New()
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = transaction.CreatedAt
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// GetByID retrieves a transaction owned by userID
func (m *MockTransactionRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.Transaction, error) {
	if t, ok := m.Transactions[id]; ok && t.UserID == userID {
		return t, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// GetAllByUser returns the user's transactions, date descending
func (m *MockTransactionRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Transaction, error) {
	transactions := make([]*domain.Transaction, 0)
	for _, t := range m.Transactions {
		if t.UserID == userID {
			transactions = append(transactions, t)
		}
	}
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})
	return transactions, nil
}

// Update applies a partial update to a transaction owned by userID
func (m *MockTransactionRepository) Update(userID uuid.UUID, id uuid.UUID, changes *domain.TransactionChanges) (*domain.Transaction, error) {
	t, ok := m.Transactions[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	if changes.Title != nil {
		t.Title = *changes.Title
	}
	if changes.Amount != nil {
		t.Amount = *changes.Amount
	}
	if changes.Type != nil {
		t.Type = *changes.Type
	}
	if changes.Date != nil {
		t.Date = *changes.Date
	}
	if changes.CategoryID != nil {
		t.CategoryID = *changes.CategoryID
	}
	t.UpdatedAt = time.Now()
	return t, nil
}

// Delete removes a transaction owned by userID
func (m *MockTransactionRepository) Delete(userID uuid.UUID, id uuid.UUID) error {
	if t, ok := m.Transactions[id]; ok && t.UserID == userID {
		delete(m.Transactions, id)
		return nil
	}
	return domain.ErrTransactionNotFound
}

// SumByTypeAndDateRange sums amounts of the given type with date in [start, end)
func (m *MockTransactionRepository) SumByTypeAndDateRange(userID uuid.UUID, txType domain.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range m.Transactions {
		if t.UserID != userID || t.Type != txType {
			continue
		}
		if t.Date.Before(start) || !t.Date.Before(end) {
			continue
		}
		sum = sum.Add(t.Amount)
	}
	return sum, nil
}
