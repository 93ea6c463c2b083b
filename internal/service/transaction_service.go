package service

import (
	"strings"
	"time"

	"github.com/financy/financy-backend/internal/domain"
	"github.com/financy/financy-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction business logic, scoped to the acting user
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	publisher       websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, categoryRepo domain.CategoryRepository, publisher websocket.EventPublisher) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		publisher:       publisher,
	}
}

// CreateTransactionInput holds the input for creating a transaction.
// Ownership always comes from the authenticated identity, never from input.
type CreateTransactionInput struct {
	Title      string
	Amount     decimal.Decimal
	Type       domain.TransactionType
	Date       time.Time
	CategoryID uuid.UUID
}

// CreateTransaction creates a new transaction with validation. The referenced
// category must exist and belong to the same user.
func (s *TransactionService) CreateTransaction(userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	if len(title) > domain.MaxTransactionTitleLength {
		return nil, domain.ErrTitleTooLong
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if !input.Type.Valid() {
		return nil, domain.ErrInvalidType
	}

	// A category owned by another user is reported as absent, not forbidden
	if _, err := s.categoryRepo.GetByID(userID, input.CategoryID); err != nil {
		return nil, domain.ErrCategoryNotFound
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	transaction, err := s.transactionRepo.Create(&domain.Transaction{
		UserID:     userID,
		CategoryID: input.CategoryID,
		Title:      title,
		Amount:     input.Amount,
		Type:       input.Type,
		Date:       date,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.NewEvent(websocket.EventTypeCreated, websocket.EntityTypeTransaction, transaction))
	return transaction, nil
}

// GetTransactions retrieves the user's transactions ordered by date descending
func (s *TransactionService) GetTransactions(userID uuid.UUID) ([]*domain.Transaction, error) {
	return s.transactionRepo.GetAllByUser(userID)
}

// GetTransactionByID retrieves a transaction owned by userID
func (s *TransactionService) GetTransactionByID(userID uuid.UUID, id uuid.UUID) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(userID, id)
}

// UpdateTransaction applies a partial update to a transaction owned by userID.
// A changed category is re-verified against the same user.
func (s *TransactionService) UpdateTransaction(userID uuid.UUID, id uuid.UUID, changes *domain.TransactionChanges) (*domain.Transaction, error) {
	if changes == nil || changes.IsEmpty() {
		return s.transactionRepo.GetByID(userID, id)
	}

	if changes.Title != nil {
		title := strings.TrimSpace(*changes.Title)
		if title == "" {
			return nil, domain.ErrTitleRequired
		}
		if len(title) > domain.MaxTransactionTitleLength {
			return nil, domain.ErrTitleTooLong
		}
		changes.Title = &title
	}
	if changes.Amount != nil && changes.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if changes.Type != nil && !changes.Type.Valid() {
		return nil, domain.ErrInvalidType
	}
	if changes.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(userID, *changes.CategoryID); err != nil {
			return nil, domain.ErrCategoryNotFound
		}
	}

	transaction, err := s.transactionRepo.Update(userID, id, changes)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.NewEvent(websocket.EventTypeUpdated, websocket.EntityTypeTransaction, transaction))
	return transaction, nil
}

// DeleteTransaction hard-deletes a transaction owned by userID
func (s *TransactionService) DeleteTransaction(userID uuid.UUID, id uuid.UUID) error {
	if err := s.transactionRepo.Delete(userID, id); err != nil {
		return err
	}

	s.publisher.Publish(userID, websocket.NewEvent(websocket.EventTypeDeleted, websocket.EntityTypeTransaction, map[string]string{"id": id.String()}))
	return nil
}
