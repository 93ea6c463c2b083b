package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/financy/financy-backend/internal/domain"
	"github.com/financy/financy-backend/internal/testutil"
	"github.com/financy/financy-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newTestTransactionService() (*TransactionService, *testutil.MockTransactionRepository, *testutil.MockCategoryRepository) {
	transactionRepo := testutil.NewMockTransactionRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	return NewTransactionService(transactionRepo, categoryRepo, &websocket.NoOpPublisher{}), transactionRepo, categoryRepo
}

func addCategory(t *testing.T, categoryRepo *testutil.MockCategoryRepository, userID uuid.UUID, name string) *domain.Category {
	t.Helper()
	category, err := categoryRepo.Create(&domain.Category{UserID: userID, Name: name})
	if err != nil {
		t.Fatalf("Failed to add category: %v", err)
	}
	return category
}

func TestCreateTransaction_Success(t *testing.T) {
	transactionService, _, categoryRepo := newTestTransactionService()
	userID := uuid.New()
	category := addCategory(t, categoryRepo, userID, "Groceries")

	transaction, err := transactionService.CreateTransaction(userID, CreateTransactionInput{
		Title:      "Weekly shop",
		Amount:     decimal.NewFromFloat(54.20),
		Type:       domain.TransactionTypeOutput,
		CategoryID: category.ID,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if transaction.Title != "Weekly shop" {
		t.Errorf("Expected title 'Weekly shop', got %s", transaction.Title)
	}
	if !transaction.Amount.Equal(decimal.NewFromFloat(54.20)) {
		t.Errorf("Expected amount 54.20, got %s", transaction.Amount)
	}
	if transaction.UserID != userID {
		t.Errorf("Expected owner %s, got %s", userID, transaction.UserID)
	}
	if transaction.Date.IsZero() {
		t.Error("Expected date to default to now")
	}
}

func TestCreateTransaction_WithExplicitDate(t *testing.T) {
	transactionService, _, categoryRepo := newTestTransactionService()
	userID := uuid.New()
	category := addCategory(t, categoryRepo, userID, "Groceries")

	date := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	transaction, err := transactionService.CreateTransaction(userID, CreateTransactionInput{
		Title:      "Back-dated",
		Amount:     decimal.NewFromInt(10),
		Type:       domain.TransactionTypeOutput,
		CategoryID: category.ID,
		Date:       date,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !transaction.Date.Equal(date) {
		t.Errorf("Expected date %v, got %v", date, transaction.Date)
	}
}

func TestCreateTransaction_Validation(t *testing.T) {
	transactionService, _, categoryRepo := newTestTransactionService()
	userID := uuid.New()
	category := addCategory(t, categoryRepo, userID, "Groceries")

	tests := []struct {
		name    string
		input   CreateTransactionInput
		wantErr error
	}{
		{
			"blank title",
			CreateTransactionInput{Title: "  ", Amount: decimal.NewFromInt(10), Type: domain.TransactionTypeOutput, CategoryID: category.ID},
			domain.ErrTitleRequired,
		},
		{
			"title too long",
			CreateTransactionInput{Title: strings.Repeat("x", domain.MaxTransactionTitleLength+1), Amount: decimal.NewFromInt(10), Type: domain.TransactionTypeOutput, CategoryID: category.ID},
			domain.ErrTitleTooLong,
		},
		{
			"zero amount",
			CreateTransactionInput{Title: "Shop", Amount: decimal.Zero, Type: domain.TransactionTypeOutput, CategoryID: category.ID},
			domain.ErrInvalidAmount,
		},
		{
			"negative amount",
			CreateTransactionInput{Title: "Shop", Amount: decimal.NewFromInt(-5), Type: domain.TransactionTypeOutput, CategoryID: category.ID},
			domain.ErrInvalidAmount,
		},
		{
			"bad type",
			CreateTransactionInput{Title: "Shop", Amount: decimal.NewFromInt(10), Type: "SIDEWAYS", CategoryID: category.ID},
			domain.ErrInvalidType,
		},
		{
			"unknown category",
			CreateTransactionInput{Title: "Shop", Amount: decimal.NewFromInt(10), Type: domain.TransactionTypeOutput, CategoryID: uuid.New()},
			domain.ErrCategoryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := transactionService.CreateTransaction(userID, tt.input); !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateTransaction_ForeignCategory(t *testing.T) {
	transactionService, _, categoryRepo := newTestTransactionService()
	userID := uuid.New()
	foreign := addCategory(t, categoryRepo, uuid.New(), "Someone else's")

	_, err := transactionService.CreateTransaction(userID, CreateTransactionInput{
		Title:      "Shop",
		Amount:     decimal.NewFromInt(10),
		Type:       domain.TransactionTypeOutput,
		CategoryID: foreign.ID,
	})
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound for foreign category, got %v", err)
	}
}

func TestGetTransactions_NewestFirst(t *testing.T) {
	transactionService, _, categoryRepo := newTestTransactionService()
	userID := uuid.New()
	category := addCategory(t, categoryRepo, userID, "Groceries")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"oldest", "middle", "newest"} {
		_, err := transactionService.CreateTransaction(userID, CreateTransactionInput{
			Title:      title,
			Amount:     decimal.NewFromInt(10),
			Type:       domain.TransactionTypeOutput,
			CategoryID: category.ID,
			Date:       base.AddDate(0, 0, i),
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	transactions, err := transactionService.GetTransactions(userID)
	if err != nil {
		t.Fatalf("GetTransactions failed: %v", err)
	}
	if len(transactions) != 3 {
		t.Fatalf("Expected 3 transactions, got %d", len(transactions))
	}
	for i, want := range []string{"newest", "middle", "oldest"} {
		if transactions[i].Title != want {
			t.Errorf("Expected transactions[%d] = %s, got %s", i, want, transactions[i].Title)
		}
	}
}

func TestUpdateTransaction_PartialUpdate(t *testing.T) {
	transactionService, _, categoryRepo := newTestTransactionService()
	userID := uuid.New()
	category := addCategory(t, categoryRepo, userID, "Groceries")

	transaction, err := transactionService.CreateTransaction(userID, CreateTransactionInput{
		Title:      "Weekly shop",
		Amount:     decimal.NewFromInt(50),
		Type:       domain.TransactionTypeOutput,
		CategoryID: category.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	amount := decimal.NewFromInt(60)
	updated, err := transactionService.UpdateTransaction(userID, transaction.ID, &domain.TransactionChanges{Amount: &amount})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !updated.Amount.Equal(amount) {
		t.Errorf("Expected amount 60, got %s", updated.Amount)
	}
	if updated.Title != "Weekly shop" {
		t.Errorf("Expected title untouched, got %s", updated.Title)
	}
	if updated.Type != domain.TransactionTypeOutput {
		t.Errorf("Expected type untouched, got %s", updated.Type)
	}
}

func TestUpdateTransaction_ChangedCategoryMustBeOwned(t *testing.T) {
	transactionService, _, categoryRepo := newTestTransactionService()
	userID := uuid.New()
	category := addCategory(t, categoryRepo, userID, "Groceries")
	foreign := addCategory(t, categoryRepo, uuid.New(), "Someone else's")

	transaction, err := transactionService.CreateTransaction(userID, CreateTransactionInput{
		Title:      "Weekly shop",
		Amount:     decimal.NewFromInt(50),
		Type:       domain.TransactionTypeOutput,
		CategoryID: category.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := transactionService.UpdateTransaction(userID, transaction.ID, &domain.TransactionChanges{CategoryID: &foreign.ID}); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}

func TestUpdateTransaction_CrossUser(t *testing.T) {
	transactionService, _, categoryRepo := newTestTransactionService()
	ownerID := uuid.New()
	category := addCategory(t, categoryRepo, ownerID, "Groceries")

	transaction, err := transactionService.CreateTransaction(ownerID, CreateTransactionInput{
		Title:      "Weekly shop",
		Amount:     decimal.NewFromInt(50),
		Type:       domain.TransactionTypeOutput,
		CategoryID: category.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	title := "Hijacked"
	if _, err := transactionService.UpdateTransaction(uuid.New(), transaction.ID, &domain.TransactionChanges{Title: &title}); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound for non-owner, got %v", err)
	}
}

func TestDeleteTransaction(t *testing.T) {
	transactionService, _, categoryRepo := newTestTransactionService()
	userID := uuid.New()
	category := addCategory(t, categoryRepo, userID, "Groceries")

	transaction, err := transactionService.CreateTransaction(userID, CreateTransactionInput{
		Title:      "Weekly shop",
		Amount:     decimal.NewFromInt(50),
		Type:       domain.TransactionTypeOutput,
		CategoryID: category.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := transactionService.DeleteTransaction(uuid.New(), transaction.ID); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound for non-owner, got %v", err)
	}
	if err := transactionService.DeleteTransaction(userID, transaction.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := transactionService.GetTransactionByID(userID, transaction.ID); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("Expected transaction to be gone, got %v", err)
	}
}
