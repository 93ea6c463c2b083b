package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/financy/financy-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = "id, user_id, category_id, title, amount, type, date, created_at, updated_at"

// Create creates a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO transactions (user_id, category_id, title, amount, type, date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+transactionColumns,
		pgUUID(transaction.UserID), pgUUID(transaction.CategoryID), transaction.Title,
		transaction.Amount, string(transaction.Type), transaction.Date)
	return scanTransactionErr(scanTransaction(row))
}

// GetByID retrieves a transaction by id, scoped to its owning user
func (r *TransactionRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.Transaction, error) {
	row := r.pool.QueryRow(context.Background(),
		"SELECT "+transactionColumns+" FROM transactions WHERE id = $1 AND user_id = $2",
		pgUUID(id), pgUUID(userID))
	return scanTransactionErr(scanTransaction(row))
}

// GetAllByUser retrieves all transactions for a user ordered by date descending
func (r *TransactionRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(context.Background(),
		"SELECT "+transactionColumns+" FROM transactions WHERE user_id = $1 ORDER BY date DESC",
		pgUUID(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

// Update applies only the fields present in changes; absent fields are untouched
func (r *TransactionRepository) Update(userID uuid.UUID, id uuid.UUID, changes *domain.TransactionChanges) (*domain.Transaction, error) {
	sets := make([]string, 0, 6)
	args := []interface{}{pgUUID(id), pgUUID(userID)}

	appendSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if changes.Title != nil {
		appendSet("title", *changes.Title)
	}
	if changes.Amount != nil {
		appendSet("amount", *changes.Amount)
	}
	if changes.Type != nil {
		appendSet("type", string(*changes.Type))
	}
	if changes.Date != nil {
		appendSet("date", *changes.Date)
	}
	if changes.CategoryID != nil {
		appendSet("category_id", pgUUID(*changes.CategoryID))
	}
	sets = append(sets, "updated_at = now()")

	query := fmt.Sprintf(
		"UPDATE transactions SET %s WHERE id = $1 AND user_id = $2 RETURNING %s",
		strings.Join(sets, ", "), transactionColumns)

	row := r.pool.QueryRow(context.Background(), query, args...)
	return scanTransactionErr(scanTransaction(row))
}

// Delete hard-deletes a transaction, scoped to its owning user
func (r *TransactionRepository) Delete(userID uuid.UUID, id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		"DELETE FROM transactions WHERE id = $1 AND user_id = $2",
		pgUUID(id), pgUUID(userID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// SumByTypeAndDateRange sums amounts of the given type with date in [start, end)
func (r *TransactionRepository) SumByTypeAndDateRange(userID uuid.UUID, txType domain.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.pool.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(amount), 0)
		 FROM transactions
		 WHERE user_id = $1 AND type = $2 AND date >= $3 AND date < $4`,
		pgUUID(userID), string(txType), start, end).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		id       pgtype.UUID
		owner    pgtype.UUID
		category pgtype.UUID
		txType   string
		t        domain.Transaction
	)
	err := row.Scan(&id, &owner, &category, &t.Title, &t.Amount, &txType, &t.Date, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.ID = toUUID(id)
	t.UserID = toUUID(owner)
	t.CategoryID = toUUID(category)
	t.Type = domain.TransactionType(txType)
	return &t, nil
}

func scanTransactionErr(t *domain.Transaction, err error) (*domain.Transaction, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return t, nil
}
