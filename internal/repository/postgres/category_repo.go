package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/financy/financy-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = "id, user_id, name, description, icon, color, created_at, updated_at"

// Create creates a new category
func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO categories (user_id, name, description, icon, color)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+categoryColumns,
		pgUUID(category.UserID), category.Name, category.Description, category.Icon, category.Color)
	created, err := scanCategory(row)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, domain.ErrCategoryNameTaken
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a category by id, scoped to its owning user
func (r *CategoryRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(),
		"SELECT "+categoryColumns+" FROM categories WHERE id = $1 AND user_id = $2",
		pgUUID(id), pgUUID(userID))
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// GetByName retrieves a category by name, scoped to its owning user
func (r *CategoryRepository) GetByName(userID uuid.UUID, name string) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(),
		"SELECT "+categoryColumns+" FROM categories WHERE user_id = $1 AND name = $2",
		pgUUID(userID), name)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// GetAllByUser retrieves all categories for a user ordered by name, with the
// per-category transaction count computed at read time
func (r *CategoryRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Category, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT c.id, c.user_id, c.name, c.description, c.icon, c.color,
		        c.created_at, c.updated_at, COUNT(t.id) AS transaction_count
		 FROM categories c
		 LEFT JOIN transactions t ON t.category_id = c.id
		 WHERE c.user_id = $1
		 GROUP BY c.id
		 ORDER BY c.name ASC`,
		pgUUID(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var (
			id    pgtype.UUID
			owner pgtype.UUID
			c     domain.Category
		)
		err := rows.Scan(&id, &owner, &c.Name, &c.Description, &c.Icon, &c.Color,
			&c.CreatedAt, &c.UpdatedAt, &c.TransactionCount)
		if err != nil {
			return nil, err
		}
		c.ID = toUUID(id)
		c.UserID = toUUID(owner)
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// Update applies only the fields present in changes; absent fields are untouched
func (r *CategoryRepository) Update(userID uuid.UUID, id uuid.UUID, changes *domain.CategoryChanges) (*domain.Category, error) {
	sets := make([]string, 0, 5)
	args := []interface{}{pgUUID(id), pgUUID(userID)}

	appendSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if changes.Name != nil {
		appendSet("name", *changes.Name)
	}
	if changes.Description != nil {
		appendSet("description", *changes.Description)
	}
	if changes.Icon != nil {
		appendSet("icon", *changes.Icon)
	}
	if changes.Color != nil {
		appendSet("color", *changes.Color)
	}
	sets = append(sets, "updated_at = now()")

	query := fmt.Sprintf(
		"UPDATE categories SET %s WHERE id = $1 AND user_id = $2 RETURNING %s",
		strings.Join(sets, ", "), categoryColumns)

	row := r.pool.QueryRow(context.Background(), query, args...)
	updated, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		if isPgUniqueViolation(err) {
			return nil, domain.ErrCategoryNameTaken
		}
		return nil, err
	}
	return updated, nil
}

// Delete hard-deletes a category, scoped to its owning user
func (r *CategoryRepository) Delete(userID uuid.UUID, id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		"DELETE FROM categories WHERE id = $1 AND user_id = $2",
		pgUUID(id), pgUUID(userID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var (
		id    pgtype.UUID
		owner pgtype.UUID
		c     domain.Category
	)
	err := row.Scan(&id, &owner, &c.Name, &c.Description, &c.Icon, &c.Color, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.ID = toUUID(id)
	c.UserID = toUUID(owner)
	return &c, nil
}
