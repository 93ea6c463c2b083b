package graph

import (
	"time"

	"github.com/financy/financy-backend/internal/domain"
	"github.com/financy/financy-backend/internal/service"
)

// Wire representations returned by resolvers. Amounts travel as floats,
// timestamps as DateTime, ids as strings.

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Category struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Icon             string    `json:"icon"`
	Color            string    `json:"color"`
	TransactionCount int64     `json:"transactionCount"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type Transaction struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	CategoryID string    `json:"categoryId"`
	Title      string    `json:"title"`
	Amount     float64   `json:"amount"`
	Type       string    `json:"type"`
	Date       time.Time `json:"date"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type MonthlySummary struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

type AuthPayload struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}

func toUser(u *domain.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUsers(users []*domain.User) []*User {
	out := make([]*User, 0, len(users))
	for _, u := range users {
		out = append(out, toUser(u))
	}
	return out
}

func toCategory(c *domain.Category) *Category {
	if c == nil {
		return nil
	}
	return &Category{
		ID:               c.ID.String(),
		UserID:           c.UserID.String(),
		Name:             c.Name,
		Description:      c.Description,
		Icon:             c.Icon,
		Color:            c.Color,
		TransactionCount: c.TransactionCount,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func toCategories(categories []*domain.Category) []*Category {
	out := make([]*Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategory(c))
	}
	return out
}

func toTransaction(t *domain.Transaction) *Transaction {
	if t == nil {
		return nil
	}
	return &Transaction{
		ID:         t.ID.String(),
		UserID:     t.UserID.String(),
		CategoryID: t.CategoryID.String(),
		Title:      t.Title,
		Amount:     t.Amount.InexactFloat64(),
		Type:       string(t.Type),
		Date:       t.Date,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func toTransactions(transactions []*domain.Transaction) []*Transaction {
	out := make([]*Transaction, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, toTransaction(t))
	}
	return out
}

func toMonthlySummary(s *domain.MonthlySummary) *MonthlySummary {
	if s == nil {
		return nil
	}
	return &MonthlySummary{
		Year:    s.Year,
		Month:   s.Month,
		Income:  s.Income.InexactFloat64(),
		Expense: s.Expense.InexactFloat64(),
		Balance: s.Balance.InexactFloat64(),
	}
}

func toAuthPayload(p *service.AuthPayload) *AuthPayload {
	if p == nil {
		return nil
	}
	return &AuthPayload{
		Token:        p.Token,
		RefreshToken: p.RefreshToken,
		User:         toUser(p.User),
	}
}
