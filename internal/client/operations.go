package client

import (
	"context"
	"time"
)

// AuthPayload mirrors the server's auth result
type AuthPayload struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}

// Category mirrors the server's category type
type Category struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Icon             string `json:"icon"`
	Color            string `json:"color"`
	TransactionCount int64  `json:"transactionCount"`
}

// Transaction mirrors the server's transaction type
type Transaction struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Amount     float64   `json:"amount"`
	Type       string    `json:"type"`
	Date       time.Time `json:"date"`
	CategoryID string    `json:"categoryId"`
}

// MonthlySummary mirrors the server's dashboard totals
type MonthlySummary struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

const authPayloadFields = `token refreshToken user { id name email }`

// Register creates an account and starts a session
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthPayload, error) {
	var resp struct {
		Register *AuthPayload `json:"register"`
	}
	query := `mutation ($data: CreateUserInput!) { register(data: $data) { ` + authPayloadFields + ` } }`
	variables := map[string]interface{}{
		"data": map[string]interface{}{"name": name, "email": email, "password": password},
	}
	if err := c.Do(ctx, query, variables, &resp); err != nil {
		return nil, err
	}
	if err := c.saveSession(resp.Register); err != nil {
		return nil, err
	}
	return resp.Register, nil
}

// Login authenticates and starts a session
func (c *Client) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	var resp struct {
		Login *AuthPayload `json:"login"`
	}
	query := `mutation ($data: LoginInput!) { login(data: $data) { ` + authPayloadFields + ` } }`
	variables := map[string]interface{}{
		"data": map[string]interface{}{"email": email, "password": password},
	}
	if err := c.Do(ctx, query, variables, &resp); err != nil {
		return nil, err
	}
	if err := c.saveSession(resp.Login); err != nil {
		return nil, err
	}
	return resp.Login, nil
}

// refresh exchanges the refresh token for a fresh pair and persists it
func (c *Client) refresh(ctx context.Context, refreshToken string) (*AuthPayload, error) {
	var resp struct {
		RefreshToken *AuthPayload `json:"refreshToken"`
	}
	query := `mutation ($refreshToken: String!) { refreshToken(refreshToken: $refreshToken) { ` + authPayloadFields + ` } }`
	variables := map[string]interface{}{"refreshToken": refreshToken}

	if err := c.post(ctx, query, variables, &resp); err != nil {
		return nil, err
	}
	if err := c.saveSession(resp.RefreshToken); err != nil {
		return nil, err
	}
	return resp.RefreshToken, nil
}

// Me fetches the authenticated user's profile
func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp struct {
		Me *User `json:"me"`
	}
	query := `query { me { id name email } }`
	if err := c.Do(ctx, query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Me, nil
}

// ListCategories fetches the user's categories
func (c *Client) ListCategories(ctx context.Context) ([]*Category, error) {
	var resp struct {
		ListCategories []*Category `json:"listCategories"`
	}
	query := `query { listCategories { id name description icon color transactionCount } }`
	if err := c.Do(ctx, query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.ListCategories, nil
}

// ListTransactions fetches the user's transactions, newest first
func (c *Client) ListTransactions(ctx context.Context) ([]*Transaction, error) {
	var resp struct {
		ListTransactions []*Transaction `json:"listTransactions"`
	}
	query := `query { listTransactions { id title amount type date categoryId } }`
	if err := c.Do(ctx, query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.ListTransactions, nil
}

// GetMonthlySummary fetches dashboard totals; zero year/month means the
// current month
func (c *Client) GetMonthlySummary(ctx context.Context, year, month int) (*MonthlySummary, error) {
	var resp struct {
		MonthlySummary *MonthlySummary `json:"monthlySummary"`
	}
	query := `query ($year: Int, $month: Int) { monthlySummary(year: $year, month: $month) { year month income expense balance } }`
	variables := map[string]interface{}{}
	if year != 0 && month != 0 {
		variables["year"] = year
		variables["month"] = month
	}
	if err := c.Do(ctx, query, variables, &resp); err != nil {
		return nil, err
	}
	return resp.MonthlySummary, nil
}

// CreateCategory creates a category
func (c *Client) CreateCategory(ctx context.Context, name, description, icon, color string) (*Category, error) {
	var resp struct {
		CreateCategory *Category `json:"createCategory"`
	}
	query := `mutation ($data: CreateCategoryInput!) { createCategory(data: $data) { id name description icon color transactionCount } }`
	variables := map[string]interface{}{
		"data": map[string]interface{}{"name": name, "description": description, "icon": icon, "color": color},
	}
	if err := c.Do(ctx, query, variables, &resp); err != nil {
		return nil, err
	}
	return resp.CreateCategory, nil
}

// CreateTransaction creates a transaction against a category
func (c *Client) CreateTransaction(ctx context.Context, title string, amount float64, txType, categoryID string, date time.Time) (*Transaction, error) {
	var resp struct {
		CreateTransaction *Transaction `json:"createTransaction"`
	}
	query := `mutation ($data: CreateTransactionInput!) { createTransaction(data: $data) { id title amount type date categoryId } }`
	data := map[string]interface{}{
		"title":      title,
		"amount":     amount,
		"type":       txType,
		"categoryId": categoryID,
	}
	if !date.IsZero() {
		data["date"] = date.Format(time.RFC3339)
	}
	if err := c.Do(ctx, query, map[string]interface{}{"data": data}, &resp); err != nil {
		return nil, err
	}
	return resp.CreateTransaction, nil
}

// DeleteCategory removes a category
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	query := `mutation ($id: ID!) { deleteCategory(id: $id) }`
	return c.Do(ctx, query, map[string]interface{}{"id": id}, nil)
}

// DeleteTransaction removes a transaction
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	query := `mutation ($id: ID!) { deleteTransaction(id: $id) }`
	return c.Do(ctx, query, map[string]interface{}{"id": id}, nil)
}
