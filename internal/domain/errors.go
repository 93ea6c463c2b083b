package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInternalError       = errors.New("internal error")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidEmail        = errors.New("email address is not valid")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryNameTaken   = errors.New("category with this name already exists")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
	ErrTitleRequired       = errors.New("title is required")
	ErrTitleTooLong        = errors.New("title exceeds maximum length")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidType         = errors.New("type must be INPUT or OUTPUT")
	ErrPasswordTooShort    = errors.New("password is too short")
)

// Validation constants
const (
	MaxCategoryNameLength     = 100
	MaxTransactionTitleLength = 255
	MinPasswordLength         = 8
)
