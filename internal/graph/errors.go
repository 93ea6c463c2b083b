package graph

import (
	"errors"

	"github.com/financy/financy-backend/internal/auth"
	"github.com/financy/financy-backend/internal/domain"
)

// GraphQL error codes surfaced through extensions.code
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeBadUserInput    = "BAD_USER_INPUT"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

// apiError is a resolver error carrying a machine-readable code. It
// implements gqlerrors.ExtendedError so the code survives formatting.
type apiError struct {
	message string
	code    string
}

func (e *apiError) Error() string {
	return e.message
}

// Extensions implements gqlerrors.ExtendedError
func (e *apiError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

func newError(message, code string) error {
	return &apiError{message: message, code: code}
}

var (
	errInvalidToken     = newError("invalid token", CodeUnauthenticated)
	errNotAuthenticated = newError("not authenticated", CodeUnauthenticated)
)

// wrapErr maps domain errors onto operation-level errors with codes.
// Not-found covers both absent rows and rows owned by another user, so
// existence never leaks across users.
func wrapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrTransactionNotFound):
		return newError(err.Error(), CodeNotFound)
	case errors.Is(err, domain.ErrEmailAlreadyExists),
		errors.Is(err, domain.ErrCategoryNameTaken):
		return newError(err.Error(), CodeConflict)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return newError(err.Error(), CodeUnauthenticated)
	case errors.Is(err, auth.ErrInvalidToken):
		return errInvalidToken
	case errors.Is(err, domain.ErrNameRequired),
		errors.Is(err, domain.ErrNameTooLong),
		errors.Is(err, domain.ErrTitleRequired),
		errors.Is(err, domain.ErrTitleTooLong),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidType),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrInvalidInput):
		return newError(err.Error(), CodeBadUserInput)
	default:
		return newError("internal error", CodeInternal)
	}
}
