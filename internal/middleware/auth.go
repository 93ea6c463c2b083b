package middleware

import (
	"context"
	"strings"

	"github.com/financy/financy-backend/internal/auth"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Identity is the per-request resolved caller
type Identity struct {
	ID   uuid.UUID
	Name string
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// identityKey is the context key for the authenticated identity
	identityKey contextKey = "identity"
	// authErrorKey is the context key for the authentication error flag
	authErrorKey contextKey = "auth_error"
)

// AuthError distinguishes "bad credentials" from "no credentials"
type AuthError string

// AuthErrorInvalidToken marks a request that carried a bearer token which
// failed verification (bad signature, malformed, or expired).
const AuthErrorInvalidToken AuthError = "INVALID_TOKEN"

// TokenVerifier verifies a bearer token and returns its claims
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// IdentityMiddleware derives a per-request identity from the Authorization
// header. It never rejects the request: a missing or bearer-less header
// leaves the request anonymous, a failing token leaves it anonymous with
// the invalid-token flag set. Protected operations decide downstream.
type IdentityMiddleware struct {
	verifier TokenVerifier
}

// NewIdentityMiddleware creates a new IdentityMiddleware
func NewIdentityMiddleware(verifier TokenVerifier) *IdentityMiddleware {
	return &IdentityMiddleware{verifier: verifier}
}

// Resolve returns an Echo middleware that attaches the identity context
func (m *IdentityMiddleware) Resolve() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			token, ok := BearerToken(req.Header.Get("Authorization"))
			if !ok {
				return next(c)
			}

			claims, err := m.verifier.Verify(req.Context(), token)
			if err != nil {
				log.Debug().Err(err).Msg("Token verification failed")
				ctx := context.WithValue(req.Context(), authErrorKey, AuthErrorInvalidToken)
				c.SetRequest(req.WithContext(ctx))
				return next(c)
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				log.Debug().Err(err).Msg("Token subject is not a valid user id")
				ctx := context.WithValue(req.Context(), authErrorKey, AuthErrorInvalidToken)
				c.SetRequest(req.WithContext(ctx))
				return next(c)
			}

			ctx := context.WithValue(req.Context(), identityKey, &Identity{
				ID:   userID,
				Name: claims.Name,
			})
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <t>" value
func BearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// IdentityFromContext extracts the authenticated identity, if any
func IdentityFromContext(ctx context.Context) *Identity {
	if id, ok := ctx.Value(identityKey).(*Identity); ok {
		return id
	}
	return nil
}

// AuthErrorFromContext extracts the authentication error flag, if any
func AuthErrorFromContext(ctx context.Context) (AuthError, bool) {
	if e, ok := ctx.Value(authErrorKey).(AuthError); ok {
		return e, true
	}
	return "", false
}

// WithIdentity returns a context carrying the given identity (test helper
// and websocket handshake use)
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// WithAuthError returns a context carrying the given auth error flag
func WithAuthError(ctx context.Context, e AuthError) context.Context {
	return context.WithValue(ctx, authErrorKey, e)
}
