package graph

import (
	"context"

	"github.com/financy/financy-backend/internal/middleware"
)

// requireUser is the authorization gate for protected operations. A
// request that presented a failing token reports "invalid token"; a
// request that presented nothing reports "not authenticated". Both carry
// the UNAUTHENTICATED code.
func requireUser(ctx context.Context) (*middleware.Identity, error) {
	if authErr, ok := middleware.AuthErrorFromContext(ctx); ok && authErr == middleware.AuthErrorInvalidToken {
		return nil, errInvalidToken
	}
	identity := middleware.IdentityFromContext(ctx)
	if identity == nil {
		return nil, errNotAuthenticated
	}
	return identity, nil
}
