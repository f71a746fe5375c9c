package http

import (
	"context"

	"rentalstore-backend/internal/domain"
	"rentalstore-backend/internal/security"
)

type contextKey string

const contextKeyClaims contextKey = "claims"

func withClaims(ctx context.Context, claims *security.UserClaims) context.Context {
	return context.WithValue(ctx, contextKeyClaims, claims)
}

// ClaimsFromContext returns the claims of the authenticated caller. It fails
// with domain.ErrUnauthenticated on public routes, where no token is checked.
func ClaimsFromContext(ctx context.Context) (*security.UserClaims, error) {
	claims, ok := ctx.Value(contextKeyClaims).(*security.UserClaims)
	if !ok || claims == nil {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}
