package httpapi

import (
	"context"

	"github.com/kcesar/training-api/internal/platform/auth/jwtverifier"
)

type claimsKey struct{}

func WithClaims(ctx context.Context, c jwtverifier.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func ClaimsFromContext(ctx context.Context) (jwtverifier.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(jwtverifier.Claims)
	return c, ok && c.Subject != ""
}
