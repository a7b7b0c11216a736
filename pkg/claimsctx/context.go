// Package claimsctx carries the authenticated session claims through a
// request context.
package claimsctx

import (
	"context"

	"github.com/tenantgate/tenantgate/internal/auth/token"
)

type keyType string

const claimsKey keyType = "claims"

func WithClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func Claims(ctx context.Context) (*token.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*token.Claims)
	return c, ok && c != nil
}
