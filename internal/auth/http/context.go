// Package http provides HTTP handlers and middleware for authentication.
package http

import (
	"context"

	authService "github.com/allisson/filevault/internal/auth/service"
)

// claimsKey is a context key type for storing verified session claims.
type claimsKey struct{}

// WithClaims stores verified session claims in the context.
// This is called by the authentication middleware after successful token validation.
func WithClaims(ctx context.Context, claims *authService.SessionClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetClaims retrieves verified session claims from the context.
// Returns (claims, true) if present, or (nil, false) if no claims were set.
func GetClaims(ctx context.Context) (*authService.SessionClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*authService.SessionClaims)
	return claims, ok
}
