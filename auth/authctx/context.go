// Package authctx carries the verified token identity through a request
// context.
//
// Usage:
//
//	// Store claims (in the auth middleware)
//	ctx = authctx.Set(ctx, claims)
//
//	// Retrieve claims (in handlers)
//	claims, ok := authctx.Get(ctx)
//	claims := authctx.MustGet(ctx) // panics if missing
package authctx

import (
	"context"
	"errors"

	"github.com/librosapp/authkit/auth/jwt"
)

// contextKey is an unexported type to prevent collisions with other packages.
type contextKey struct{}

var identityKey = contextKey{}

// ErrNoIdentity is returned when no verified identity is attached.
var ErrNoIdentity = errors.New("authctx: no identity in context")

// Set attaches verified claims to ctx.
func Set(ctx context.Context, claims *jwt.Claims) context.Context {
	return context.WithValue(ctx, identityKey, claims)
}

// Get returns the claims attached by Set. A nil pointer stored by Set is
// reported as missing.
func Get(ctx context.Context) (*jwt.Claims, bool) {
	if ctx == nil {
		return nil, false
	}
	claims, ok := ctx.Value(identityKey).(*jwt.Claims)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}

// MustGet returns the attached claims and panics if there are none.
// Use in handlers mounted behind the auth middleware.
func MustGet(ctx context.Context) *jwt.Claims {
	claims, ok := Get(ctx)
	if !ok {
		panic("authctx: identity not found in context")
	}
	return claims
}

// GetOrError returns the attached claims or ErrNoIdentity.
func GetOrError(ctx context.Context) (*jwt.Claims, error) {
	claims, ok := Get(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}
	return claims, nil
}
