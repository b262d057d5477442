package principal

import (
	"context"

	"github.com/mingle-social/mingle/internal/domain"
)

// Principal is the resolved identity attached to an authenticated request.
// It is a plain value threaded through the request context — there is no
// ambient "current user" global.
type Principal struct {
	CustomerID string
	Email      string
	Role       domain.Role
}

// HasRole reports whether the principal satisfies the required role.
// Admins satisfy every role.
func (p Principal) HasRole(required domain.Role) bool {
	if p.Role == domain.RoleAdmin {
		return true
	}
	return p.Role == required
}

type ctxKey struct{}

// WithPrincipal returns a copy of ctx carrying the principal. If ctx already
// carries one it is returned unchanged, so re-entrant authentication cannot
// overwrite an installed identity.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	if _, ok := FromContext(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext extracts the principal from ctx.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}
