// Package auth issues and verifies bearer tokens and carries the
// authenticated principal through request contexts.
package auth

import "context"

// Principal is the authenticated caller.
type Principal struct {
	UserID   int64
	Username string
	IsStaff  bool
}

// CanModify reports whether p may change a record owned by ownerID.
func (p Principal) CanModify(ownerID int64) bool {
	return p.IsStaff || p.UserID == ownerID
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored by Authenticate, if any.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok && p.UserID > 0
}

// ViewerID returns the caller's user ID, or 0 for anonymous requests.
func ViewerID(ctx context.Context) int64 {
	p, _ := FromContext(ctx)
	return p.UserID
}
