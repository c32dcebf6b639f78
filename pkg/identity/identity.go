package identity

import (
	"context"
	"time"

	"github.com/kickshopping/kickshop/pkg/token"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Key is the context key for Identity.
const Key ContextKey = "identity"

// Identity represents the authenticated identity for a request. It lives
// exactly as long as the request.
type Identity struct {
	Subject   string
	RoleID    int
	UserID    int
	ExpiresAt time.Time

	// The underlying verified claims
	Claims *token.Claims
}

// FromClaims creates an Identity from verified token claims.
func FromClaims(claims *token.Claims) *Identity {
	id := &Identity{
		Subject: claims.Subject,
		RoleID:  claims.RoleID,
		UserID:  claims.UserID,
		Claims:  claims,
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id
}

// HasRole reports whether the identity carries a role id. Tokens without
// one skip the permission check at the gate.
func (i *Identity) HasRole() bool {
	return i.RoleID != 0
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
