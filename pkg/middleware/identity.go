package middleware

import (
	"context"
	"slices"

	"github.com/gin-gonic/gin"
)

// Identity is the authenticated caller of a request
type Identity struct {
	UserID      string
	Email       string
	Authorities []string
}

// HasAuthority reports whether the identity was granted a
func (i *Identity) HasAuthority(a string) bool {
	return slices.Contains(i.Authorities, a)
}

type identityKey struct{}

const identityCtxKey = "identity"

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity attached to ctx, if any
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}

// GetIdentity returns the identity the gate attached to the request
func GetIdentity(c *gin.Context) (*Identity, bool) {
	if v, ok := c.Get(identityCtxKey); ok {
		if id, ok := v.(*Identity); ok && id != nil {
			return id, true
		}
	}

	return IdentityFromContext(c.Request.Context())
}

func setIdentity(c *gin.Context, id *Identity) {
	c.Set(identityCtxKey, id)
	c.Set("userID", id.UserID)
	c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
}
