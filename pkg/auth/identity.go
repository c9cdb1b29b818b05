package auth

import "context"

const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID uint
	Role   string
	Claims *Claims
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the caller stored by the auth middleware.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.UserID != 0
}
