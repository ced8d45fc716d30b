package httpx

import (
	"context"

	domainauth "github.com/plantops/opsgate/internal/domain/auth"
)

type userKey struct{}

// SetUserInContext returns a child context carrying the given profile.
// A nil user returns the original ctx unchanged.
func SetUserInContext(ctx context.Context, user *domainauth.UserProfile) context.Context {
	if user == nil {
		return ctx
	}
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the profile from context and whether it is set.
func UserFromContext(ctx context.Context) (*domainauth.UserProfile, bool) {
	if u, ok := ctx.Value(userKey{}).(*domainauth.UserProfile); ok && u != nil {
		return u, true
	}
	return nil, false
}
