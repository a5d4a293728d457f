package authctx

import (
	"context"

	"github.com/Barmakyy/logistics-app/internal/domain"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// WithUser stores the authenticated user on the request context.
func WithUser(ctx context.Context, user domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFrom returns the authenticated user, or nil outside an authenticated
// request.
func UserFrom(ctx context.Context) *domain.User {
	val, ok := ctx.Value(userContextKey).(domain.User)
	if !ok {
		return nil
	}
	return &val
}
