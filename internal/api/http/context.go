package http

import (
	"context"

	"librental-backend/internal/domain"
)

type contextKey string

const callerKey contextKey = "caller"

// WithCaller attaches the authenticated identity to the request context.
func WithCaller(ctx context.Context, caller *domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFromContext returns the authenticated identity, or nil for
// anonymous requests.
func CallerFromContext(ctx context.Context) *domain.Caller {
	caller, _ := ctx.Value(callerKey).(*domain.Caller)
	return caller
}
