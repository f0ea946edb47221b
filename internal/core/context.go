package core

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxKeyActor     contextKey = "actor"
	ctxKeyIPAddress contextKey = "client_ip"
)

// ContextWithActor stores the acting user for audit stamps.
func ContextWithActor(ctx context.Context, actor uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKeyActor, actor)
}

// ActorFromContext returns the acting user, if one was stored.
func ActorFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ctxKeyActor).(uuid.UUID)
	return v, ok && v != uuid.Nil
}

// ContextWithIPAddress adds the client IP address to context for logging.
func ContextWithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKeyIPAddress, ip)
}

// GetIPAddressFromContext extracts the client IP address from context.
func GetIPAddressFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyIPAddress).(string); ok {
		return v
	}
	return ""
}
