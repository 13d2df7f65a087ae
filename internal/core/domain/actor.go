package domain

import (
	"context"
	"strings"
)

type actorContextKey struct{}

// WithActor attaches the acting user's id to ctx. Blank ids are ignored.
func WithActor(ctx context.Context, userID string) context.Context {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ctx
	}
	return context.WithValue(ctx, actorContextKey{}, userID)
}

// ActorFromContext returns the acting user's id, if one was attached.
func ActorFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(actorContextKey{}).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
