package http

import (
	"context"
)

type actorKey struct{}

// withActor stores the authenticated user id on the request context.
func withActor(ctx context.Context, userID int32) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFromContext returns the user id placed on the context by the auth
// middleware. ok is false on public routes.
func ActorFromContext(ctx context.Context) (int32, bool) {
	id, ok := ctx.Value(actorKey{}).(int32)
	return id, ok
}
