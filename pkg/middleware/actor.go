package middleware

import (
	"context"
	"net/http"

	"hostelhub/pkg/model"
)

const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
)

const ActorKey contextKey = "actor"

// ActorExtraction reads the authenticated identity the gateway attached to
// the request. Requests without identity headers proceed as anonymous; the
// policy layer decides what anonymous actors may do.
func ActorExtraction() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := model.Anonymous()

			if id := r.Header.Get(HeaderActorID); id != "" {
				role := r.Header.Get(HeaderActorRole)
				if role != model.RoleAdmin {
					role = model.RoleUser
				}
				actor = model.Actor{ID: id, Role: role}
			}

			ctx := context.WithValue(r.Context(), ActorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext returns the request actor, or an anonymous actor when the
// extraction middleware did not run.
func ActorFromContext(ctx context.Context) model.Actor {
	if actor, ok := ctx.Value(ActorKey).(model.Actor); ok {
		return actor
	}
	return model.Anonymous()
}
