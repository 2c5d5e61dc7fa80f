/*
middleware.go - Authentication and role gating

PURPOSE:
  Resolves the bearer token to an acting user and places it on the request
  context. Handlers past the auth gate can rely on actorFrom returning a
  valid actor. RequireAdmin narrows routes to administrators.

SEE ALSO:
  - session/session.go: token verification
  - handlers.go: consumers of the actor
*/
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/academia/caixa/ledger"
)

type contextKey string

const actorKey contextKey = "actor"

// actorFrom returns the authenticated actor placed by RequireAuth.
// Zero value when called outside the auth gate.
func actorFrom(ctx context.Context) ledger.Actor {
	actor, _ := ctx.Value(actorKey).(ledger.Actor)
	return actor
}

// RequireAuth verifies the bearer token and stores the actor on the context.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Missing bearer token", nil)
			return
		}

		actor, err := h.Sessions.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token", nil)
			return
		}

		ctx := context.WithValue(r.Context(), actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects non-administrators. Must run after RequireAuth.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !actorFrom(r.Context()).IsAdmin() {
			writeError(w, http.StatusForbidden, "Administrator role required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
