package middleware

import (
	"context"
	"net/http"

	"bankaccounts/internal/models"
)

type RoleStore interface {
	GetUserRole(ctx context.Context, userID string) (models.UserRole, error)
}

// RequireRole gates an endpoint on the caller's directory role. The role is
// loaded per request rather than embedded in the token, so demotions take
// effect immediately.
func RequireRole(roles RoleStore, allowed ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			role, err := roles.GetUserRole(r.Context(), userID)
			if err != nil {
				http.Error(w, "unable to verify role", http.StatusInternalServerError)
				return
			}
			for _, candidate := range allowed {
				if role == candidate {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "insufficient privileges", http.StatusForbidden)
		})
	}
}
