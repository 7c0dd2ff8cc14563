package handlers

import (
	"net/http"
	"strings"

	"bankaccounts/internal/auth"
	"bankaccounts/internal/models"
	"bankaccounts/internal/websocket"
)

// WSEvents upgrades the connection and streams balance, presence and
// message events for the authenticated user. Browsers cannot set headers
// on websocket requests, so the token may also arrive as a query param.
func (h *Handler) WSEvents(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}
	claims, err := auth.ParseToken(h.cfg.JWTSecret, token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	websocket.ServeWS(w, r, h.hub, claims.UserID)
}

func presenceEvent(userID string, visibility models.UserVisibility) websocket.Event {
	return websocket.Event{
		Kind: websocket.EventPresence,
		Payload: websocket.PresencePayload{
			UserID:     userID,
			Visibility: string(visibility),
		},
	}
}
