package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"bankaccounts/internal/apperr"
	"bankaccounts/internal/auth"
	"bankaccounts/internal/cache"
	"bankaccounts/internal/middleware"
	"bankaccounts/internal/models"

	"github.com/jmoiron/sqlx"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			respondServiceError(w, apperr.Unauthorized("invalid credentials"), "login failed")
			return
		}
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondServiceError(w, apperr.Unauthorized("invalid credentials"), "login failed")
		return
	}
	if err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if _, err := h.users.UpdateVisibility(r.Context(), tx, user.ID, models.VisibilityOnline); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{
			"user_id":    user.ID,
			"ip":         r.RemoteAddr,
			"user_agent": r.UserAgent(),
		})
		return h.audit.Log(r.Context(), tx, user.ID, "login", "user", user.ID, string(data))
	}); err != nil {
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}
	h.cache.InvalidateAll(cache.CategoryUsers)
	h.hub.Publish(user.ID, presenceEvent(user.ID, models.VisibilityOnline))
	token, err := auth.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"token": token,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if _, err := h.users.UpdateVisibility(r.Context(), tx, userID, models.VisibilityOffline); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{
			"user_id": userID,
			"ip":      r.RemoteAddr,
		})
		return h.audit.Log(r.Context(), tx, userID, "logout", "user", userID, string(data))
	}); err != nil {
		respondError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	h.cache.InvalidateAll(cache.CategoryUsers)
	h.hub.Publish(userID, presenceEvent(userID, models.VisibilityOffline))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}
