package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"bankaccounts/internal/apperr"

	"github.com/lib/pq"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps a domain failure onto its HTTP status; anything
// that is not an application error becomes an opaque 500.
func respondServiceError(w http.ResponseWriter, err error, fallback string) {
	if appErr := apperr.FromError(err); appErr != nil {
		respondError(w, appErr.Code, appErr.Message)
		return
	}
	respondError(w, http.StatusInternalServerError, fallback)
}

// conflictOnUnique turns a Postgres unique violation into a 409 with the
// given message; any other error passes through unchanged.
func conflictOnUnique(err error, message string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return apperr.Conflict("%s", message)
	}
	return err
}
