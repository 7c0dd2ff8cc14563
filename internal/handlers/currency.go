package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RefreshAndListCurrencies pulls fresh rates from the upstream source and
// returns the full table. A failed refresh still serves the stored rates.
func (h *Handler) RefreshAndListCurrencies(w http.ResponseWriter, r *http.Request) {
	refreshErr := h.currency.Refresh(r.Context())
	rates, err := h.currency.List(r.Context())
	if err != nil {
		respondServiceError(w, err, "unable to load currency rates")
		return
	}
	if refreshErr != nil && len(rates) == 0 {
		respondError(w, http.StatusBadGateway, "currency rates unavailable")
		return
	}
	respondJSON(w, http.StatusOK, rates)
}

func (h *Handler) GetCurrency(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "currency")
	rate, err := h.currency.Find(r.Context(), code)
	if err != nil {
		respondServiceError(w, err, "unable to load currency rate")
		return
	}
	respondJSON(w, http.StatusOK, rate)
}
