package handlers

import (
	"encoding/json"
	"net/http"

	"bankaccounts/internal/middleware"
	"bankaccounts/internal/money"
	"bankaccounts/internal/services"

	"github.com/go-chi/chi/v5"
)

type createCardRequest struct {
	Currency string `json:"currency"`
	Type     string `json:"card_type"`
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	card, err := h.cards.Create(r.Context(), userID, req.Currency, req.Type)
	if err != nil {
		respondServiceError(w, err, "unable to create card")
		return
	}
	respondJSON(w, http.StatusCreated, card)
}

func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	cards, err := h.cards.ListByUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, "unable to load cards")
		return
	}
	respondJSON(w, http.StatusOK, cards)
}

func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "id")
	card, err := h.cards.GetByID(r.Context(), cardID)
	if err != nil {
		respondServiceError(w, err, "unable to load card")
		return
	}
	respondJSON(w, http.StatusOK, card)
}

type refillRequest struct {
	PIN    int    `json:"pin"`
	Amount string `json:"amount"`
}

func (h *Handler) RefillCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "id")
	var req refillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amountMinor, err := money.ParseMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	newBalance, err := h.cards.Refill(r.Context(), cardID, req.PIN, amountMinor)
	if err != nil {
		respondServiceError(w, err, "refill failed")
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]any{
		"card_id": cardID,
		"balance": newBalance,
	})
}

func (h *Handler) ToggleCardStatus(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "id")
	status, err := h.cards.ToggleStatus(r.Context(), cardID)
	if err != nil {
		respondServiceError(w, err, "unable to change card status")
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]any{
		"card_id": cardID,
		"status":  status,
	})
}

func (h *Handler) ChangeCardType(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "id")
	var req struct {
		Type string `json:"card_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.cards.ChangeType(r.Context(), cardID, req.Type); err != nil {
		respondServiceError(w, err, "unable to change card type")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "id")
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.cards.Delete(r.Context(), cardID, userID); err != nil {
		respondServiceError(w, err, "unable to delete card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type transferRequest struct {
	ToCardNumber string `json:"to_card_number"`
	PIN          int    `json:"pin"`
	Amount       string `json:"amount"`
}

func (h *Handler) TransferFromCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "id")
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amountMinor, err := money.ParseMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	transfer, err := h.transfers.Transfer(r.Context(), services.TransferRequest{
		UserID:       userID,
		FromCardID:   cardID,
		ToCardNumber: req.ToCardNumber,
		PIN:          req.PIN,
		AmountMinor:  amountMinor,
	})
	if err != nil {
		respondServiceError(w, err, "transfer failed")
		return
	}
	respondJSON(w, http.StatusCreated, transfer)
}

func (h *Handler) GetTransfer(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	transfer, err := h.transfers.FindByReference(r.Context(), reference)
	if err != nil {
		respondServiceError(w, err, "unable to load transfer")
		return
	}
	respondJSON(w, http.StatusOK, transfer)
}
