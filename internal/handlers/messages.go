package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"bankaccounts/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messages.List(r.Context())
	if err != nil {
		respondServiceError(w, err, "unable to load messages")
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

func (h *Handler) GetMessage(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "id")
	message, err := h.messages.GetByID(r.Context(), messageID)
	if err != nil {
		respondServiceError(w, err, "unable to load message")
		return
	}
	respondJSON(w, http.StatusOK, message)
}

func (h *Handler) GetMessagesByContent(w http.ResponseWriter, r *http.Request) {
	contentParam := chi.URLParam(r, "content")
	content, err := url.PathUnescape(contentParam)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid content")
		return
	}
	messages, err := h.messages.ListByContent(r.Context(), content)
	if err != nil {
		respondServiceError(w, err, "unable to load messages")
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

func (h *Handler) GetMessagesBySender(w http.ResponseWriter, r *http.Request) {
	senderID := chi.URLParam(r, "id")
	messages, err := h.messages.ListBySender(r.Context(), senderID)
	if err != nil {
		respondServiceError(w, err, "unable to load messages")
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

func (h *Handler) GetMessagesByReceiver(w http.ResponseWriter, r *http.Request) {
	receiverID := chi.URLParam(r, "id")
	messages, err := h.messages.ListByReceiver(r.Context(), receiverID)
	if err != nil {
		respondServiceError(w, err, "unable to load messages")
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	senderID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	message, err := h.messages.Send(r.Context(), senderID, req.ReceiverID, req.Content)
	if err != nil {
		respondServiceError(w, err, "unable to send message")
		return
	}
	respondJSON(w, http.StatusCreated, message)
}
