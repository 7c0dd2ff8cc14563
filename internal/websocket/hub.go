package websocket

import (
	"encoding/json"
	"sync"
)

// Event is what the hub pushes to a connected user: card balance changes,
// presence flips, and incoming messages.
type Event struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload"`
}

const (
	EventBalance  = "balance"
	EventPresence = "presence"
	EventMessage  = "message"
)

type BalancePayload struct {
	CardID   string `json:"card_id"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

type PresencePayload struct {
	UserID     string `json:"user_id"`
	Visibility string `json:"visibility"`
}

type MessagePayload struct {
	MessageID string `json:"message_id"`
	SenderID  string `json:"sender_id"`
	Content   string `json:"content"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(userID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*Client]struct{})
	}
	h.clients[userID][client] = struct{}{}
}

func (h *Hub) Unregister(userID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		return
	}
	delete(h.clients[userID], client)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

// Publish delivers the event to every open connection of the user. Slow
// consumers are skipped rather than blocking the caller.
func (h *Hub) Publish(userID string, event Event) {
	payload, _ := json.Marshal(event)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
		}
	}
}
