package store

import (
	"context"
	"time"

	"bankaccounts/internal/models"
)

type MessageStore struct {
	db DB
}

func NewMessageStore(db DB) *MessageStore {
	return &MessageStore{db: db}
}

const messageColumns = `id, sender_id, receiver_id, content, timestamp`

type MessageInput struct {
	ID         string
	SenderID   string
	ReceiverID string
	Content    string
	Timestamp  time.Time
}

func (s *MessageStore) Create(ctx context.Context, tx Execer, input MessageInput) error {
	query := `
		INSERT INTO messages (id, sender_id, receiver_id, content, timestamp)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.ExecContext(ctx, query, input.ID, input.SenderID, input.ReceiverID, input.Content, input.Timestamp)
	return err
}

func (s *MessageStore) GetByID(ctx context.Context, messageID string) (models.Message, error) {
	var message models.Message
	err := s.db.GetContext(ctx, &message, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, messageID)
	return message, err
}

func (s *MessageStore) List(ctx context.Context) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.SelectContext(ctx, &messages, `SELECT `+messageColumns+` FROM messages ORDER BY timestamp`)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *MessageStore) ListByContent(ctx context.Context, content string) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.SelectContext(ctx, &messages, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE content = $1
		ORDER BY timestamp
	`, content)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// ListBySender returns the sender's messages in natural order, which for
// messages is timestamp ascending.
func (s *MessageStore) ListBySender(ctx context.Context, senderID string) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.SelectContext(ctx, &messages, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE sender_id = $1
		ORDER BY timestamp
	`, senderID)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *MessageStore) ListByReceiver(ctx context.Context, receiverID string) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.SelectContext(ctx, &messages, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE receiver_id = $1
		ORDER BY timestamp
	`, receiverID)
	if err != nil {
		return nil, err
	}
	return messages, nil
}
