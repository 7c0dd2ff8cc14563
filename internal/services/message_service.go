package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bankaccounts/internal/apperr"
	"bankaccounts/internal/cache"
	"bankaccounts/internal/db"
	"bankaccounts/internal/models"
	"bankaccounts/internal/store"
	"bankaccounts/internal/validator"
	"bankaccounts/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type MessageStore interface {
	Create(ctx context.Context, tx store.Execer, input store.MessageInput) error
	GetByID(ctx context.Context, messageID string) (models.Message, error)
	List(ctx context.Context) ([]models.Message, error)
	ListByContent(ctx context.Context, content string) ([]models.Message, error)
	ListBySender(ctx context.Context, senderID string) ([]models.Message, error)
	ListByReceiver(ctx context.Context, receiverID string) ([]models.Message, error)
}

type Notifier interface {
	Enabled() bool
	MessageReceived(to, senderName, content string) error
}

type MessageService struct {
	txRunner db.TxRunner
	messages MessageStore
	users    UserReader
	notifier Notifier
	cache    *cache.Cache
	hub      EventHub
	logger   *zap.Logger
}

func NewMessageService(txRunner db.TxRunner, messages MessageStore, users UserReader, notifier Notifier, c *cache.Cache, hub EventHub, logger *zap.Logger) *MessageService {
	return &MessageService{
		txRunner: txRunner,
		messages: messages,
		users:    users,
		notifier: notifier,
		cache:    c,
		hub:      hub,
		logger:   logger,
	}
}

// Send validates, persists and delivers a message. The receiver gets a hub
// event immediately; the email notification is best-effort and never fails
// the send.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID, content string) (models.Message, error) {
	if err := validator.ValidateMessageContent(content); err != nil {
		return models.Message{}, apperr.BadRequest("%s", err.Error())
	}
	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Message{}, apperr.NotFound("user with id %s not found", senderID)
		}
		return models.Message{}, err
	}
	receiver, err := s.users.GetByID(ctx, receiverID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Message{}, apperr.NotFound("user with id %s not found", receiverID)
		}
		return models.Message{}, err
	}
	input := store.MessageInput{
		ID:         uuid.NewString(),
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Content:    content,
		Timestamp:  time.Now().UTC(),
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.messages.Create(ctx, tx, input)
	})
	if err != nil {
		return models.Message{}, err
	}
	s.cache.InvalidateAll(cache.CategoryMessages)
	message := models.Message{
		ID:         input.ID,
		SenderID:   input.SenderID,
		ReceiverID: input.ReceiverID,
		Content:    input.Content,
		Timestamp:  input.Timestamp,
	}
	s.hub.Publish(receiver.ID, websocket.Event{
		Kind: websocket.EventMessage,
		Payload: websocket.MessagePayload{
			MessageID: message.ID,
			SenderID:  message.SenderID,
			Content:   message.Content,
		},
	})
	if s.notifier.Enabled() {
		go func() {
			if err := s.notifier.MessageReceived(receiver.Email, sender.Name+" "+sender.Surname, content); err != nil {
				s.logger.Warn("message notification failed", zap.Error(err))
			}
		}()
	}
	return message, nil
}

func (s *MessageService) List(ctx context.Context) ([]models.Message, error) {
	return s.messages.List(ctx)
}

func (s *MessageService) GetByID(ctx context.Context, messageID string) (models.Message, error) {
	if cached, ok := s.cache.Get(cache.CategoryMessages, messageID); ok {
		return cached.(models.Message), nil
	}
	message, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Message{}, apperr.NotFound("message with id %s not found", messageID)
		}
		return models.Message{}, err
	}
	s.cache.Set(cache.CategoryMessages, messageID, message)
	return message, nil
}

// ListByContent treats an empty content lookup as not found, the same
// way an unknown message id is reported.
func (s *MessageService) ListByContent(ctx context.Context, content string) ([]models.Message, error) {
	if content == "" {
		return nil, apperr.NotFound("message %s not found", content)
	}
	return s.messages.ListByContent(ctx, content)
}

func (s *MessageService) ListBySender(ctx context.Context, senderID string) ([]models.Message, error) {
	return s.messages.ListBySender(ctx, senderID)
}

func (s *MessageService) ListByReceiver(ctx context.Context, receiverID string) ([]models.Message, error) {
	return s.messages.ListByReceiver(ctx, receiverID)
}
