package handlers

import (
	"context"

	"bankaccounts/internal/models"
	"bankaccounts/internal/services"
	"bankaccounts/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, input store.UserInput) error
	GetByID(ctx context.Context, userID string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetUserRole(ctx context.Context, userID string) (models.UserRole, error)
	List(ctx context.Context) ([]models.User, error)
	ListPage(ctx context.Context, ascending bool, limit, offset int) ([]models.User, error)
	UpdateContacts(ctx context.Context, tx store.Execer, userID, email, passwordHash, phoneNumber string) (int64, error)
	UpdateEmail(ctx context.Context, tx store.Execer, userID, email string) (int64, error)
	UpdatePassword(ctx context.Context, tx store.Execer, userID, passwordHash string) (int64, error)
	UpdatePhoneNumber(ctx context.Context, tx store.Execer, userID, phoneNumber string) (int64, error)
	UpdateAvatar(ctx context.Context, tx store.Execer, userID, avatar string) (int64, error)
	UpdateRole(ctx context.Context, tx store.Execer, userID string, role models.UserRole) (int64, error)
	UpdateStatus(ctx context.Context, tx store.Execer, userID string, status models.UserStatus) (int64, error)
	UpdateVisibility(ctx context.Context, tx store.Execer, userID string, visibility models.UserVisibility) (int64, error)
	Delete(ctx context.Context, tx store.Execer, userID string) (int64, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	List(ctx context.Context, limit, offset int) ([]map[string]any, error)
}

type CardService interface {
	Create(ctx context.Context, userID, rawCurrency, rawType string) (models.Card, error)
	Refill(ctx context.Context, cardID string, pin int, amountMinor int64) (int64, error)
	ToggleStatus(ctx context.Context, cardID string) (models.CardStatus, error)
	ChangeType(ctx context.Context, cardID, rawType string) error
	Delete(ctx context.Context, cardID, userID string) error
	GetByID(ctx context.Context, cardID string) (models.Card, error)
	ListByUser(ctx context.Context, userID string) ([]models.Card, error)
}

type CurrencyService interface {
	Refresh(ctx context.Context) error
	Find(ctx context.Context, code string) (models.CurrencyRate, error)
	List(ctx context.Context) ([]models.CurrencyRate, error)
}

type MessageService interface {
	Send(ctx context.Context, senderID, receiverID, content string) (models.Message, error)
	List(ctx context.Context) ([]models.Message, error)
	GetByID(ctx context.Context, messageID string) (models.Message, error)
	ListByContent(ctx context.Context, content string) ([]models.Message, error)
	ListBySender(ctx context.Context, senderID string) ([]models.Message, error)
	ListByReceiver(ctx context.Context, receiverID string) ([]models.Message, error)
}

type TransferService interface {
	Transfer(ctx context.Context, req services.TransferRequest) (models.Transfer, error)
	FindByReference(ctx context.Context, reference string) (models.Transfer, error)
}
