package handlers

import (
	"context"
	"testing"
	"time"

	"bankaccounts/internal/auth"
	"bankaccounts/internal/cache"
	"bankaccounts/internal/config"
	"bankaccounts/internal/models"
	"bankaccounts/internal/services"
	"bankaccounts/internal/store"
	"bankaccounts/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn            func(ctx context.Context, tx store.Execer, input store.UserInput) error
	getByIDFn           func(ctx context.Context, userID string) (models.User, error)
	getByEmailFn        func(ctx context.Context, email string) (models.User, error)
	getUserRoleFn       func(ctx context.Context, userID string) (models.UserRole, error)
	listFn              func(ctx context.Context) ([]models.User, error)
	listPageFn          func(ctx context.Context, ascending bool, limit, offset int) ([]models.User, error)
	updateContactsFn    func(ctx context.Context, tx store.Execer, userID, email, passwordHash, phoneNumber string) (int64, error)
	updateEmailFn       func(ctx context.Context, tx store.Execer, userID, email string) (int64, error)
	updatePasswordFn    func(ctx context.Context, tx store.Execer, userID, passwordHash string) (int64, error)
	updatePhoneNumberFn func(ctx context.Context, tx store.Execer, userID, phoneNumber string) (int64, error)
	updateAvatarFn      func(ctx context.Context, tx store.Execer, userID, avatar string) (int64, error)
	updateRoleFn        func(ctx context.Context, tx store.Execer, userID string, role models.UserRole) (int64, error)
	updateStatusFn      func(ctx context.Context, tx store.Execer, userID string, status models.UserStatus) (int64, error)
	updateVisibilityFn  func(ctx context.Context, tx store.Execer, userID string, visibility models.UserVisibility) (int64, error)
	deleteFn            func(ctx context.Context, tx store.Execer, userID string) (int64, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, input store.UserInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{ID: userID}, nil
	}
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if s.getByEmailFn == nil {
		return models.User{Email: email}, nil
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetUserRole(ctx context.Context, userID string) (models.UserRole, error) {
	if s.getUserRoleFn == nil {
		return models.RoleUser, nil
	}
	return s.getUserRoleFn(ctx, userID)
}

func (s stubUserStore) List(ctx context.Context) ([]models.User, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubUserStore) ListPage(ctx context.Context, ascending bool, limit, offset int) ([]models.User, error) {
	if s.listPageFn == nil {
		return nil, nil
	}
	return s.listPageFn(ctx, ascending, limit, offset)
}

func (s stubUserStore) UpdateContacts(ctx context.Context, tx store.Execer, userID, email, passwordHash, phoneNumber string) (int64, error) {
	if s.updateContactsFn == nil {
		return 1, nil
	}
	return s.updateContactsFn(ctx, tx, userID, email, passwordHash, phoneNumber)
}

func (s stubUserStore) UpdateEmail(ctx context.Context, tx store.Execer, userID, email string) (int64, error) {
	if s.updateEmailFn == nil {
		return 1, nil
	}
	return s.updateEmailFn(ctx, tx, userID, email)
}

func (s stubUserStore) UpdatePassword(ctx context.Context, tx store.Execer, userID, passwordHash string) (int64, error) {
	if s.updatePasswordFn == nil {
		return 1, nil
	}
	return s.updatePasswordFn(ctx, tx, userID, passwordHash)
}

func (s stubUserStore) UpdatePhoneNumber(ctx context.Context, tx store.Execer, userID, phoneNumber string) (int64, error) {
	if s.updatePhoneNumberFn == nil {
		return 1, nil
	}
	return s.updatePhoneNumberFn(ctx, tx, userID, phoneNumber)
}

func (s stubUserStore) UpdateAvatar(ctx context.Context, tx store.Execer, userID, avatar string) (int64, error) {
	if s.updateAvatarFn == nil {
		return 1, nil
	}
	return s.updateAvatarFn(ctx, tx, userID, avatar)
}

func (s stubUserStore) UpdateRole(ctx context.Context, tx store.Execer, userID string, role models.UserRole) (int64, error) {
	if s.updateRoleFn == nil {
		return 1, nil
	}
	return s.updateRoleFn(ctx, tx, userID, role)
}

func (s stubUserStore) UpdateStatus(ctx context.Context, tx store.Execer, userID string, status models.UserStatus) (int64, error) {
	if s.updateStatusFn == nil {
		return 1, nil
	}
	return s.updateStatusFn(ctx, tx, userID, status)
}

func (s stubUserStore) UpdateVisibility(ctx context.Context, tx store.Execer, userID string, visibility models.UserVisibility) (int64, error) {
	if s.updateVisibilityFn == nil {
		return 1, nil
	}
	return s.updateVisibilityFn(ctx, tx, userID, visibility)
}

func (s stubUserStore) Delete(ctx context.Context, tx store.Execer, userID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, userID)
}

type stubAuditStore struct {
	logFn  func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	listFn func(ctx context.Context, limit, offset int) ([]map[string]any, error)
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

func (s stubAuditStore) List(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

type stubCardService struct {
	createFn       func(ctx context.Context, userID, rawCurrency, rawType string) (models.Card, error)
	refillFn       func(ctx context.Context, cardID string, pin int, amountMinor int64) (int64, error)
	toggleStatusFn func(ctx context.Context, cardID string) (models.CardStatus, error)
	changeTypeFn   func(ctx context.Context, cardID, rawType string) error
	deleteFn       func(ctx context.Context, cardID, userID string) error
	getByIDFn      func(ctx context.Context, cardID string) (models.Card, error)
	listByUserFn   func(ctx context.Context, userID string) ([]models.Card, error)
}

func (s stubCardService) Create(ctx context.Context, userID, rawCurrency, rawType string) (models.Card, error) {
	if s.createFn == nil {
		return models.Card{}, nil
	}
	return s.createFn(ctx, userID, rawCurrency, rawType)
}

func (s stubCardService) Refill(ctx context.Context, cardID string, pin int, amountMinor int64) (int64, error) {
	if s.refillFn == nil {
		return 0, nil
	}
	return s.refillFn(ctx, cardID, pin, amountMinor)
}

func (s stubCardService) ToggleStatus(ctx context.Context, cardID string) (models.CardStatus, error) {
	if s.toggleStatusFn == nil {
		return models.CardStatusBlocked, nil
	}
	return s.toggleStatusFn(ctx, cardID)
}

func (s stubCardService) ChangeType(ctx context.Context, cardID, rawType string) error {
	if s.changeTypeFn == nil {
		return nil
	}
	return s.changeTypeFn(ctx, cardID, rawType)
}

func (s stubCardService) Delete(ctx context.Context, cardID, userID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, cardID, userID)
}

func (s stubCardService) GetByID(ctx context.Context, cardID string) (models.Card, error) {
	if s.getByIDFn == nil {
		return models.Card{ID: cardID}, nil
	}
	return s.getByIDFn(ctx, cardID)
}

func (s stubCardService) ListByUser(ctx context.Context, userID string) ([]models.Card, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

type stubCurrencyService struct {
	refreshFn func(ctx context.Context) error
	findFn    func(ctx context.Context, code string) (models.CurrencyRate, error)
	listFn    func(ctx context.Context) ([]models.CurrencyRate, error)
}

func (s stubCurrencyService) Refresh(ctx context.Context) error {
	if s.refreshFn == nil {
		return nil
	}
	return s.refreshFn(ctx)
}

func (s stubCurrencyService) Find(ctx context.Context, code string) (models.CurrencyRate, error) {
	if s.findFn == nil {
		return models.CurrencyRate{}, nil
	}
	return s.findFn(ctx, code)
}

func (s stubCurrencyService) List(ctx context.Context) ([]models.CurrencyRate, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

type stubMessageService struct {
	sendFn           func(ctx context.Context, senderID, receiverID, content string) (models.Message, error)
	listFn           func(ctx context.Context) ([]models.Message, error)
	getByIDFn        func(ctx context.Context, messageID string) (models.Message, error)
	listByContentFn  func(ctx context.Context, content string) ([]models.Message, error)
	listBySenderFn   func(ctx context.Context, senderID string) ([]models.Message, error)
	listByReceiverFn func(ctx context.Context, receiverID string) ([]models.Message, error)
}

func (s stubMessageService) Send(ctx context.Context, senderID, receiverID, content string) (models.Message, error) {
	if s.sendFn == nil {
		return models.Message{}, nil
	}
	return s.sendFn(ctx, senderID, receiverID, content)
}

func (s stubMessageService) List(ctx context.Context) ([]models.Message, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubMessageService) GetByID(ctx context.Context, messageID string) (models.Message, error) {
	if s.getByIDFn == nil {
		return models.Message{ID: messageID}, nil
	}
	return s.getByIDFn(ctx, messageID)
}

func (s stubMessageService) ListByContent(ctx context.Context, content string) ([]models.Message, error) {
	if s.listByContentFn == nil {
		return nil, nil
	}
	return s.listByContentFn(ctx, content)
}

func (s stubMessageService) ListBySender(ctx context.Context, senderID string) ([]models.Message, error) {
	if s.listBySenderFn == nil {
		return nil, nil
	}
	return s.listBySenderFn(ctx, senderID)
}

func (s stubMessageService) ListByReceiver(ctx context.Context, receiverID string) ([]models.Message, error) {
	if s.listByReceiverFn == nil {
		return nil, nil
	}
	return s.listByReceiverFn(ctx, receiverID)
}

type stubTransferService struct {
	transferFn        func(ctx context.Context, req services.TransferRequest) (models.Transfer, error)
	findByReferenceFn func(ctx context.Context, reference string) (models.Transfer, error)
}

func (s stubTransferService) Transfer(ctx context.Context, req services.TransferRequest) (models.Transfer, error) {
	if s.transferFn == nil {
		return models.Transfer{}, nil
	}
	return s.transferFn(ctx, req)
}

func (s stubTransferService) FindByReference(ctx context.Context, reference string) (models.Transfer, error) {
	if s.findByReferenceFn == nil {
		return models.Transfer{Reference: reference}, nil
	}
	return s.findByReferenceFn(ctx, reference)
}

const testSecret = "test-secret"

func newTestHandler(txRunner fakeTxRunner, users stubUserStore, audit stubAuditStore, cards stubCardService, currency stubCurrencyService, messages stubMessageService, transfers stubTransferService) *Handler {
	cfg := config.Config{
		JWTSecret:      testSecret,
		TokenTTL:       time.Hour,
		AllowedOrigins: "*",
	}
	return New(txRunner, cfg, users, audit, cards, currency, messages, transfers, cache.New(), websocket.NewHub())
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, userID, time.Hour)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	return token
}
