package services

import (
	"context"
	"time"

	"bankaccounts/internal/models"
	"bankaccounts/internal/store"
	"bankaccounts/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubCardStore struct {
	createFn        func(ctx context.Context, tx store.Execer, input store.CardInput) error
	getByIDFn       func(ctx context.Context, cardID string) (models.Card, error)
	getByNumberFn   func(ctx context.Context, cardNumber string) (models.Card, error)
	getForUpdateFn  func(ctx context.Context, tx store.Getter, cardID string) (models.Card, error)
	listByUserFn    func(ctx context.Context, userID string) ([]models.Card, error)
	updateBalanceFn func(ctx context.Context, tx store.Execer, cardID string, balance int64, recipientAt time.Time) error
	updateStatusFn  func(ctx context.Context, tx store.Execer, cardID string, status models.CardStatus) error
	updateTypeFn    func(ctx context.Context, tx store.Execer, cardID string, cardType models.CardType) error
	deleteFn        func(ctx context.Context, tx store.Execer, cardID string) (int64, error)
}

func (s stubCardStore) Create(ctx context.Context, tx store.Execer, input store.CardInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubCardStore) GetByID(ctx context.Context, cardID string) (models.Card, error) {
	if s.getByIDFn == nil {
		return models.Card{}, nil
	}
	return s.getByIDFn(ctx, cardID)
}

func (s stubCardStore) GetByNumber(ctx context.Context, cardNumber string) (models.Card, error) {
	if s.getByNumberFn == nil {
		return models.Card{}, nil
	}
	return s.getByNumberFn(ctx, cardNumber)
}

func (s stubCardStore) GetForUpdate(ctx context.Context, tx store.Getter, cardID string) (models.Card, error) {
	if s.getForUpdateFn == nil {
		return models.Card{}, nil
	}
	return s.getForUpdateFn(ctx, tx, cardID)
}

func (s stubCardStore) ListByUser(ctx context.Context, userID string) ([]models.Card, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

func (s stubCardStore) UpdateBalance(ctx context.Context, tx store.Execer, cardID string, balance int64, recipientAt time.Time) error {
	if s.updateBalanceFn == nil {
		return nil
	}
	return s.updateBalanceFn(ctx, tx, cardID, balance, recipientAt)
}

func (s stubCardStore) UpdateStatus(ctx context.Context, tx store.Execer, cardID string, status models.CardStatus) error {
	if s.updateStatusFn == nil {
		return nil
	}
	return s.updateStatusFn(ctx, tx, cardID, status)
}

func (s stubCardStore) UpdateType(ctx context.Context, tx store.Execer, cardID string, cardType models.CardType) error {
	if s.updateTypeFn == nil {
		return nil
	}
	return s.updateTypeFn(ctx, tx, cardID, cardType)
}

func (s stubCardStore) Delete(ctx context.Context, tx store.Execer, cardID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, cardID)
}

type stubUserReader struct {
	getByIDFn func(ctx context.Context, userID string) (models.User, error)
}

func (s stubUserReader) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{ID: userID}, nil
	}
	return s.getByIDFn(ctx, userID)
}

type stubAuditLogger struct {
	logFn func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

func (s stubAuditLogger) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

type stubRateProvider struct {
	rateFn func(ctx context.Context, currency models.Currency) (decimal.Decimal, error)
}

func (s stubRateProvider) Rate(ctx context.Context, currency models.Currency) (decimal.Decimal, error) {
	if s.rateFn == nil {
		return decimal.NewFromInt(1), nil
	}
	return s.rateFn(ctx, currency)
}

type recordingHub struct {
	events []websocket.Event
	users  []string
}

func (h *recordingHub) Publish(userID string, event websocket.Event) {
	h.users = append(h.users, userID)
	h.events = append(h.events, event)
}

type stubTransferStore struct {
	createFn         func(ctx context.Context, tx store.Execer, input store.TransferInput) error
	getByReferenceFn func(ctx context.Context, reference string) (models.Transfer, error)
}

func (s stubTransferStore) Create(ctx context.Context, tx store.Execer, input store.TransferInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubTransferStore) GetByReference(ctx context.Context, reference string) (models.Transfer, error) {
	if s.getByReferenceFn == nil {
		return models.Transfer{}, nil
	}
	return s.getByReferenceFn(ctx, reference)
}

type stubMessageStore struct {
	createFn         func(ctx context.Context, tx store.Execer, input store.MessageInput) error
	getByIDFn        func(ctx context.Context, messageID string) (models.Message, error)
	listFn           func(ctx context.Context) ([]models.Message, error)
	listByContentFn  func(ctx context.Context, content string) ([]models.Message, error)
	listBySenderFn   func(ctx context.Context, senderID string) ([]models.Message, error)
	listByReceiverFn func(ctx context.Context, receiverID string) ([]models.Message, error)
}

func (s stubMessageStore) Create(ctx context.Context, tx store.Execer, input store.MessageInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubMessageStore) GetByID(ctx context.Context, messageID string) (models.Message, error) {
	if s.getByIDFn == nil {
		return models.Message{}, nil
	}
	return s.getByIDFn(ctx, messageID)
}

func (s stubMessageStore) List(ctx context.Context) ([]models.Message, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubMessageStore) ListByContent(ctx context.Context, content string) ([]models.Message, error) {
	if s.listByContentFn == nil {
		return nil, nil
	}
	return s.listByContentFn(ctx, content)
}

func (s stubMessageStore) ListBySender(ctx context.Context, senderID string) ([]models.Message, error) {
	if s.listBySenderFn == nil {
		return nil, nil
	}
	return s.listBySenderFn(ctx, senderID)
}

func (s stubMessageStore) ListByReceiver(ctx context.Context, receiverID string) ([]models.Message, error) {
	if s.listByReceiverFn == nil {
		return nil, nil
	}
	return s.listByReceiverFn(ctx, receiverID)
}

type stubNotifier struct {
	enabled bool
	sentFn  func(to, senderName, content string) error
}

func (s stubNotifier) Enabled() bool {
	return s.enabled
}

func (s stubNotifier) MessageReceived(to, senderName, content string) error {
	if s.sentFn == nil {
		return nil
	}
	return s.sentFn(to, senderName, content)
}

type stubCurrencyStore struct {
	replaceAllFn    func(ctx context.Context, tx store.Execer, rates []store.RateInput) error
	getByCurrencyFn func(ctx context.Context, currency models.Currency) (models.CurrencyRate, error)
	listFn          func(ctx context.Context) ([]models.CurrencyRate, error)
}

func (s stubCurrencyStore) ReplaceAll(ctx context.Context, tx store.Execer, rates []store.RateInput) error {
	if s.replaceAllFn == nil {
		return nil
	}
	return s.replaceAllFn(ctx, tx, rates)
}

func (s stubCurrencyStore) GetByCurrency(ctx context.Context, currency models.Currency) (models.CurrencyRate, error) {
	if s.getByCurrencyFn == nil {
		return models.CurrencyRate{}, nil
	}
	return s.getByCurrencyFn(ctx, currency)
}

func (s stubCurrencyStore) List(ctx context.Context) ([]models.CurrencyRate, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

type stubRateSource struct {
	fetchFn func(ctx context.Context) (map[models.Currency]decimal.Decimal, error)
}

func (s stubRateSource) Fetch(ctx context.Context) (map[models.Currency]decimal.Decimal, error) {
	if s.fetchFn == nil {
		return nil, nil
	}
	return s.fetchFn(ctx)
}
