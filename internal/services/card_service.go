package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"bankaccounts/internal/apperr"
	"bankaccounts/internal/cache"
	"bankaccounts/internal/db"
	"bankaccounts/internal/models"
	"bankaccounts/internal/money"
	"bankaccounts/internal/store"
	"bankaccounts/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type CardStore interface {
	Create(ctx context.Context, tx store.Execer, input store.CardInput) error
	GetByID(ctx context.Context, cardID string) (models.Card, error)
	GetByNumber(ctx context.Context, cardNumber string) (models.Card, error)
	GetForUpdate(ctx context.Context, tx store.Getter, cardID string) (models.Card, error)
	ListByUser(ctx context.Context, userID string) ([]models.Card, error)
	UpdateBalance(ctx context.Context, tx store.Execer, cardID string, balance int64, recipientAt time.Time) error
	UpdateStatus(ctx context.Context, tx store.Execer, cardID string, status models.CardStatus) error
	UpdateType(ctx context.Context, tx store.Execer, cardID string, cardType models.CardType) error
	Delete(ctx context.Context, tx store.Execer, cardID string) (int64, error)
}

type UserReader interface {
	GetByID(ctx context.Context, userID string) (models.User, error)
}

type AuditLogger interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

type RateProvider interface {
	Rate(ctx context.Context, currency models.Currency) (decimal.Decimal, error)
}

type EventHub interface {
	Publish(userID string, event websocket.Event)
}

type CardService struct {
	txRunner db.TxRunner
	cards    CardStore
	users    UserReader
	rates    RateProvider
	audit    AuditLogger
	cache    *cache.Cache
	hub      EventHub
}

func NewCardService(txRunner db.TxRunner, cards CardStore, users UserReader, rates RateProvider, audit AuditLogger, c *cache.Cache, hub EventHub) *CardService {
	return &CardService{
		txRunner: txRunner,
		cards:    cards,
		users:    users,
		rates:    rates,
		audit:    audit,
		cache:    c,
		hub:      hub,
	}
}

func (s *CardService) Create(ctx context.Context, userID, rawCurrency, rawType string) (models.Card, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Card{}, apperr.NotFound("user with id %s not found", userID)
		}
		return models.Card{}, err
	}
	if user.Status == models.UserStatusBlocked {
		return models.Card{}, apperr.BadRequest("creating card is unavailable for blocked user")
	}
	if rawCurrency == "" {
		return models.Card{}, apperr.BadRequest("currency must be filled")
	}
	currency, ok := models.ParseCurrency(rawCurrency)
	if !ok {
		return models.Card{}, apperr.BadRequest("currency %s does not exist", rawCurrency)
	}
	if rawType == "" {
		return models.Card{}, apperr.BadRequest("card type must be filled")
	}
	cardType, ok := models.ParseCardType(rawType)
	if !ok {
		return models.Card{}, apperr.BadRequest("card type %s does not exist", rawType)
	}

	now := time.Now().UTC()
	input := store.CardInput{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		CardNumber:    generateCardNumber(),
		CVV:           generateCVV(),
		PIN:           generatePIN(),
		HolderName:    user.Name + " " + user.Surname,
		IBAN:          generateIBAN(),
		SWIFT:         generateSwift(),
		AccountNumber: generateAccountNumber(),
		Currency:      currency,
		Type:          cardType,
		Status:        models.CardStatusDefault,
		ExpiresAt:     now.AddDate(5, 0, 0),
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.cards.Create(ctx, tx, input); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{"currency": string(currency), "card_type": string(cardType)})
		return s.audit.Log(ctx, tx, userID, "card_create", "card", input.ID, string(data))
	})
	if err != nil {
		return models.Card{}, err
	}
	s.cache.InvalidateAll(cache.CategoryCards)
	s.cache.InvalidateAll(cache.CategoryUsers)
	return models.Card{
		ID:            input.ID,
		UserID:        input.UserID,
		CardNumber:    input.CardNumber,
		CVV:           input.CVV,
		PIN:           input.PIN,
		HolderName:    input.HolderName,
		IBAN:          input.IBAN,
		SWIFT:         input.SWIFT,
		AccountNumber: input.AccountNumber,
		Balance:       0,
		Currency:      input.Currency,
		Type:          input.Type,
		Status:        input.Status,
		ExpiresAt:     input.ExpiresAt,
		CreatedAt:     now,
	}, nil
}

// Refill credits a card with an amount converted through the cached
// exchange rate for the card's currency.
func (s *CardService) Refill(ctx context.Context, cardID string, pin int, amountMinor int64) (int64, error) {
	if amountMinor <= 0 {
		return 0, apperr.BadRequest("invalid amount")
	}
	var newBalance int64
	var userID string
	var currency models.Currency
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		card, err := s.cards.GetForUpdate(ctx, tx, cardID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("card with id %s not found", cardID)
			}
			return err
		}
		if card.Status == models.CardStatusBlocked {
			return apperr.BadRequest("operation is unavailable for blocked card")
		}
		if card.Expired(time.Now().UTC()) {
			return apperr.BadRequest("card is expired")
		}
		if card.PIN != pin {
			return apperr.BadRequest("invalid pin or card is blocked")
		}
		rate, err := s.rates.Rate(ctx, card.Currency)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		newBalance = convertRefill(card.Currency, card.Balance, amountMinor, rate)
		userID = card.UserID
		currency = card.Currency
		if err := s.cards.UpdateBalance(ctx, tx, cardID, newBalance, now); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{"amount": money.FormatMinor(amountMinor)})
		return s.audit.Log(ctx, tx, card.UserID, "card_refill", "card", cardID, string(data))
	})
	if err != nil {
		return 0, err
	}
	s.cache.InvalidateAll(cache.CategoryCards)
	s.hub.Publish(userID, websocket.Event{
		Kind: websocket.EventBalance,
		Payload: websocket.BalancePayload{
			CardID:   cardID,
			Balance:  money.FormatMinor(newBalance),
			Currency: string(currency),
		},
	})
	return newBalance, nil
}

// convertRefill applies the rate-table conversion to a refill. USD refills
// multiply the prior balance plus the incoming amount by the rate, while
// every other currency converts only the incoming amount.
// TODO: confirm whether USD refills should rate-adjust the existing balance
// too, or only the incoming amount like the other currencies.
func convertRefill(currency models.Currency, balance, amount int64, rate decimal.Decimal) int64 {
	if currency == models.CurrencyUSD {
		return money.ApplyRate(balance+amount, rate)
	}
	return balance + money.ApplyRate(amount, rate)
}

// ToggleStatus flips DEFAULT/UNBLOCKED to BLOCKED and BLOCKED back to
// UNBLOCKED. No transition is permitted on an expired card.
func (s *CardService) ToggleStatus(ctx context.Context, cardID string) (models.CardStatus, error) {
	var next models.CardStatus
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		card, err := s.cards.GetForUpdate(ctx, tx, cardID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("card with id %s not found", cardID)
			}
			return err
		}
		if card.Expired(time.Now().UTC()) {
			return apperr.BadRequest("card is expired")
		}
		if card.Status == models.CardStatusBlocked {
			next = models.CardStatusUnblocked
		} else {
			next = models.CardStatusBlocked
		}
		if err := s.cards.UpdateStatus(ctx, tx, cardID, next); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, card.UserID, "card_status", "card", cardID, `{"status":"`+string(next)+`"}`)
	})
	if err != nil {
		return "", err
	}
	s.cache.InvalidateAll(cache.CategoryCards)
	return next, nil
}

func (s *CardService) ChangeType(ctx context.Context, cardID, rawType string) error {
	if rawType == "" {
		return apperr.BadRequest("card type must be filled")
	}
	cardType, ok := models.ParseCardType(rawType)
	if !ok {
		return apperr.BadRequest("card type %s does not exist", rawType)
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		card, err := s.cards.GetForUpdate(ctx, tx, cardID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("card with id %s not found", cardID)
			}
			return err
		}
		if card.Expired(time.Now().UTC()) {
			return apperr.BadRequest("card is expired")
		}
		if card.Status == models.CardStatusBlocked {
			return apperr.BadRequest("operation is unavailable for blocked card")
		}
		if err := s.cards.UpdateType(ctx, tx, cardID, cardType); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, card.UserID, "card_type", "card", cardID, `{"card_type":"`+string(cardType)+`"}`)
	})
	if err != nil {
		return err
	}
	s.cache.InvalidateAll(cache.CategoryCards)
	return nil
}

// Delete removes a card only when its balance is exactly zero and it
// belongs to the given user.
func (s *CardService) Delete(ctx context.Context, cardID, userID string) error {
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		card, err := s.cards.GetForUpdate(ctx, tx, cardID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("card with id %s not found", cardID)
			}
			return err
		}
		if _, err := s.users.GetByID(ctx, userID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("user with id %s not found", userID)
			}
			return err
		}
		if card.Balance != 0 || card.UserID != userID {
			return apperr.BadRequest("card is not empty or user does not contain this card")
		}
		if _, err := s.cards.Delete(ctx, tx, cardID); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, userID, "card_delete", "card", cardID, "{}")
	})
	if err != nil {
		return err
	}
	s.cache.InvalidateAll(cache.CategoryCards)
	s.cache.InvalidateAll(cache.CategoryUsers)
	return nil
}

func (s *CardService) GetByID(ctx context.Context, cardID string) (models.Card, error) {
	if cached, ok := s.cache.Get(cache.CategoryCards, cardID); ok {
		return cached.(models.Card), nil
	}
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Card{}, apperr.NotFound("card with id %s not found", cardID)
		}
		return models.Card{}, err
	}
	s.cache.Set(cache.CategoryCards, cardID, card)
	return card, nil
}

func (s *CardService) GetByNumber(ctx context.Context, cardNumber string) (models.Card, error) {
	card, err := s.cards.GetByNumber(ctx, cardNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Card{}, apperr.NotFound("card with number %s not found", cardNumber)
		}
		return models.Card{}, err
	}
	return card, nil
}

func (s *CardService) ListByUser(ctx context.Context, userID string) ([]models.Card, error) {
	return s.cards.ListByUser(ctx, userID)
}
