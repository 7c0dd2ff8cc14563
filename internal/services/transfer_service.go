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
)

type TransferStore interface {
	Create(ctx context.Context, tx store.Execer, input store.TransferInput) error
	GetByReference(ctx context.Context, reference string) (models.Transfer, error)
}

// TransferService moves funds between two cards. Cross-currency transfers
// convert through the rate table; both card rows are locked inside one
// serializable transaction.
type TransferService struct {
	txRunner  db.TxRunner
	cards     CardStore
	transfers TransferStore
	rates     RateProvider
	audit     AuditLogger
	cache     *cache.Cache
	hub       EventHub
}

func NewTransferService(txRunner db.TxRunner, cards CardStore, transfers TransferStore, rates RateProvider, audit AuditLogger, c *cache.Cache, hub EventHub) *TransferService {
	return &TransferService{
		txRunner:  txRunner,
		cards:     cards,
		transfers: transfers,
		rates:     rates,
		audit:     audit,
		cache:     c,
		hub:       hub,
	}
}

type TransferRequest struct {
	UserID       string
	FromCardID   string
	ToCardNumber string
	PIN          int
	AmountMinor  int64
}

func (s *TransferService) Transfer(ctx context.Context, req TransferRequest) (models.Transfer, error) {
	if req.AmountMinor <= 0 {
		return models.Transfer{}, apperr.BadRequest("invalid amount")
	}
	destination, err := s.cards.GetByNumber(ctx, req.ToCardNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Transfer{}, apperr.NotFound("card with number %s not found", req.ToCardNumber)
		}
		return models.Transfer{}, err
	}
	if destination.ID == req.FromCardID {
		return models.Transfer{}, apperr.BadRequest("cannot transfer to the same card")
	}

	var transfer models.Transfer
	var fromAfter, toAfter int64
	var fromCard, toCard models.Card
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		fromCard, toCard, err = s.lockTwoCards(ctx, tx, req.FromCardID, destination.ID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if fromCard.UserID != req.UserID {
			return apperr.BadRequest("card does not belong to user")
		}
		if fromCard.PIN != req.PIN {
			return apperr.BadRequest("invalid pin or card is blocked")
		}
		if fromCard.Status == models.CardStatusBlocked || toCard.Status == models.CardStatusBlocked {
			return apperr.BadRequest("operation is unavailable for blocked card")
		}
		if fromCard.Expired(now) || toCard.Expired(now) {
			return apperr.BadRequest("card is expired")
		}
		if fromCard.Balance < req.AmountMinor {
			return apperr.BadRequest("insufficient funds")
		}
		converted := req.AmountMinor
		if fromCard.Currency != toCard.Currency {
			fromRate, err := s.rates.Rate(ctx, fromCard.Currency)
			if err != nil {
				return err
			}
			toRate, err := s.rates.Rate(ctx, toCard.Currency)
			if err != nil {
				return err
			}
			converted = money.ApplyRate(req.AmountMinor, toRate.Div(fromRate))
		}
		fromAfter = fromCard.Balance - req.AmountMinor
		toAfter = toCard.Balance + converted
		if err := s.cards.UpdateBalance(ctx, tx, fromCard.ID, fromAfter, now); err != nil {
			return err
		}
		if err := s.cards.UpdateBalance(ctx, tx, toCard.ID, toAfter, now); err != nil {
			return err
		}
		input := store.TransferInput{
			ID:              uuid.NewString(),
			Reference:       "TR-" + digits(12),
			FromCardID:      fromCard.ID,
			ToCardID:        toCard.ID,
			Amount:          req.AmountMinor,
			Currency:        fromCard.Currency,
			ConvertedAmount: converted,
		}
		if err := s.transfers.Create(ctx, tx, input); err != nil {
			return err
		}
		transfer = models.Transfer{
			ID:              input.ID,
			Reference:       input.Reference,
			FromCardID:      input.FromCardID,
			ToCardID:        input.ToCardID,
			Amount:          input.Amount,
			Currency:        input.Currency,
			ConvertedAmount: input.ConvertedAmount,
			CreatedAt:       now,
		}
		data, _ := json.Marshal(map[string]string{
			"reference": input.Reference,
			"amount":    money.FormatMinor(req.AmountMinor),
		})
		return s.audit.Log(ctx, tx, req.UserID, "transfer", "transfer", input.ID, string(data))
	})
	if err != nil {
		return models.Transfer{}, err
	}
	s.cache.InvalidateAll(cache.CategoryCards)
	s.hub.Publish(fromCard.UserID, websocket.Event{
		Kind: websocket.EventBalance,
		Payload: websocket.BalancePayload{
			CardID:   fromCard.ID,
			Balance:  money.FormatMinor(fromAfter),
			Currency: string(fromCard.Currency),
		},
	})
	s.hub.Publish(toCard.UserID, websocket.Event{
		Kind: websocket.EventBalance,
		Payload: websocket.BalancePayload{
			CardID:   toCard.ID,
			Balance:  money.FormatMinor(toAfter),
			Currency: string(toCard.Currency),
		},
	})
	return transfer, nil
}

// lockTwoCards acquires row locks in a stable order so concurrent opposing
// transfers cannot deadlock.
func (s *TransferService) lockTwoCards(ctx context.Context, tx *sqlx.Tx, firstID, secondID string) (models.Card, models.Card, error) {
	lockOrder := []string{firstID, secondID}
	if secondID < firstID {
		lockOrder = []string{secondID, firstID}
	}
	locked := make(map[string]models.Card, 2)
	for _, id := range lockOrder {
		card, err := s.cards.GetForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.Card{}, models.Card{}, apperr.NotFound("card with id %s not found", id)
			}
			return models.Card{}, models.Card{}, err
		}
		locked[id] = card
	}
	return locked[firstID], locked[secondID], nil
}

func (s *TransferService) FindByReference(ctx context.Context, reference string) (models.Transfer, error) {
	transfer, err := s.transfers.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Transfer{}, apperr.NotFound("transfer with reference %s not found", reference)
		}
		return models.Transfer{}, err
	}
	return transfer, nil
}
