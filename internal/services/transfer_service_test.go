package services

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"bankaccounts/internal/apperr"
	"bankaccounts/internal/cache"
	"bankaccounts/internal/models"
	"bankaccounts/internal/store"

	"github.com/shopspring/decimal"
)

func transferCards(fromBalance int64) map[string]models.Card {
	expires := time.Now().AddDate(1, 0, 0)
	return map[string]models.Card{
		"card-1": {
			ID:         "card-1",
			UserID:     "user-1",
			CardNumber: "4000000000000001",
			PIN:        1234,
			Balance:    fromBalance,
			Currency:   models.CurrencyCZK,
			Status:     models.CardStatusDefault,
			ExpiresAt:  expires,
		},
		"card-2": {
			ID:         "card-2",
			UserID:     "user-2",
			CardNumber: "4000000000000002",
			PIN:        5678,
			Balance:    100,
			Currency:   models.CurrencyCZK,
			Status:     models.CardStatusDefault,
			ExpiresAt:  expires,
		},
	}
}

func newTransferService(cardsByID map[string]models.Card, transfers stubTransferStore, rates stubRateProvider, hub *recordingHub, balances map[string]int64) *TransferService {
	cards := stubCardStore{
		getByNumberFn: func(_ context.Context, number string) (models.Card, error) {
			for _, card := range cardsByID {
				if card.CardNumber == number {
					return card, nil
				}
			}
			return models.Card{}, sql.ErrNoRows
		},
		getForUpdateFn: func(_ context.Context, _ store.Getter, cardID string) (models.Card, error) {
			card, ok := cardsByID[cardID]
			if !ok {
				return models.Card{}, sql.ErrNoRows
			}
			return card, nil
		},
		updateBalanceFn: func(_ context.Context, _ store.Execer, cardID string, balance int64, _ time.Time) error {
			if balances != nil {
				balances[cardID] = balance
			}
			return nil
		},
	}
	return NewTransferService(fakeTxRunner{}, cards, transfers, rates, stubAuditLogger{}, cache.New(), hub)
}

func TestTransferMovesFunds(t *testing.T) {
	ctx := context.Background()
	balances := map[string]int64{}
	var saved store.TransferInput
	transfers := stubTransferStore{
		createFn: func(_ context.Context, _ store.Execer, input store.TransferInput) error {
			saved = input
			return nil
		},
	}
	hub := &recordingHub{}
	service := newTransferService(transferCards(5000), transfers, stubRateProvider{}, hub, balances)
	transfer, err := service.Transfer(ctx, TransferRequest{
		UserID:       "user-1",
		FromCardID:   "card-1",
		ToCardNumber: "4000000000000002",
		PIN:          1234,
		AmountMinor:  2000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balances["card-1"] != 3000 || balances["card-2"] != 2100 {
		t.Fatalf("unexpected balances: %#v", balances)
	}
	if transfer.Amount != 2000 || transfer.ConvertedAmount != 2000 {
		t.Fatalf("unexpected transfer: %#v", transfer)
	}
	if !strings.HasPrefix(saved.Reference, "TR-") || len(saved.Reference) != 15 {
		t.Fatalf("unexpected reference: %q", saved.Reference)
	}
	if len(hub.events) != 2 {
		t.Fatalf("expected events for both users, got %d", len(hub.events))
	}
}

func TestTransferCrossCurrencyConverts(t *testing.T) {
	ctx := context.Background()
	cards := transferCards(5000)
	dest := cards["card-2"]
	dest.Currency = models.CurrencyUSD
	cards["card-2"] = dest
	balances := map[string]int64{}
	rates := stubRateProvider{
		rateFn: func(_ context.Context, currency models.Currency) (decimal.Decimal, error) {
			if currency == models.CurrencyUSD {
				return decimal.RequireFromString("0.05"), nil
			}
			return decimal.NewFromInt(1), nil
		},
	}
	service := newTransferService(cards, stubTransferStore{}, rates, &recordingHub{}, balances)
	transfer, err := service.Transfer(ctx, TransferRequest{
		UserID:       "user-1",
		FromCardID:   "card-1",
		ToCardNumber: "4000000000000002",
		PIN:          1234,
		AmountMinor:  2000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 2000 CZK at USD/CZK 0.05 credits 100 USD minor units.
	if transfer.ConvertedAmount != 100 {
		t.Fatalf("unexpected converted amount: %d", transfer.ConvertedAmount)
	}
	if balances["card-2"] != 200 {
		t.Fatalf("unexpected destination balance: %d", balances["card-2"])
	}
}

func TestTransferInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	service := newTransferService(transferCards(100), stubTransferStore{}, stubRateProvider{}, &recordingHub{}, nil)
	_, err := service.Transfer(ctx, TransferRequest{
		UserID:       "user-1",
		FromCardID:   "card-1",
		ToCardNumber: "4000000000000002",
		PIN:          1234,
		AmountMinor:  2000,
	})
	appErr := apperr.FromError(err)
	if appErr == nil || appErr.Code != 400 {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestTransferSameCard(t *testing.T) {
	ctx := context.Background()
	service := newTransferService(transferCards(5000), stubTransferStore{}, stubRateProvider{}, &recordingHub{}, nil)
	_, err := service.Transfer(ctx, TransferRequest{
		UserID:       "user-1",
		FromCardID:   "card-1",
		ToCardNumber: "4000000000000001",
		PIN:          1234,
		AmountMinor:  100,
	})
	appErr := apperr.FromError(err)
	if appErr == nil || appErr.Code != 400 {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestTransferForeignCard(t *testing.T) {
	ctx := context.Background()
	service := newTransferService(transferCards(5000), stubTransferStore{}, stubRateProvider{}, &recordingHub{}, nil)
	_, err := service.Transfer(ctx, TransferRequest{
		UserID:       "user-3",
		FromCardID:   "card-1",
		ToCardNumber: "4000000000000002",
		PIN:          1234,
		AmountMinor:  100,
	})
	appErr := apperr.FromError(err)
	if appErr == nil || appErr.Code != 400 {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestTransferUnknownDestination(t *testing.T) {
	ctx := context.Background()
	service := newTransferService(transferCards(5000), stubTransferStore{}, stubRateProvider{}, &recordingHub{}, nil)
	_, err := service.Transfer(ctx, TransferRequest{
		UserID:       "user-1",
		FromCardID:   "card-1",
		ToCardNumber: "4999999999999999",
		PIN:          1234,
		AmountMinor:  100,
	})
	appErr := apperr.FromError(err)
	if appErr == nil || appErr.Code != 404 {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFindByReferenceNotFound(t *testing.T) {
	ctx := context.Background()
	transfers := stubTransferStore{
		getByReferenceFn: func(_ context.Context, _ string) (models.Transfer, error) {
			return models.Transfer{}, sql.ErrNoRows
		},
	}
	service := newTransferService(transferCards(0), transfers, stubRateProvider{}, &recordingHub{}, nil)
	_, err := service.FindByReference(ctx, "TR-000000000000")
	appErr := apperr.FromError(err)
	if appErr == nil || appErr.Code != 404 {
		t.Fatalf("expected not found, got %v", err)
	}
}
