package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"bankaccounts/internal/models"
)

func TestCardStoreCreateStartsEmpty(t *testing.T) {
	ctx := context.Background()
	execer := fakeExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO cards") {
				t.Fatalf("unexpected query: %s", query)
			}
			// Balance is hardcoded to zero in the statement, not an argument.
			if !strings.Contains(query, ", 0,") {
				t.Fatalf("expected zero balance literal, got: %s", query)
			}
			if len(args) != 13 {
				t.Fatalf("expected 13 args, got %d", len(args))
			}
			if args[0] != "card-1" || args[1] != "user-1" || args[2] != "4000000000000001" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return fakeResult{rows: 1}, nil
		},
	}
	store := NewCardStore(fakeDB{})
	input := CardInput{
		ID:         "card-1",
		UserID:     "user-1",
		CardNumber: "4000000000000001",
		CVV:        123,
		PIN:        4321,
		HolderName: "ALICE SMITH",
		Currency:   models.CurrencyCZK,
		Type:       models.CardTypeDebit,
		Status:     models.CardStatusDefault,
		ExpiresAt:  time.Now().AddDate(5, 0, 0),
	}
	if err := store.Create(ctx, execer, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCardStoreGetForUpdateLocksRow(t *testing.T) {
	ctx := context.Background()
	getter := fakeGetter{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FOR UPDATE") {
				t.Fatalf("expected row lock, got: %s", query)
			}
			if len(args) != 1 || args[0] != "card-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*models.Card) = models.Card{ID: "card-1", Balance: 500}
			return nil
		},
	}
	store := NewCardStore(fakeDB{})
	card, err := store.GetForUpdate(ctx, getter, "card-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Balance != 500 {
		t.Fatalf("unexpected card: %#v", card)
	}
}

func TestCardStoreGetByNumber(t *testing.T) {
	ctx := context.Background()
	store := NewCardStore(fakeDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE card_number = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			*dest.(*models.Card) = models.Card{ID: "card-1"}
			return nil
		},
	})
	card, err := store.GetByNumber(ctx, "4000000000000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.ID != "card-1" {
		t.Fatalf("unexpected card: %#v", card)
	}
}

func TestCardStoreUpdateBalance(t *testing.T) {
	ctx := context.Background()
	when := time.Now()
	execer := fakeExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "SET balance = $1, recipient_at = $2") {
				t.Fatalf("unexpected query: %s", query)
			}
			if args[0] != int64(2500) || args[1] != when || args[2] != "card-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return fakeResult{rows: 1}, nil
		},
	}
	store := NewCardStore(fakeDB{})
	if err := store.UpdateBalance(ctx, execer, "card-1", 2500, when); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCardStoreDeleteReportsAffected(t *testing.T) {
	ctx := context.Background()
	execer := fakeExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "DELETE FROM cards") {
				t.Fatalf("unexpected query: %s", query)
			}
			return fakeResult{rows: 1}, nil
		},
	}
	store := NewCardStore(fakeDB{})
	affected, err := store.Delete(ctx, execer, "card-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row, got %d", affected)
	}
}
