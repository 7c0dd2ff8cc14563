package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"bankaccounts/internal/models"
)

func TestTransferStoreCreate(t *testing.T) {
	ctx := context.Background()
	execer := fakeExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO transfers") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 7 {
				t.Fatalf("expected 7 args, got %d", len(args))
			}
			if args[1] != "TR-123456789012" || args[4] != int64(1000) || args[6] != int64(42500) {
				t.Fatalf("unexpected args: %#v", args)
			}
			return fakeResult{rows: 1}, nil
		},
	}
	store := NewTransferStore(fakeDB{})
	input := TransferInput{
		ID:              "tr-1",
		Reference:       "TR-123456789012",
		FromCardID:      "card-1",
		ToCardID:        "card-2",
		Amount:          1000,
		Currency:        models.CurrencyUSD,
		ConvertedAmount: 42500,
	}
	if err := store.Create(ctx, execer, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTransferStoreGetByReference(t *testing.T) {
	ctx := context.Background()
	store := NewTransferStore(fakeDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE reference = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 1 || args[0] != "TR-123456789012" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*models.Transfer) = models.Transfer{ID: "tr-1", Reference: "TR-123456789012"}
			return nil
		},
	})
	transfer, err := store.GetByReference(ctx, "TR-123456789012")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transfer.ID != "tr-1" {
		t.Fatalf("unexpected transfer: %#v", transfer)
	}
}
