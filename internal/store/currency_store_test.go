package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"bankaccounts/internal/models"
)

func TestCurrencyStoreReplaceAllWipesFirst(t *testing.T) {
	ctx := context.Background()
	var queries []string
	execer := fakeExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			queries = append(queries, strings.TrimSpace(query))
			return fakeResult{rows: 1}, nil
		},
	}
	store := NewCurrencyStore(fakeDB{})
	rates := []RateInput{
		{Currency: models.CurrencyUSD, Rate: "0.044"},
		{Currency: models.CurrencyEUR, Rate: "0.040"},
	}
	if err := store.ReplaceAll(ctx, execer, rates); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(queries) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(queries))
	}
	if !strings.Contains(queries[0], "DELETE FROM currency_rates") {
		t.Fatalf("expected delete first, got: %s", queries[0])
	}
	if !strings.Contains(queries[1], "INSERT INTO currency_rates") {
		t.Fatalf("expected insert, got: %s", queries[1])
	}
}

func TestCurrencyStoreReplaceAllStopsOnError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	calls := 0
	execer := fakeExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			calls++
			if calls == 2 {
				return nil, boom
			}
			return fakeResult{rows: 1}, nil
		},
	}
	store := NewCurrencyStore(fakeDB{})
	err := store.ReplaceAll(ctx, execer, []RateInput{
		{Currency: models.CurrencyUSD, Rate: "0.044"},
		{Currency: models.CurrencyEUR, Rate: "0.040"},
	})
	if err != boom {
		t.Fatalf("expected boom, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestCurrencyStoreGetByCurrency(t *testing.T) {
	ctx := context.Background()
	store := NewCurrencyStore(fakeDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE currency = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 1 || args[0] != models.CurrencyUSD {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*models.CurrencyRate) = models.CurrencyRate{Currency: models.CurrencyUSD, Rate: "0.044"}
			return nil
		},
	})
	rate, err := store.GetByCurrency(ctx, models.CurrencyUSD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate.Rate != "0.044" {
		t.Fatalf("unexpected rate: %#v", rate)
	}
}
