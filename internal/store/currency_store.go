package store

import (
	"context"

	"bankaccounts/internal/models"
)

type CurrencyStore struct {
	db DB
}

func NewCurrencyStore(db DB) *CurrencyStore {
	return &CurrencyStore{db: db}
}

type RateInput struct {
	Currency models.Currency
	Rate     string
}

// ReplaceAll destructively rewrites the rate table. No history is kept;
// each refresh wipes the previous values.
func (s *CurrencyStore) ReplaceAll(ctx context.Context, tx Execer, rates []RateInput) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM currency_rates`); err != nil {
		return err
	}
	query := `
		INSERT INTO currency_rates (currency, rate, updated_at)
		VALUES ($1, $2, NOW())
	`
	for _, rate := range rates {
		if _, err := tx.ExecContext(ctx, query, rate.Currency, rate.Rate); err != nil {
			return err
		}
	}
	return nil
}

func (s *CurrencyStore) GetByCurrency(ctx context.Context, currency models.Currency) (models.CurrencyRate, error) {
	var rate models.CurrencyRate
	err := s.db.GetContext(ctx, &rate, `
		SELECT currency, rate, updated_at
		FROM currency_rates
		WHERE currency = $1
	`, currency)
	return rate, err
}

func (s *CurrencyStore) List(ctx context.Context) ([]models.CurrencyRate, error) {
	var rates []models.CurrencyRate
	err := s.db.SelectContext(ctx, &rates, `
		SELECT currency, rate, updated_at
		FROM currency_rates
		ORDER BY currency
	`)
	if err != nil {
		return nil, err
	}
	return rates, nil
}
