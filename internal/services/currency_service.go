package services

import (
	"context"
	"database/sql"
	"errors"

	"bankaccounts/internal/apperr"
	"bankaccounts/internal/cache"
	"bankaccounts/internal/db"
	"bankaccounts/internal/models"
	"bankaccounts/internal/store"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type RateSource interface {
	Fetch(ctx context.Context) (map[models.Currency]decimal.Decimal, error)
}

type CurrencyStore interface {
	ReplaceAll(ctx context.Context, tx store.Execer, rates []store.RateInput) error
	GetByCurrency(ctx context.Context, currency models.Currency) (models.CurrencyRate, error)
	List(ctx context.Context) ([]models.CurrencyRate, error)
}

// CurrencyService keeps the exchange-rate table current. Each refresh is a
// destructive rewrite of the whole table followed by a wholesale cache
// invalidation; no rate history survives.
type CurrencyService struct {
	txRunner db.TxRunner
	rates    CurrencyStore
	source   RateSource
	cache    *cache.Cache
	logger   *zap.Logger
}

func NewCurrencyService(txRunner db.TxRunner, rates CurrencyStore, source RateSource, c *cache.Cache, logger *zap.Logger) *CurrencyService {
	return &CurrencyService{
		txRunner: txRunner,
		rates:    rates,
		source:   source,
		cache:    c,
		logger:   logger,
	}
}

func (s *CurrencyService) Refresh(ctx context.Context) error {
	fetched, err := s.source.Fetch(ctx)
	if err != nil {
		return err
	}
	inputs := make([]store.RateInput, 0, len(models.SupportedCurrencies))
	for _, currency := range models.SupportedCurrencies {
		inputs = append(inputs, store.RateInput{
			Currency: currency,
			Rate:     fetched[currency].String(),
		})
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.rates.ReplaceAll(ctx, tx, inputs)
	})
	if err != nil {
		return err
	}
	s.cache.InvalidateAll(cache.CategoryRates)
	s.logger.Info("currency rates refreshed", zap.Int("currencies", len(inputs)))
	return nil
}

// Find returns the cached rate for a supported currency code, or NotFound
// for anything outside the supported set.
func (s *CurrencyService) Find(ctx context.Context, code string) (models.CurrencyRate, error) {
	currency, ok := models.ParseCurrency(code)
	if !ok {
		return models.CurrencyRate{}, apperr.NotFound("currency %s not found", code)
	}
	if cached, ok := s.cache.Get(cache.CategoryRates, string(currency)); ok {
		return cached.(models.CurrencyRate), nil
	}
	rate, err := s.rates.GetByCurrency(ctx, currency)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CurrencyRate{}, apperr.NotFound("currency %s not found", code)
		}
		return models.CurrencyRate{}, err
	}
	s.cache.Set(cache.CategoryRates, string(currency), rate)
	return rate, nil
}

// Rate returns the decimal exchange rate for a supported currency.
func (s *CurrencyService) Rate(ctx context.Context, currency models.Currency) (decimal.Decimal, error) {
	stored, err := s.Find(ctx, string(currency))
	if err != nil {
		return decimal.Zero, err
	}
	rate, err := decimal.NewFromString(stored.Rate)
	if err != nil {
		return decimal.Zero, err
	}
	return rate, nil
}

func (s *CurrencyService) List(ctx context.Context) ([]models.CurrencyRate, error) {
	return s.rates.List(ctx)
}
