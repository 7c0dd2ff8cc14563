package ratesource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bankaccounts/internal/models"

	"github.com/shopspring/decimal"
)

// Client fetches current exchange rates from an external rate source that
// serves a JSON document with a top-level "rates" object keyed by currency
// code.
type Client struct {
	httpClient *http.Client
	url        string
}

func New(url string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		url:        url,
	}
}

type ratesResponse struct {
	Rates map[string]json.Number `json:"rates"`
}

// Fetch returns the rates for all supported currencies. A response missing
// any supported currency fails the whole fetch so a partial refresh never
// overwrites the table.
func (c *Client) Fetch(ctx context.Context) (map[models.Currency]decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate source returned status %d", resp.StatusCode)
	}
	var payload ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode rate source response: %w", err)
	}
	rates := make(map[models.Currency]decimal.Decimal, len(models.SupportedCurrencies))
	for _, currency := range models.SupportedCurrencies {
		raw, ok := payload.Rates[string(currency)]
		if !ok {
			return nil, fmt.Errorf("rate source is missing currency %s", currency)
		}
		rate, err := decimal.NewFromString(raw.String())
		if err != nil || rate.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("rate source returned invalid rate for %s: %q", currency, raw.String())
		}
		rates[currency] = rate
	}
	return rates, nil
}
