package market

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/etnz/wealth/logger"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RateSource returns the exchange rates of a base currency: 1 base = rate units of each currency.
type RateSource interface {
	Rates(ctx context.Context, base string) (map[string]decimal.Decimal, error)
}

// DefaultRatesURL is the exchangerate-api.com v4 endpoint.
const DefaultRatesURL = "https://api.exchangerate-api.com/v4/latest/"

// ExchangeRateAPI is a RateSource for exchangerate-api.com
type ExchangeRateAPI struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewExchangeRateAPI creates a new exchangerate-api.com client
func NewExchangeRateAPI(baseURL string, timeout time.Duration, log zerolog.Logger) *ExchangeRateAPI {
	if baseURL == "" {
		baseURL = DefaultRatesURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ExchangeRateAPI{
		baseURL: strings.TrimSuffix(baseURL, "/") + "/",
		client:  &http.Client{Timeout: timeout},
		log:     logger.Component(log, "exchangerate-api"),
	}
}

// Rates fetches the rate table of base.
func (e *ExchangeRateAPI) Rates(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	addr := e.baseURL + url.PathEscape(strings.ToUpper(base))
	e.log.Debug().Str("url", addr).Msg("Fetching rates")

	var result struct {
		Base  string                     `json:"base"`
		Rates map[string]decimal.Decimal `json:"rates"`
	}
	if err := jget(ctx, e.client, addr, &result); err != nil {
		return nil, fmt.Errorf("exchange rates for %s: %w", base, err)
	}
	if len(result.Rates) == 0 {
		return nil, fmt.Errorf("exchange rates for %s: empty table", base)
	}
	return result.Rates, nil
}
