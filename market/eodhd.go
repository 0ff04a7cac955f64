package market

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/date"
	"github.com/etnz/wealth/logger"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultEODHDURL is the EODHD end of day prices endpoint.
const DefaultEODHDURL = "https://eodhd.com/api/eod/"

// EODHD is a PriceProvider reading the last end of day close from eodhd.com.
//
// Tickers use the EODHD notation, like AAPL.US or AI.PA. The API does not
// tell the currency, quotes are in the asset currency.
type EODHD struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     zerolog.Logger
	today   func() date.Date
}

// NewEODHD creates an EODHD provider.
func NewEODHD(baseURL, apiKey string, timeout time.Duration, daily bool, log zerolog.Logger) *EODHD {
	if baseURL == "" {
		baseURL = DefaultEODHDURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	log = logger.Component(log, "eodhd")
	return &EODHD{
		baseURL: strings.TrimSuffix(baseURL, "/") + "/",
		apiKey:  apiKey,
		client:  newClient(timeout, daily, log),
		log:     log,
		today:   date.Today,
	}
}

// Quote returns the latest close of symbol within the last week.
func (e *EODHD) Quote(ctx context.Context, symbol string) (wealth.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return wealth.Quote{}, ErrNoPrice
	}
	if e.apiKey == "" {
		return wealth.Quote{}, errors.New("eodhd: api key is missing")
	}
	to := e.today()
	from := to.Add(-7)
	q := url.Values{}
	q.Set("fmt", "json")
	q.Set("api_token", e.apiKey)
	q.Set("from", from.String())
	q.Set("to", to.String())
	addr := e.baseURL + url.PathEscape(symbol) + "?" + q.Encode()

	var days []struct {
		Date  date.Date       `json:"date"`
		Close decimal.Decimal `json:"close"`
	}
	if err := jget(ctx, e.client, addr, &days); err != nil {
		return wealth.Quote{}, fmt.Errorf("quote %s: %w", symbol, err)
	}
	for i := len(days) - 1; i >= 0; i-- {
		if days[i].Close.IsPositive() {
			e.log.Debug().Str("symbol", symbol).Stringer("date", days[i].Date).Stringer("close", days[i].Close).Msg("quote fetched")
			return wealth.Quote{Price: days[i].Close}, nil
		}
	}
	return wealth.Quote{}, fmt.Errorf("quote %s: %w", symbol, ErrNoPrice)
}
