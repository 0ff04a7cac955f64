package market

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/wealth"
	"github.com/etnz/wealth/logger"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultYahooURL is the Yahoo Finance v8 chart endpoint.
const DefaultYahooURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// YahooConfig configures a Yahoo provider.
type YahooConfig struct {
	BaseURL    string        // defaults to DefaultYahooURL
	Timeout    time.Duration // defaults to 10s
	TTL        time.Duration // how long a quote is reused, defaults to 60s
	DailyCache bool          // cache raw responses on disk for the day
}

type cachedQuote struct {
	quote   wealth.Quote
	fetched time.Time
}

// Yahoo is a PriceProvider reading the Yahoo Finance chart API.
//
// Quotes are kept in memory for the configured TTL. It is safe for concurrent use.
type Yahoo struct {
	baseURL string
	ttl     time.Duration
	client  *http.Client
	log     zerolog.Logger
	now     func() time.Time

	mu    sync.RWMutex
	cache map[string]cachedQuote
}

// NewYahoo creates a Yahoo provider.
func NewYahoo(cfg YahooConfig, log zerolog.Logger) *Yahoo {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultYahooURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 60 * time.Second
	}
	log = logger.Component(log, "yahoo")
	return &Yahoo{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/") + "/",
		ttl:     cfg.TTL,
		client:  newClient(cfg.Timeout, cfg.DailyCache, log),
		log:     log,
		now:     time.Now,
		cache:   make(map[string]cachedQuote),
	}
}

// Quote returns the latest price of symbol.
func (y *Yahoo) Quote(ctx context.Context, symbol string) (wealth.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return wealth.Quote{}, ErrNoPrice
	}

	y.mu.RLock()
	c, ok := y.cache[symbol]
	y.mu.RUnlock()
	if ok && y.now().Sub(c.fetched) < y.ttl {
		return c.quote, nil
	}

	addr := y.baseURL + url.PathEscape(symbol) + "?interval=1d&range=5d"
	var jobj any
	if err := jget(ctx, y.client, addr, &jobj); err != nil {
		return wealth.Quote{}, fmt.Errorf("error retrieving %q: %w", symbol, err)
	}
	quote, err := parseChart(jobj)
	if err != nil {
		return wealth.Quote{}, fmt.Errorf("error parsing %q: %w", symbol, err)
	}
	y.log.Debug().Str("symbol", symbol).Stringer("price", quote.Price).Str("currency", quote.Currency).Msg("quote")

	y.mu.Lock()
	y.cache[symbol] = cachedQuote{quote: quote, fetched: y.now()}
	y.mu.Unlock()
	return quote, nil
}

// first returns the first element of a jsonpath result, jsonpath is never
// clear about whether it returns a list of 1 answer or a single answer.
func first(jval any) any {
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return nil
		}
		return jlist[0]
	}
	return jval
}

// parseChart extracts the quote from a chart payload:
//
//	{"chart":{"result":[{"meta":{"currency":"USD","regularMarketPrice":231.5},
//	  "indicators":{"quote":[{"close":[229.1,null,231.5]}]}}],"error":null}}
func parseChart(jobj any) (wealth.Quote, error) {
	if jerr, err := jsonpath.Get("$.chart.error.description", jobj); err == nil {
		if msg, ok := first(jerr).(string); ok && msg != "" {
			return wealth.Quote{}, fmt.Errorf("%w: %s", ErrNoPrice, msg)
		}
	}

	var q wealth.Quote
	if jcur, err := jsonpath.Get("$.chart.result[0].meta.currency", jobj); err == nil {
		q.Currency, _ = first(jcur).(string)
	}

	price := 0.0
	if jval, err := jsonpath.Get("$.chart.result[0].meta.regularMarketPrice", jobj); err == nil {
		price, _ = first(jval).(float64)
	}
	if price <= 0 {
		// fallback to the last known close.
		if jval, err := jsonpath.Get("$.chart.result[0].indicators.quote[0].close", jobj); err == nil {
			closes, _ := jval.([]any)
			for i := len(closes) - 1; i >= 0; i-- {
				if c, ok := closes[i].(float64); ok && c > 0 {
					price = c
					break
				}
			}
		}
	}
	if price <= 0 {
		return wealth.Quote{}, ErrNoPrice
	}
	q.Price = decimal.NewFromFloat(price)
	return q, nil
}
