package market

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/logger"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultRateTTL is how long a rate table is fresh.
const DefaultRateTTL = time.Hour

// rateTable is the rate table of a base currency, as persisted.
type rateTable struct {
	Rates     map[string]string `msgpack:"rates"` // decimal strings
	FetchedAt time.Time         `msgpack:"fetched_at"`
}

func (t rateTable) rate(to string) (decimal.Decimal, bool) {
	s, ok := t.Rates[to]
	if !ok {
		return decimal.Decimal{}, false
	}
	r, err := decimal.NewFromString(s)
	return r, err == nil
}

// RateCache converts money between currencies with rate tables fetched from
// a RateSource and kept for a TTL.
//
// When a table has expired and cannot be refetched, the stale table is used.
// It is safe for concurrent use.
type RateCache struct {
	source RateSource
	ttl    time.Duration
	now    func() time.Time
	path   string
	log    zerolog.Logger

	mu     sync.RWMutex
	tables map[string]rateTable
}

// RateCacheOption configures a RateCache.
type RateCacheOption func(*RateCache)

// WithTTL sets how long a fetched table is fresh.
func WithTTL(ttl time.Duration) RateCacheOption {
	return func(c *RateCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock sets the clock used to expire tables.
func WithClock(now func() time.Time) RateCacheOption {
	return func(c *RateCache) { c.now = now }
}

// WithFile sets the file used by Save and Load.
func WithFile(path string) RateCacheOption {
	return func(c *RateCache) { c.path = path }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) RateCacheOption {
	return func(c *RateCache) { c.log = logger.Component(log, "rates") }
}

// NewRateCache creates an empty cache over source.
func NewRateCache(source RateSource, opts ...RateCacheOption) *RateCache {
	c := &RateCache{
		source: source,
		ttl:    DefaultRateTTL,
		now:    time.Now,
		log:    zerolog.Nop(),
		tables: make(map[string]rateTable),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// table returns the rate table of base, fetching it if missing or expired.
func (c *RateCache) table(ctx context.Context, base string) (rateTable, error) {
	c.mu.RLock()
	t, ok := c.tables[base]
	c.mu.RUnlock()
	if ok && c.now().Sub(t.FetchedAt) < c.ttl {
		return t, nil
	}

	rates, err := c.source.Rates(ctx, base)
	if err != nil {
		if ok {
			c.log.Warn().Err(err).Str("base", base).Time("fetched_at", t.FetchedAt).Msg("fetch failed, using stale rates")
			return t, nil
		}
		return rateTable{}, err
	}

	fresh := rateTable{Rates: make(map[string]string, len(rates)), FetchedAt: c.now()}
	for cur, r := range rates {
		fresh.Rates[strings.ToUpper(cur)] = r.String()
	}
	c.mu.Lock()
	c.tables[base] = fresh
	c.mu.Unlock()
	c.log.Debug().Str("base", base).Int("rates", len(rates)).Msg("rates fetched")
	return fresh, nil
}

// Rate returns how many units of to one unit of from is worth.
func (c *RateCache) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	t, err := c.table(ctx, from)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("no rate %s->%s: %w", from, to, err)
	}
	r, ok := t.rate(to)
	if !ok || !r.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("no rate %s->%s in table", from, to)
	}
	return r, nil
}

// Convert converts m into the currency to.
func (c *RateCache) Convert(ctx context.Context, m wealth.Money, to string) (wealth.Money, error) {
	r, err := c.Rate(ctx, m.Currency(), to)
	if err != nil {
		return wealth.Money{}, err
	}
	return wealth.M(m.Decimal().Mul(r), to), nil
}

// Invalidate drops every table, the next conversion fetches again.
func (c *RateCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.tables)
}

// Save writes the tables to the cache file, if any.
func (c *RateCache) Save() error {
	if c.path == "" {
		return nil
	}
	c.mu.RLock()
	data, err := msgpack.Marshal(c.tables)
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode rates: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".rates-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.path)
}

// Load reads the tables from the cache file, if any. A missing file is not an error.
func (c *RateCache) Load() error {
	if c.path == "" {
		return nil
	}
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	tables := make(map[string]rateTable)
	if err := msgpack.Unmarshal(data, &tables); err != nil {
		return fmt.Errorf("failed to decode rates %s: %w", c.path, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for base, t := range tables {
		c.tables[base] = t
	}
	return nil
}
