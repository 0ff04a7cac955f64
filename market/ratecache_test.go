package market

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/wealth"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves fixed tables, or fails.
type fakeSource struct {
	tables map[string]map[string]decimal.Decimal
	fail   bool
	calls  int
}

func (f *fakeSource) Rates(_ context.Context, base string) (map[string]decimal.Decimal, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("offline")
	}
	t, ok := f.tables[base]
	if !ok {
		return nil, fmt.Errorf("unknown base %s", base)
	}
	return t, nil
}

func newSource() *fakeSource {
	return &fakeSource{tables: map[string]map[string]decimal.Decimal{
		"USD": {"EUR": decimal.RequireFromString("0.9"), "JPY": decimal.NewFromInt(150)},
	}}
}

func TestRateCache_Convert(t *testing.T) {
	c := NewRateCache(newSource())

	got, err := c.Convert(context.Background(), wealth.M(100, "USD"), "EUR")
	require.NoError(t, err)
	assert.True(t, got.Equal(wealth.M(90, "EUR")), "got %v", got)

	same, err := c.Convert(context.Background(), wealth.M(100, "EUR"), "EUR")
	require.NoError(t, err)
	assert.True(t, same.Equal(wealth.M(100, "EUR")))

	_, err = c.Convert(context.Background(), wealth.M(100, "USD"), "CHF")
	assert.Error(t, err)

	_, err = c.Convert(context.Background(), wealth.M(100, "GBP"), "EUR")
	assert.Error(t, err)
}

func TestRateCache_TTL(t *testing.T) {
	src := newSource()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewRateCache(src, WithTTL(time.Hour), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	_, err := c.Rate(ctx, "USD", "EUR")
	require.NoError(t, err)
	_, err = c.Rate(ctx, "USD", "JPY")
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls, "fresh table is reused")

	now = now.Add(2 * time.Hour)
	_, err = c.Rate(ctx, "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls, "expired table is refetched")

	c.Invalidate()
	_, err = c.Rate(ctx, "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, 3, src.calls, "invalidated table is refetched")
}

func TestRateCache_StaleFallback(t *testing.T) {
	src := newSource()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewRateCache(src, WithClock(func() time.Time { return now }), WithLogger(zerolog.Nop()))
	ctx := context.Background()

	_, err := c.Rate(ctx, "USD", "EUR")
	require.NoError(t, err)

	src.fail = true
	now = now.Add(48 * time.Hour)
	r, err := c.Rate(ctx, "USD", "EUR")
	require.NoError(t, err, "stale table is used when the source fails")
	assert.Equal(t, "0.9", r.String())

	c.Invalidate()
	_, err = c.Rate(ctx, "USD", "EUR")
	assert.Error(t, err, "no table at all")
}

func TestRateCache_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.msgpack")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := WithClock(func() time.Time { return now })

	c := NewRateCache(newSource(), WithFile(path), clock)
	_, err := c.Rate(context.Background(), "USD", "JPY")
	require.NoError(t, err)
	require.NoError(t, c.Save())

	src := &fakeSource{fail: true}
	loaded := NewRateCache(src, WithFile(path), clock)
	require.NoError(t, loaded.Load())
	r, err := loaded.Rate(context.Background(), "USD", "JPY")
	require.NoError(t, err)
	assert.Equal(t, "150", r.String())
	assert.Equal(t, 0, src.calls, "loaded table is fresh")

	missing := NewRateCache(src, WithFile(filepath.Join(t.TempDir(), "none")))
	assert.NoError(t, missing.Load())
}

func TestExchangeRateAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest/USD" {
			http.Error(w, "unknown", http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `{"base":"USD","date":"2025-06-01","rates":{"USD":1,"EUR":0.92,"JPY":151.3}}`)
	}))
	defer srv.Close()

	api := NewExchangeRateAPI(srv.URL+"/latest", time.Second, zerolog.Nop())
	rates, err := api.Rates(context.Background(), "usd")
	require.NoError(t, err)
	assert.Equal(t, "0.92", rates["EUR"].String())

	_, err = api.Rates(context.Background(), "XXX")
	assert.Error(t, err)
}
