// Package market fetches what the valuation core needs from the outside
// world: live quotes for market priced assets and exchange rates to convert
// values into the display currency.
package market

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/etnz/wealth"
	"github.com/rs/zerolog"
)

// ErrNoPrice is returned when a symbol has no price.
var ErrNoPrice = errors.New("no price")

// PriceProvider returns the latest quote of a market symbol.
type PriceProvider interface {
	Quote(ctx context.Context, symbol string) (wealth.Quote, error)
}

// Symbols returns the market symbols of the held, live priced assets, sorted and without duplicates.
func Symbols(assets []wealth.Asset) []string {
	var symbols []string
	for _, a := range assets {
		if !wealth.IsLivePriced(a) || wealth.IsFullySold(a) {
			continue
		}
		if s := wealth.MarketSymbol(a); s != "" {
			symbols = append(symbols, s)
		}
	}
	slices.Sort(symbols)
	return slices.Compact(symbols)
}

// FetchPrices queries the provider for every symbol of the assets, with at
// most concurrency requests in flight.
//
// Failures are joined in the returned error but the prices that could be
// fetched are always returned: assets without a price are valued at cost basis.
func FetchPrices(ctx context.Context, provider PriceProvider, assets []wealth.Asset, concurrency int) (wealth.Prices, error) {
	symbols := Symbols(assets)
	if concurrency < 1 {
		concurrency = 1
	}
	log := zerolog.Ctx(ctx)

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		errs   []error
		prices = make(wealth.Prices, len(symbols))
		sem    = make(chan struct{}, concurrency)
	)
	for _, symbol := range symbols {
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", symbol, ctx.Err()))
				mu.Unlock()
				return
			}

			quote, err := provider.Quote(ctx, symbol)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn().Err(err).Str("symbol", symbol).Msg("price unavailable, using cost basis")
				errs = append(errs, fmt.Errorf("%s: %w", symbol, err))
				return
			}
			prices[symbol] = quote
		}()
	}
	wg.Wait()
	return prices, errors.Join(errs...)
}
