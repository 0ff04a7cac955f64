// Package cmd implements the wlt CLI application to track a personal wealth.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/analysis"
	"github.com/etnz/wealth/config"
	"github.com/etnz/wealth/logger"
	"github.com/etnz/wealth/market"
	"github.com/etnz/wealth/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, k := range wealth.Kinds {
		c.Register(newAddCmd(k), "assets")
	}
	c.Register(&editCmd{}, "assets")
	c.Register(&rmCmd{}, "assets")
	c.Register(&listCmd{}, "assets")
	c.Register(&fmtCmd{}, "assets")

	c.Register(&tradeCmd{txType: wealth.Buy}, "transactions")
	c.Register(&tradeCmd{txType: wealth.Sell}, "transactions")
	c.Register(&txCmd{}, "transactions")

	c.Register(&holdingCmd{}, "reports")
	c.Register(&analysisCmd{}, "reports")
	c.Register(&pricesCmd{}, "reports")

	c.Register(&assistCmd{}, "assistant")
	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile      = flag.String("config", "wlt.toml", "Path to the TOML configuration file")
	dataFile        = flag.String("data-file", "", "Path to the asset book, overrides the configuration")
	backend         = flag.String("backend", "", "Storage backend (file or sqlite), overrides the configuration")
	displayCurrency = flag.String("currency", "", "Display currency of reports, overrides the configuration")
	rawMarkdown     = flag.Bool("markdown", false, "Print reports as raw markdown")
	// Verbose enables debug logs.
	Verbose = flag.Bool("v", false, "Verbose logging")
)

// stdout and stderr of the commands.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// app holds what a command needs: configuration, logger and the asset book.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	book  *store.Book
	close func() error
}

// openApp loads the configuration and opens the asset book.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *dataFile != "" {
		cfg.Storage.Path = *dataFile
	}
	if *backend != "" {
		cfg.Storage.Backend = *backend
	}
	if *displayCurrency != "" {
		cfg.DisplayCurrency = strings.ToUpper(*displayCurrency)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := wealth.ValidateCurrency(cfg.DisplayCurrency); err != nil {
		return nil, err
	}

	lc := logger.Config{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty, Output: stderr}
	if *Verbose {
		lc.Level = "debug"
	}
	log := logger.New(lc)

	a := &app{cfg: cfg, log: log, close: func() error { return nil }}
	var slot store.Slot
	switch cfg.Storage.Backend {
	case "sqlite":
		s, err := store.OpenSQLite(ctx, cfg.Storage.Path, cfg.Storage.Key)
		if err != nil {
			return nil, err
		}
		slot, a.close = s, s.Close
	default:
		slot = store.NewFileSlot(cfg.Storage.Path)
	}
	a.book = store.NewBook(slot, store.WithLogger(log))
	log.Debug().Str("backend", cfg.Storage.Backend).Str("path", cfg.Storage.Path).Msg("asset book opened")
	return a, nil
}

// Close releases the asset book.
func (a *app) Close() error { return a.close() }

// context returns ctx carrying the app logger.
func (a *app) context(ctx context.Context) context.Context { return a.log.WithContext(ctx) }

// provider returns the configured market price provider.
func (a *app) provider() market.PriceProvider {
	m := a.cfg.Market
	if m.Provider == "eodhd" {
		return market.NewEODHD(m.QuoteURL, m.EODHDKey, m.GetTimeout(), m.DailyCache, a.log)
	}
	return market.NewYahoo(market.YahooConfig{
		BaseURL:    m.QuoteURL,
		Timeout:    m.GetTimeout(),
		TTL:        m.GetQuoteTTL(),
		DailyCache: m.DailyCache,
	}, a.log)
}

// rates returns the exchange rate cache, loaded from its file.
func (a *app) rates() *market.RateCache {
	m := a.cfg.Market
	source := market.NewExchangeRateAPI(m.RatesURL, m.GetTimeout(), a.log)
	c := market.NewRateCache(source, market.WithTTL(m.GetRateTTL()), market.WithFile(m.RateCache), market.WithLogger(a.log))
	if err := c.Load(); err != nil {
		a.log.Warn().Err(err).Msg("cannot load cached exchange rates")
	}
	return c
}

// prices fetches the market prices of the assets. Missing prices are only
// logged: those assets are valued at cost basis.
func (a *app) prices(ctx context.Context, assets []wealth.Asset) wealth.Prices {
	prices, err := market.FetchPrices(a.context(ctx), a.provider(), assets, a.cfg.Market.Concurrency)
	if err != nil {
		a.log.Warn().Err(err).Int("prices", len(prices)).Msg("some prices are unavailable")
	}
	return prices
}

// analyze values every asset of the book in the display currency.
func (a *app) analyze(ctx context.Context) (*analysis.Report, error) {
	assets, err := a.book.Assets(ctx)
	if err != nil {
		return nil, err
	}
	prices := a.prices(ctx, assets)
	rates := a.rates()
	r, err := analysis.Analyze(a.context(ctx), assets, prices, rates, a.cfg.DisplayCurrency)
	if err != nil {
		return nil, err
	}
	if err := rates.Save(); err != nil {
		a.log.Warn().Err(err).Msg("cannot save exchange rates")
	}
	return r, nil
}

// errAmbiguous is returned when a reference matches several assets.
var errAmbiguous = errors.New("ambiguous asset reference")

// findAsset returns the asset whose ID is ref, or else the only asset whose
// name or market symbol is ref, ignoring case.
func (a *app) findAsset(ctx context.Context, ref string) (wealth.Asset, error) {
	assets, err := a.book.Assets(ctx)
	if err != nil {
		return nil, err
	}
	return resolve(assets, ref)
}

func resolve(assets []wealth.Asset, ref string) (wealth.Asset, error) {
	var found []wealth.Asset
	for _, x := range assets {
		if x.Common().ID == ref {
			return x, nil
		}
		if strings.EqualFold(x.Common().Name, ref) || strings.EqualFold(wealth.MarketSymbol(x), ref) {
			found = append(found, x)
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %q", store.ErrNotFound, ref)
	case 1:
		return found[0], nil
	default:
		ids := make([]string, len(found))
		for i, x := range found {
			ids[i] = x.Common().ID
		}
		return nil, fmt.Errorf("%w: %q matches %s, use an ID", errAmbiguous, ref, strings.Join(ids, ", "))
	}
}

// printMarkdown prints a markdown report, styled for the terminal unless
// -markdown is set.
func printMarkdown(md string) { fmt.Fprint(stdout, format(md)) }
