package cmd

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/config"
	"github.com/etnz/wealth/market"
	"github.com/etnz/wealth/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartAAPL = `{"chart":{"result":[{"meta":{"currency":"USD","symbol":"AAPL","regularMarketPrice":231.5},
"indicators":{"quote":[{"close":[229.1,230.2,231.5]}]}}],"error":null}`

// setup writes a configuration pointing to a fresh asset book and to a fake
// market, and returns the asset book path.
func setup(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chart/AAPL":
			fmt.Fprint(w, chartAAPL)
		case "/rates/USD":
			fmt.Fprint(w, `{"base":"USD","rates":{"EUR":0.9,"USD":1}}`)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	book := filepath.Join(dir, "assets.jsonl")
	cfg := fmt.Sprintf(`display_currency = "EUR"

[storage]
backend = "file"
path = '%s'

[market]
quote_url = '%s/chart/'
rates_url = '%s/rates/'
rate_cache = ""

[logging]
level = "debug"
pretty = false
`, book, srv.URL, srv.URL)
	config := filepath.Join(dir, "wlt.toml")
	require.NoError(t, os.WriteFile(config, []byte(cfg), 0o644))

	withFlag(t, configFile, config)
	*rawMarkdown = true
	t.Cleanup(func() { *rawMarkdown = false })
	return book
}

// run parses args into a fresh flag set of c and executes it.
func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	require.NoError(t, f.Parse(args))
	return c.Execute(context.Background(), f)
}

func load(t *testing.T, path string) []wealth.Asset {
	t.Helper()
	assets, err := store.NewFileSlot(path).Load(context.Background())
	require.NoError(t, err)
	return assets
}

func TestCommands(t *testing.T) {
	path := setup(t)
	out := capture(t)

	require.Equal(t, subcommands.ExitSuccess, run(t, newAddCmd(wealth.KindStock),
		"-name", "Apple", "-ticker", "aapl", "-currency", "usd", "-country", "us", "-sector", "Technology", "-q", "10", "-p", "200", "-date", "2024-03-01"))
	require.Equal(t, subcommands.ExitSuccess, run(t, newAddCmd(wealth.KindCash),
		"-name", "Wallet", "-currency", "EUR", "-a", "1000", "-country", "FR"))
	assert.Contains(t, out.String(), `Added stock "Apple"`)

	assets := load(t, path)
	require.Len(t, assets, 2)
	apple := assets[0].(wealth.Stock)
	assert.Equal(t, "AAPL", apple.Ticker)
	assert.Equal(t, "USD", apple.Currency)
	assert.Empty(t, apple.Transactions, "new assets are legacy")

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, run(t, &listCmd{}))
	assert.Contains(t, out.String(), "| Apple | Stocks | USD | legacy | held |")

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, run(t, &tradeCmd{txType: wealth.Buy}, "-a", "AAPL", "-d", "2025-01-10", "-q", "5", "-p", "210"))
	assert.Contains(t, out.String(), "holding 15 units")

	apple = load(t, path)[0].(wealth.Stock)
	require.Len(t, apple.Transactions, 2)
	assert.Equal(t, apple.ID+"-initial", apple.Transactions[0].ID)
	assert.True(t, wealth.M(1050, "USD").Equal(apple.Transactions[1].Amount))

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, run(t, &txCmd{}, "-a", "apple", "-s", "2025-01-01", "-d", "2025-12-31"))
	assert.Contains(t, out.String(), "# Apple")
	assert.NotContains(t, out.String(), wealth.InitialNote)

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, run(t, &holdingCmd{}))
	assert.Contains(t, out.String(), "Apple (AAPL)")
	assert.Contains(t, out.String(), "Wallet")

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, run(t, &analysisCmd{}))
	assert.Contains(t, out.String(), "# Portfolio Analysis")
	assert.NotContains(t, out.String(), "## Warnings")

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, run(t, &pricesCmd{}))
	assert.Contains(t, out.String(), "| AAPL | 231.5 | USD |")

	require.Equal(t, subcommands.ExitSuccess, run(t, &editCmd{}, "-a", "wallet", "-value", "1500", "-notes", "daily"))
	wallet := load(t, path)[1].(wealth.Cash)
	assert.True(t, wealth.M(1500, "EUR").Equal(wallet.Amount))
	assert.Equal(t, "daily", wallet.Notes)

	require.Equal(t, subcommands.ExitSuccess, run(t, &fmtCmd{}))

	require.Equal(t, subcommands.ExitSuccess, run(t, &rmCmd{}, "-a", "Apple"))
	assets = load(t, path)
	require.Len(t, assets, 1)
	assert.Equal(t, "Wallet", assets[0].Common().Name)
}

func TestCommands_Errors(t *testing.T) {
	setup(t)
	capture(t)

	require.Equal(t, subcommands.ExitSuccess, run(t, newAddCmd(wealth.KindDeposit), "-name", "Livret", "-currency", "EUR", "-a", "5000"))

	tests := []struct {
		name string
		cmd  subcommands.Command
		args []string
		want subcommands.ExitStatus
	}{
		{"add without currency", newAddCmd(wealth.KindCash), []string{"-name", "x"}, subcommands.ExitUsageError},
		{"add with bad amount", newAddCmd(wealth.KindCash), []string{"-name", "x", "-currency", "EUR", "-a", "lots"}, subcommands.ExitUsageError},
		{"add invalid asset", newAddCmd(wealth.KindStock), []string{"-name", "x", "-currency", "EUR"}, subcommands.ExitFailure},
		{"trade without asset", &tradeCmd{txType: wealth.Buy}, nil, subcommands.ExitUsageError},
		{"trade unknown asset", &tradeCmd{txType: wealth.Buy}, []string{"-a", "nope", "-amount", "10"}, subcommands.ExitFailure},
		{"trade currency mismatch", &tradeCmd{txType: wealth.Buy}, []string{"-a", "Livret", "-amount", "10", "-currency", "USD"}, subcommands.ExitFailure},
		{"trade units on a deposit", &tradeCmd{txType: wealth.Buy}, []string{"-a", "Livret", "-q", "1", "-p", "10"}, subcommands.ExitFailure},
		{"edit value of a deposit", &editCmd{}, []string{"-a", "Livret", "-value", "10"}, subcommands.ExitUsageError},
		{"tx head and tail", &txCmd{}, []string{"-a", "Livret", "-head", "1", "-tail", "1"}, subcommands.ExitUsageError},
		{"tx bad period", &txCmd{}, []string{"-a", "Livret", "-p", "decade"}, subcommands.ExitUsageError},
		{"list bad kind", &listCmd{}, []string{"-k", "boat"}, subcommands.ExitUsageError},
		{"rm unknown asset", &rmCmd{}, []string{"-a", "nope"}, subcommands.ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(t, tt.cmd, tt.args...))
		})
	}
}

func TestOpenApp_BadCurrency(t *testing.T) {
	setup(t)
	capture(t)
	withFlag(t, displayCurrency, "ABC")
	_, err := openApp(context.Background())
	assert.Error(t, err)
}

func TestOpenApp_SQLite(t *testing.T) {
	setup(t)
	capture(t)
	withFlag(t, backend, "sqlite")
	withFlag(t, dataFile, filepath.Join(t.TempDir(), "wealth.db"))

	require.Equal(t, subcommands.ExitSuccess, run(t, newAddCmd(wealth.KindRealEstate), "-name", "Flat", "-currency", "EUR", "-value", "250000"))
	require.Equal(t, subcommands.ExitSuccess, run(t, newAddCmd(wealth.KindCrypto), "-symbol", "btc-usd", "-currency", "USD", "-q", "0.5", "-p", "40000"))

	app, err := openApp(context.Background())
	require.NoError(t, err)
	defer app.Close()
	assets, err := app.book.Assets(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "BTC-USD", assets[1].Common().Name, "the symbol names an unnamed asset")
}

func TestTopic(t *testing.T) {
	out := capture(t)
	*rawMarkdown = true
	t.Cleanup(func() { *rawMarkdown = false })

	require.Equal(t, subcommands.ExitSuccess, run(t, &topicCmd{}))
	assert.Contains(t, out.String(), "# wlt documentation")

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, run(t, &topicCmd{}, "dates"))
	assert.Contains(t, out.String(), "# Dates")

	assert.Equal(t, subcommands.ExitFailure, run(t, &topicCmd{}, "nothing"))

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, run(t, &topicCmd{}, "-l"))
	assert.Contains(t, out.String(), "valuation\n")
	assert.NotContains(t, out.String(), "readme")
}

func TestApp_Provider(t *testing.T) {
	a := &app{cfg: config.NewDefaultConfig(), log: zerolog.Nop()}
	assert.IsType(t, &market.Yahoo{}, a.provider())
	a.cfg.Market.Provider = "eodhd"
	assert.IsType(t, &market.EODHD{}, a.provider())
}

func TestResolve(t *testing.T) {
	assets := []wealth.Asset{
		wealth.Stock{Base: wealth.Base{ID: "1", Name: "Apple", Currency: "USD"}, Ticker: "AAPL"},
		wealth.Cash{Base: wealth.Base{ID: "2", Name: "Wallet", Currency: "EUR"}},
		wealth.Cash{Base: wealth.Base{ID: "3", Name: "wallet", Currency: "USD"}},
	}
	tests := []struct {
		ref    string
		wantID string
		err    error
	}{
		{"1", "1", nil},
		{"apple", "1", nil},
		{"aapl", "1", nil},
		{"3", "3", nil},
		{"Wallet", "", errAmbiguous},
		{"nothing", "", store.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := resolve(assets, tt.ref)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.Common().ID)
		})
	}
}
