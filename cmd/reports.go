package cmd

import (
	"context"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/date"
	"github.com/etnz/wealth/renderer"
)

// reports produces the markdown reports of the app. It serves both the
// report commands and the assistant.
type reports struct{ app *app }

// Holdings renders the held assets valued today.
func (r reports) Holdings(ctx context.Context) (string, error) {
	rep, err := r.app.analyze(ctx)
	if err != nil {
		return "", err
	}
	return renderer.RenderHoldings(renderer.NewHoldings(date.Today(), rep)), nil
}

// Analysis renders the exposure and diversification analysis.
func (r reports) Analysis(ctx context.Context) (string, error) {
	rep, err := r.app.analyze(ctx)
	if err != nil {
		return "", err
	}
	return renderer.RenderAnalysis(renderer.NewAnalysis(rep)), nil
}

// Transactions renders the full ledger of an asset.
func (r reports) Transactions(ctx context.Context, ref string) (string, error) {
	a, err := r.app.findAsset(ctx, ref)
	if err != nil {
		return "", err
	}
	return renderer.RenderTransactions(renderer.NewTransactions(a, wealth.Transactions(a))), nil
}
