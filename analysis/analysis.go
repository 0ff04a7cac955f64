// Package analysis computes exposure breakdowns and diversification scores
// over a set of valued assets.
package analysis

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/etnz/wealth"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Converter converts an amount into another currency.
type Converter interface {
	Convert(ctx context.Context, amount wealth.Money, to string) (wealth.Money, error)
}

// Item is a held asset with its valuation.
type Item struct {
	Asset     wealth.Asset
	Valuation wealth.Valuation
	// Value is the valuation in the display currency, or in its own
	// currency when it could not be converted.
	Value     wealth.Money
	Converted bool
}

// Exposure is the share of a group in a breakdown.
type Exposure struct {
	Label   string
	Value   wealth.Money
	Percent wealth.Percent
}

// Report is the complete analysis of the assets.
type Report struct {
	Currency string
	Total    wealth.Money
	// Items are the held assets valued in Currency, they make Total and
	// every breakdown.
	Items []Item
	// Unconverted are the held assets whose value could not be converted
	// into Currency. They are left out of Total, breakdowns and scores.
	Unconverted []Item

	Geography  []Exposure
	Currencies []Exposure
	Sectors    []Exposure
	Classes    []Exposure

	GeographyScore int
	CurrencyScore  int
	SectorScore    int
	LiquidityScore int
	Health         int
	Risk           RiskLevel

	Warnings []string // conversion failures
}

// Held values the assets and keeps those that are still held: not fully sold
// and with a positive value.
//
// Values are converted to currency with conv. When a conversion fails the
// item keeps its own currency, is not marked Converted, and a warning is
// returned.
func Held(ctx context.Context, assets []wealth.Asset, prices wealth.Prices, conv Converter, currency string) (items []Item, warnings []string, err error) {
	log := zerolog.Ctx(ctx)
	for _, a := range assets {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if wealth.IsFullySold(a) {
			continue
		}
		v := wealth.Appraise(a, prices)
		if !v.Value.IsPositive() {
			continue
		}
		it := Item{Asset: a, Valuation: v, Value: v.Value, Converted: true}
		if v.Value.Currency() != currency {
			converted, err := convert(ctx, conv, v.Value, currency)
			if err != nil {
				warning := fmt.Sprintf("%s: not converted from %s, left out of the totals: %v", a.Common().Name, v.Value.Currency(), err)
				log.Warn().Err(err).Str("asset", a.Common().ID).Str("from", v.Value.Currency()).Str("to", currency).Msg("conversion failed, value left out of the totals")
				warnings = append(warnings, warning)
				it.Converted = false
			} else {
				it.Value = converted
			}
		}
		items = append(items, it)
	}
	return items, warnings, nil
}

func convert(ctx context.Context, conv Converter, m wealth.Money, to string) (wealth.Money, error) {
	if conv == nil {
		return m, fmt.Errorf("no exchange rates available")
	}
	return conv.Convert(ctx, m, to)
}

// Geography returns the geographic label of an asset: its country, "Global"
// for crypto and precious metals, "Unknown" otherwise.
func Geography(a wealth.Asset) string {
	if c := a.Common().Country; c != "" {
		return c
	}
	switch a.(type) {
	case wealth.Crypto, wealth.PreciousMetal:
		return "Global"
	default:
		return "Unknown"
	}
}

// Sector returns the sector of a stock, "Unknown" when not set, and the asset
// class of any other asset.
func Sector(a wealth.Asset) string {
	if s, ok := a.(wealth.Stock); ok {
		if s.Sector == "" {
			return "Unknown"
		}
		return s.Sector
	}
	return a.Kind().Label()
}

// Breakdown groups the items by label and returns the exposures sorted by
// value, largest first. Item values must all be in currency.
func Breakdown(items []Item, currency string, label func(Item) string) []Exposure {
	groups := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, it := range items {
		l := label(it)
		groups[l] = groups[l].Add(it.Value.Decimal())
		total = total.Add(it.Value.Decimal())
	}

	exposures := make([]Exposure, 0, len(groups))
	for l, v := range groups {
		var pct float64
		if total.IsPositive() {
			pct = v.Div(total).Shift(2).InexactFloat64()
		}
		exposures = append(exposures, Exposure{Label: l, Value: wealth.M(v, currency), Percent: wealth.Percent(pct)})
	}
	slices.SortFunc(exposures, func(a, b Exposure) int {
		if c := b.Value.Decimal().Cmp(a.Value.Decimal()); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return exposures
}

// Percents returns the percentages of the exposures.
func Percents(exposures []Exposure) []float64 {
	pcts := make([]float64, len(exposures))
	for i, e := range exposures {
		pcts[i] = float64(e.Percent)
	}
	return pcts
}

// Analyze values the assets in currency and computes every breakdown and score.
func Analyze(ctx context.Context, assets []wealth.Asset, prices wealth.Prices, conv Converter, currency string) (*Report, error) {
	held, warnings, err := Held(ctx, assets, prices, conv, currency)
	if err != nil {
		return nil, err
	}

	r := &Report{Currency: currency, Warnings: warnings}
	for _, it := range held {
		if it.Converted {
			r.Items = append(r.Items, it)
		} else {
			r.Unconverted = append(r.Unconverted, it)
		}
	}
	items := r.Items
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Value.Decimal())
	}
	r.Total = wealth.M(total, currency)

	r.Geography = Breakdown(items, currency, func(it Item) string { return Geography(it.Asset) })
	r.Currencies = Breakdown(items, currency, func(it Item) string { return it.Valuation.Value.Currency() })
	r.Sectors = Breakdown(items, currency, func(it Item) string { return Sector(it.Asset) })
	r.Classes = Breakdown(items, currency, func(it Item) string { return it.Asset.Kind().Label() })

	r.GeographyScore = DiversificationScore(Percents(r.Geography))
	r.CurrencyScore = DiversificationScore(Percents(r.Currencies))
	r.SectorScore = DiversificationScore(Percents(r.Sectors))
	r.LiquidityScore = LiquidityScore(items)
	r.Health, r.Risk = Health(r.GeographyScore, r.CurrencyScore, r.SectorScore, r.LiquidityScore)

	zerolog.Ctx(ctx).Debug().Int("assets", len(assets)).Int("held", len(items)).Int("health", r.Health).Msg("analysis done")
	return r, nil
}
