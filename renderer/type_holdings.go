package renderer

import (
	"slices"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/analysis"
	"github.com/etnz/wealth/date"
)

// Holdings is the list of held assets, valued in a display currency.
type Holdings struct {
	Date     date.Date    `json:"date"`
	Currency string       `json:"currency"`
	Total    wealth.Money `json:"total"`
	Rows     []HoldingRow `json:"rows"`
	Warnings []string     `json:"warnings,omitempty"`
}

// HoldingRow represents a single held asset.
type HoldingRow struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Class string `json:"class"`
	// Symbol is the market symbol, if any.
	Symbol   string          `json:"symbol,omitempty"`
	Quantity wealth.Quantity `json:"quantity"`
	// Price is the market price when Live, the average purchase price otherwise.
	Price wealth.Money `json:"price"`
	// Value is in the valuation currency, the quote one for live prices.
	Value wealth.Money `json:"value"`
	// Converted is Value in the display currency, when it could be converted.
	Converted wealth.Money   `json:"converted"`
	Weight    wealth.Percent `json:"weight"`
	Live      bool           `json:"live"`
	// Gain is value + proceeds - invested, zero when the value is not in
	// the asset currency.
	Gain wealth.Money `json:"gain"`
}

// NewHoldings creates the holdings view of an analysis report.
func NewHoldings(on date.Date, r *analysis.Report) *Holdings {
	h := &Holdings{
		Date:     on,
		Currency: r.Currency,
		Total:    r.Total,
		Rows:     make([]HoldingRow, 0, len(r.Items)+len(r.Unconverted)),
		Warnings: r.Warnings,
	}
	total := r.Total.AsFloat()
	for _, it := range slices.Concat(r.Items, r.Unconverted) {
		b := it.Asset.Common()
		row := HoldingRow{
			ID:     b.ID,
			Name:   b.Name,
			Class:  it.Asset.Kind().Label(),
			Symbol: it.Valuation.Symbol,
			Value:  it.Valuation.Value,
			Live:   it.Valuation.Live,
		}
		if wealth.IsQuantityBased(it.Asset) {
			row.Quantity = wealth.NetQuantity(it.Asset)
			if it.Valuation.Live {
				row.Price = wealth.M(it.Valuation.Price.Price, it.Valuation.Value.Currency())
			} else {
				row.Price = wealth.AvgPurchasePrice(it.Asset)
			}
		}
		if v := it.Valuation.Value; v.Currency() == b.Currency {
			row.Gain = v.Add(wealth.RealizedProceeds(it.Asset)).Sub(wealth.InvestedAmount(it.Asset))
		}
		if it.Converted {
			row.Converted = it.Value
			if total > 0 {
				row.Weight = wealth.Percent(100 * it.Value.AsFloat() / total)
			}
		}
		h.Rows = append(h.Rows, row)
	}
	return h
}
