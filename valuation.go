package wealth

import (
	"github.com/shopspring/decimal"
)

// Quote is the latest market price of a symbol.
type Quote struct {
	Price    decimal.Decimal
	Currency string // may be empty when the source did not tell.
}

// Prices maps market symbols to their latest quote.
type Prices map[string]Quote

// metalSymbols maps metals to the futures used as a price proxy.
var metalSymbols = map[string]string{
	"gold":      "GC=F",
	"silver":    "SI=F",
	"platinum":  "PL=F",
	"palladium": "PA=F",
}

// MarketSymbol returns the symbol used to look up the asset's market price,
// or "" if the asset has none.
func MarketSymbol(a Asset) string {
	switch v := a.(type) {
	case Stock:
		return v.Ticker
	case Crypto:
		return v.Symbol
	case PreciousMetal:
		return metalSymbols[v.Metal]
	case Bond, Deposit, PrivateInvestment, Cash, RealEstate:
		return ""
	default:
		unknown(a)
		return ""
	}
}

// IsLivePriced reports whether a market price can supersede the cost basis of the asset.
func IsLivePriced(a Asset) bool {
	switch a.(type) {
	case Stock, Crypto, PreciousMetal:
		return true
	case Bond, Deposit, PrivateInvestment, Cash, RealEstate:
		return false
	default:
		unknown(a)
		return false
	}
}

// CostBasis returns the value of the asset based on what was paid for it.
//
// Quantity based assets are valued at net quantity × average purchase price,
// amount based ones at their net amount, real estate at its estimate.
func CostBasis(a Asset) Money {
	cur := a.Common().Currency
	switch v := a.(type) {
	case Stock, Crypto, PreciousMetal:
		l := Reconcile(v)
		return l.AvgPurchasePrice().Mul(l.NetQuantity()).In(cur)
	case Bond, Deposit, PrivateInvestment, Cash:
		return NetAmount(v)
	case RealEstate:
		return v.EstimatedValue.In(cur)
	default:
		unknown(a)
		return Money{}
	}
}

// Valuation is the current value of an asset.
type Valuation struct {
	Value     Money
	CostBasis Money
	Live      bool   // Live is true when Value comes from a market price.
	Symbol    string // Symbol is the market symbol, if any.
	Price     Quote  // Price is the quote used when Live.
}

// Appraise values the asset, using prices for live priced assets when a quote
// is available and the cost basis otherwise.
//
// A missing quote is not an error.
func Appraise(a Asset, prices Prices) Valuation {
	v := Valuation{CostBasis: CostBasis(a), Symbol: MarketSymbol(a)}
	v.Value = v.CostBasis
	if !IsLivePriced(a) || v.Symbol == "" {
		return v
	}
	quote, ok := prices[v.Symbol]
	if !ok {
		return v
	}
	cur := quote.Currency
	if cur == "" {
		cur = a.Common().Currency
	}
	v.Value = M(quote.Price, cur).Mul(NetQuantity(a))
	v.Live = true
	v.Price = quote
	return v
}

// Value returns the current value of the asset, see Appraise.
func Value(a Asset, prices Prices) Money { return Appraise(a, prices).Value }
