package wealth

import (
	"slices"
)

// Strategy tells how the ledger of an asset was resolved.
type Strategy int

const (
	// LegacySingleEntry is used for assets without recorded transactions: the
	// ledger is the single synthesized initial transaction.
	LegacySingleEntry Strategy = iota
	// Recorded is used for assets with recorded transactions.
	Recorded
)

func (s Strategy) String() string {
	switch s {
	case LegacySingleEntry:
		return "legacy"
	case Recorded:
		return "recorded"
	default:
		return "unknown"
	}
}

// Ledger is the resolved list of transactions of an asset.
//
// Every derived figure of an asset (net quantity, net amount, average
// purchase price...) is computed from it.
type Ledger struct {
	Asset        Asset
	Strategy     Strategy
	Transactions []Transaction // newest first
}

// Reconcile resolves the ledger of an asset.
func Reconcile(a Asset) Ledger {
	recorded := a.Common().Transactions
	if len(recorded) == 0 {
		return Ledger{Asset: a, Strategy: LegacySingleEntry, Transactions: []Transaction{InitialTransaction(a)}}
	}
	txs := slices.Clone(recorded)
	// stable, so that same day transactions keep a deterministic order.
	slices.SortStableFunc(txs, func(a, b Transaction) int { return b.Date.Compare(a.Date) })
	return Ledger{Asset: a, Strategy: Recorded, Transactions: txs}
}

// Transactions returns the asset's transactions sorted by date, newest first.
// A legacy asset returns its synthesized initial transaction.
func Transactions(a Asset) []Transaction { return Reconcile(a).Transactions }

// NetQuantity returns bought minus sold units, floored at zero.
func NetQuantity(a Asset) Quantity { return Reconcile(a).NetQuantity() }

// NetAmount returns bought minus sold amounts, floored at zero.
func NetAmount(a Asset) Money { return Reconcile(a).NetAmount() }

// AvgPurchasePrice returns the weighted average price paid per unit.
func AvgPurchasePrice(a Asset) Money { return Reconcile(a).AvgPurchasePrice() }

// IsFullySold reports whether the position has been liquidated.
func IsFullySold(a Asset) bool { return Reconcile(a).IsFullySold() }

// InvestedAmount returns the total amount of buys.
func InvestedAmount(a Asset) Money { return Reconcile(a).Invested() }

// RealizedProceeds returns the total amount of sells.
func RealizedProceeds(a Asset) Money { return Reconcile(a).Proceeds() }

func (l Ledger) currency() string { return l.Asset.Common().Currency }

// NetQuantity returns Σ buy quantities - Σ sell quantities, floored at zero.
func (l Ledger) NetQuantity() Quantity {
	if len(l.Transactions) == 0 {
		q, _, _ := legacyPosition(l.Asset)
		return q
	}
	var net Quantity
	for _, tx := range l.Transactions {
		switch tx.Type {
		case Buy:
			net = net.Add(tx.Quantity)
		case Sell:
			net = net.Sub(tx.Quantity)
		}
	}
	if net.IsNegative() {
		return Quantity{}
	}
	return net
}

// NetAmount returns Σ buy amounts - Σ sell amounts, floored at zero.
func (l Ledger) NetAmount() Money {
	cur := l.currency()
	if len(l.Transactions) == 0 {
		amount, _ := legacyAmount(l.Asset)
		return amount.In(cur)
	}
	net := M(0, cur)
	for _, tx := range l.Transactions {
		switch tx.Type {
		case Buy:
			net = net.Add(tx.Amount.In(cur))
		case Sell:
			net = net.Sub(tx.Amount.In(cur))
		}
	}
	if net.IsNegative() {
		return M(0, cur)
	}
	return net
}

// AvgPurchasePrice returns Σ(quantity×price)/Σquantity over the buys that
// have both a quantity and a price per unit.
//
// Sells never change it. When nothing qualifies it falls back to the legacy
// purchase price, or zero.
func (l Ledger) AvgPurchasePrice() Money {
	cur := l.currency()
	cost := M(0, cur)
	var bought Quantity
	for _, tx := range l.Transactions {
		if !tx.IsBuy() || tx.Quantity.IsZero() || tx.PricePerUnit.IsZero() {
			continue
		}
		cost = cost.Add(tx.PricePerUnit.In(cur).Mul(tx.Quantity))
		bought = bought.Add(tx.Quantity)
	}
	if bought.IsZero() {
		_, price, _ := legacyPosition(l.Asset)
		return price.In(cur)
	}
	return cost.Div(bought)
}

// IsFullySold reports whether the position has been liquidated.
//
// Without any sell it is never sold. Divisible quantity based assets are sold
// when no unit remains, cash when no amount remains. Any other asset is
// indivisible and a single sell liquidates it, whatever the amount.
func (l Ledger) IsFullySold() bool {
	if !slices.ContainsFunc(l.Transactions, Transaction.IsSell) {
		return false
	}
	switch {
	case IsQuantityBased(l.Asset) && !IsIndivisible(l.Asset):
		return !l.NetQuantity().IsPositive()
	case l.Asset.Kind() == KindCash:
		return !l.NetAmount().IsPositive()
	default:
		return true
	}
}

// Invested returns the sum of buy amounts.
func (l Ledger) Invested() Money { return l.sum(Buy) }

// Proceeds returns the sum of sell amounts.
func (l Ledger) Proceeds() Money { return l.sum(Sell) }

func (l Ledger) sum(t TxType) Money {
	cur := l.currency()
	total := M(0, cur)
	for _, tx := range l.Transactions {
		if tx.Type == t {
			total = total.Add(tx.Amount.In(cur))
		}
	}
	return total
}
