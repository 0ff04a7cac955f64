package renderer

import (
	"github.com/etnz/wealth"
)

// Transactions is the ledger of a single asset.
type Transactions struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Class    string `json:"class"`
	Currency string `json:"currency"`
	// Strategy tells whether the ledger is recorded or synthesized.
	Strategy string `json:"strategy"`

	QuantityBased bool            `json:"quantityBased"`
	NetQuantity   wealth.Quantity `json:"netQuantity"`
	AvgPrice      wealth.Money    `json:"avgPrice"`
	NetAmount     wealth.Money    `json:"netAmount"`
	Invested      wealth.Money    `json:"invested"`
	Proceeds      wealth.Money    `json:"proceeds"`
	FullySold     bool            `json:"fullySold"`

	Rows []TransactionRow `json:"rows"`
}

// TransactionRow represents a single transaction.
type TransactionRow struct {
	ID       string          `json:"id"`
	Date     string          `json:"date"`
	Type     string          `json:"type"`
	Amount   wealth.Money    `json:"amount"`
	Quantity wealth.Quantity `json:"quantity"`
	Price    wealth.Money    `json:"price"`
	Note     string          `json:"note,omitempty"`
}

// NewTransactions creates the ledger view of an asset, listing txs.
//
// The summary figures are always computed on the full ledger, txs may be a
// subset of it.
func NewTransactions(a wealth.Asset, txs []wealth.Transaction) *Transactions {
	l := wealth.Reconcile(a)
	b := a.Common()
	t := &Transactions{
		ID:            b.ID,
		Name:          b.Name,
		Class:         a.Kind().Label(),
		Currency:      b.Currency,
		Strategy:      l.Strategy.String(),
		QuantityBased: wealth.IsQuantityBased(a),
		NetQuantity:   l.NetQuantity(),
		AvgPrice:      l.AvgPurchasePrice(),
		NetAmount:     l.NetAmount(),
		Invested:      l.Invested(),
		Proceeds:      l.Proceeds(),
		FullySold:     l.IsFullySold(),
		Rows:          make([]TransactionRow, 0, len(txs)),
	}
	for _, tx := range txs {
		t.Rows = append(t.Rows, TransactionRow{
			ID:       tx.ID,
			Date:     tx.Date.String(),
			Type:     string(tx.Type),
			Amount:   tx.Amount.In(b.Currency),
			Quantity: tx.Quantity,
			Price:    tx.PricePerUnit,
			Note:     tx.Note,
		})
	}
	return t
}
