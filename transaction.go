package wealth

import (
	"fmt"

	"github.com/etnz/wealth/date"
	"github.com/google/uuid"
)

// TxType is the type of a transaction: buy or sell.
type TxType string

const (
	Buy  TxType = "buy"
	Sell TxType = "sell"
)

// ParseTxType returns the TxType named s.
func ParseTxType(s string) (TxType, error) {
	switch TxType(s) {
	case Buy, Sell:
		return TxType(s), nil
	default:
		return "", fmt.Errorf("invalid transaction type %q, want %q or %q", s, Buy, Sell)
	}
}

// Transaction records a single buy or sell event on an asset.
//
// Quantity and PricePerUnit are only meaningful for quantity based assets, a
// zero value means they were not set.
type Transaction struct {
	ID           string
	Type         TxType
	Date         date.Date
	Amount       Money    // Amount is the total monetary value of the event.
	Quantity     Quantity // Quantity is the number of units bought or sold.
	PricePerUnit Money    // PricePerUnit is the price of a unit when bought or sold.
	Note         string
}

// NewBuy creates a buy transaction with a fresh identifier.
func NewBuy(on date.Date, amount Money, quantity Quantity, price Money, note string) Transaction {
	return Transaction{ID: uuid.NewString(), Type: Buy, Date: on, Amount: amount, Quantity: quantity, PricePerUnit: price, Note: note}
}

// NewSell creates a sell transaction with a fresh identifier.
func NewSell(on date.Date, amount Money, quantity Quantity, price Money, note string) Transaction {
	return Transaction{ID: uuid.NewString(), Type: Sell, Date: on, Amount: amount, Quantity: quantity, PricePerUnit: price, Note: note}
}

// IsBuy reports whether t is a buy.
func (t Transaction) IsBuy() bool { return t.Type == Buy }

// IsSell reports whether t is a sell.
func (t Transaction) IsSell() bool { return t.Type == Sell }

// Equal reports whether both transactions are the same.
func (t Transaction) Equal(u Transaction) bool {
	return t.ID == u.ID && t.Type == u.Type && t.Date == u.Date &&
		t.Amount.Equal(u.Amount) && t.Quantity.Equal(u.Quantity) &&
		t.PricePerUnit.Equal(u.PricePerUnit) && t.Note == u.Note
}

// InitialNote is the note of a synthesized initial transaction.
const InitialNote = "Initial purchase"

func initialID(a Asset) string { return a.Common().ID + "-initial" }

// InitialTransaction synthesizes the buy transaction that represents the
// legacy purchase fields of an asset.
//
// Its identifier is derived from the asset's one so that repeated synthesis
// yields the same transaction.
func InitialTransaction(a Asset) Transaction {
	b := a.Common()
	on := b.PurchaseDate
	if on.IsZero() {
		on = date.FromTime(b.CreatedAt)
	}
	tx := Transaction{
		ID:   initialID(a),
		Type: Buy,
		Date: on,
		Note: InitialNote,
	}

	switch v := a.(type) {
	case Stock, Crypto, PreciousMetal:
		q, p, _ := legacyPosition(v)
		tx.Quantity = q
		tx.PricePerUnit = p.In(b.Currency)
		tx.Amount = p.Mul(q).In(b.Currency)
	case Bond, Deposit, PrivateInvestment, Cash:
		amount, _ := legacyAmount(v)
		tx.Amount = amount.In(b.Currency)
	case RealEstate:
		tx.Amount = v.EstimatedValue.In(b.Currency)
	default:
		unknown(a)
	}
	return tx
}
