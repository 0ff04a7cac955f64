package wealth

import (
	"time"

	"github.com/etnz/wealth/date"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// day is a helper for test to create a date in 2025.
func day(month time.Month, d int) date.Date { return date.New(2025, month, d) }

// created is the creation time of every test asset.
var created = time.Date(2025, time.January, 2, 9, 30, 0, 0, time.UTC)

// base is a helper for test to create the common fields of an asset.
func base(id, currency string, txs ...Transaction) Base {
	return Base{ID: id, Name: id, Currency: currency, CreatedAt: created, UpdatedAt: created, Transactions: txs}
}

// buy is a helper for test to create a buy of q units at p.
func buy(on date.Date, q, p float64) Transaction {
	return Transaction{ID: "b" + on.String(), Type: Buy, Date: on, Amount: USD(q * p), Quantity: Q(q), PricePerUnit: USD(p)}
}

// sell is a helper for test to create a sell of q units at p.
func sell(on date.Date, q, p float64) Transaction {
	return Transaction{ID: "s" + on.String(), Type: Sell, Date: on, Amount: USD(q * p), Quantity: Q(q), PricePerUnit: USD(p)}
}

// amount is a helper for test to create an amount only transaction.
func amount(t TxType, on date.Date, v float64) Transaction {
	return Transaction{ID: string(t) + on.String(), Type: t, Date: on, Amount: USD(v)}
}
