package wealth

import (
	"testing"
	"time"
)

func TestValidateAsset(t *testing.T) {
	for _, a := range sampleAssets() {
		if err := ValidateAsset(a); err != nil {
			t.Errorf("ValidateAsset(%s) unexpected error: %v", a.Common().ID, err)
		}
	}

	testCases := []struct {
		name  string
		asset Asset
	}{
		{"missing name", Cash{Base: Base{ID: "x", Currency: "EUR"}}},
		{"unknown currency", Cash{Base: base("x", "XYZ")}},
		{"missing ticker", Stock{Base: base("x", "USD")}},
		{"negative amount", Bond{Base: base("x", "EUR"), Amount: EUR(-1)}},
		{"negative quantity", Crypto{Base: base("x", "USD"), Symbol: "BTC-USD", Quantity: Q(-1)}},
		{"invalid metal format", PreciousMetal{Base: base("x", "USD"), Metal: "gold", Format: "coin"}},
		{"invalid transaction", Cash{Base: base("x", "USD", amount("gift", day(time.January, 1), 10))}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateAsset(tc.asset); err == nil {
				t.Errorf("ValidateAsset() expected an error")
			}
		})
	}
}

func TestValidateTransaction(t *testing.T) {
	stock := Stock{Base: base("aapl", "USD"), Ticker: "AAPL"}
	cash := Cash{Base: base("cash", "USD")}

	testCases := []struct {
		name    string
		asset   Asset
		tx      Transaction
		wantErr bool
	}{
		{"buy", stock, buy(day(time.January, 1), 10, 100), false},
		{"amount only sell", stock, amount(Sell, day(time.January, 1), 100), false},
		{"zero amount", cash, amount(Buy, day(time.January, 1), 0), true},
		{"migrated units without price", Stock{Base: base("gift", "USD"), Ticker: "AAPL", Quantity: Q(3)}, InitialTransaction(Stock{Base: base("gift", "USD"), Ticker: "AAPL", Quantity: Q(3)}), false},
		{"zero amount named like another initial", cash, Transaction{ID: "aapl-initial", Type: Buy, Date: day(time.January, 1), Amount: USD(0)}, true},
		{"missing date", cash, Transaction{Type: Buy, Amount: USD(10)}, true},
		{"units on cash", cash, buy(day(time.January, 1), 10, 100), true},
		{"currency mismatch", cash, Transaction{Type: Buy, Date: day(time.January, 1), Amount: EUR(10)}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTransaction(tc.asset, tc.tx)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateTransaction() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
