package wealth

import (
	"errors"
	"fmt"
	"strings"
)

// ValidateAsset checks an asset before it is stored and returns all the
// validation failures joined together.
func ValidateAsset(a Asset) error {
	b := a.Common()
	var errs []error
	if b.ID == "" {
		errs = append(errs, errors.New("id is missing"))
	}
	if strings.TrimSpace(b.Name) == "" {
		errs = append(errs, errors.New("name is missing"))
	}
	if err := ValidateCurrency(b.Currency); err != nil {
		errs = append(errs, err)
	}

	negative := func(field string, m Money) {
		if m.IsNegative() {
			errs = append(errs, fmt.Errorf("%s must not be negative: %v", field, m))
		}
	}
	switch v := a.(type) {
	case Stock:
		if v.Ticker == "" {
			errs = append(errs, errors.New("ticker is missing"))
		}
		if v.Format != "" && v.Format != FormatStock && v.Format != FormatETF {
			errs = append(errs, fmt.Errorf("invalid stock format %q", v.Format))
		}
	case Crypto:
		if v.Symbol == "" {
			errs = append(errs, errors.New("symbol is missing"))
		}
	case PreciousMetal:
		if v.Metal == "" {
			errs = append(errs, errors.New("metal is missing"))
		}
		if v.Format != "" && v.Format != Physical && v.Format != MetalETF {
			errs = append(errs, fmt.Errorf("invalid metal format %q", v.Format))
		}
	case Bond:
		negative("amount", v.Amount)
	case Deposit:
		negative("amount", v.Amount)
	case PrivateInvestment:
		negative("amount", v.Amount)
	case Cash:
		negative("amount", v.Amount)
	case RealEstate:
		negative("estimated value", v.EstimatedValue)
	default:
		unknown(a)
	}
	if q, p, ok := legacyPosition(a); ok {
		if q.IsNegative() {
			errs = append(errs, fmt.Errorf("quantity must not be negative: %v", q))
		}
		negative("purchase price", p)
	}

	for _, tx := range b.Transactions {
		if err := ValidateTransaction(a, tx); err != nil {
			errs = append(errs, fmt.Errorf("transaction %q: %w", tx.ID, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateTransaction checks a transaction before it is appended to the asset's ledger.
func ValidateTransaction(a Asset, tx Transaction) error {
	var errs []error
	if _, err := ParseTxType(string(tx.Type)); err != nil {
		errs = append(errs, err)
	}
	if tx.Date.IsZero() {
		errs = append(errs, errors.New("date is missing"))
	}
	switch {
	case tx.ID == initialID(a) && tx.Amount.IsNegative():
		// migrated legacy fields may hold units without a price.
		errs = append(errs, fmt.Errorf("amount must not be negative: %v", tx.Amount))
	case tx.ID != initialID(a) && !tx.Amount.IsPositive():
		errs = append(errs, fmt.Errorf("amount must be positive: %v", tx.Amount))
	}
	if tx.Quantity.IsNegative() {
		errs = append(errs, fmt.Errorf("quantity must not be negative: %v", tx.Quantity))
	}
	if tx.PricePerUnit.IsNegative() {
		errs = append(errs, fmt.Errorf("price per unit must not be negative: %v", tx.PricePerUnit))
	}
	if !IsQuantityBased(a) && !tx.Quantity.IsZero() {
		errs = append(errs, fmt.Errorf("%s assets are not traded in units", a.Kind()))
	}
	if cur := tx.Amount.Currency(); cur != "" && cur != a.Common().Currency {
		errs = append(errs, fmt.Errorf("amount currency %s differs from asset currency %s", cur, a.Common().Currency))
	}
	return errors.Join(errs...)
}
