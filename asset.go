package wealth

import (
	"fmt"
	"time"

	"github.com/etnz/wealth/date"
	"github.com/google/uuid"
)

// Kind is the discriminant of an Asset.
type Kind string

// Asset kinds.
const (
	KindStock             Kind = "stock"
	KindBond              Kind = "bond"
	KindDeposit           Kind = "deposit"
	KindPreciousMetal     Kind = "precious_metal"
	KindRealEstate        Kind = "real_estate"
	KindPrivateInvestment Kind = "private_investment"
	KindCash              Kind = "cash"
	KindCrypto            Kind = "crypto"
)

// Kinds lists every asset kind, in display order.
var Kinds = []Kind{KindStock, KindCrypto, KindPreciousMetal, KindBond, KindDeposit, KindCash, KindPrivateInvestment, KindRealEstate}

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown asset type %q", s)
}

// Label returns a human readable name for the kind.
func (k Kind) Label() string {
	switch k {
	case KindStock:
		return "Stocks"
	case KindBond:
		return "Bonds"
	case KindDeposit:
		return "Deposits"
	case KindPreciousMetal:
		return "Precious Metals"
	case KindRealEstate:
		return "Real Estate"
	case KindPrivateInvestment:
		return "Private Investments"
	case KindCash:
		return "Cash"
	case KindCrypto:
		return "Crypto"
	default:
		return string(k)
	}
}

// Asset is one holding of the user. It is a closed set of variants:
// Stock, Bond, Deposit, PreciousMetal, RealEstate, PrivateInvestment, Cash and Crypto.
//
// Variant specific logic must switch on the concrete type.
type Asset interface {
	Kind() Kind   // Kind returns the discriminant of the variant.
	Common() Base // Common returns the fields shared by all variants.
	sealed()
}

// Base holds the fields common to every asset.
type Base struct {
	ID           string
	Name         string
	Currency     string // ISO 4217 holding currency.
	Country      string // optional ISO country code, used for geographic exposure.
	Notes        string
	PurchaseDate date.Date // optional, the creation date is used when zero.
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Transactions in insertion order. An asset without transactions predates
	// ledger tracking and is described by its legacy purchase fields only.
	Transactions []Transaction
}

// NewBase returns a Base with a fresh identifier and timestamps.
func NewBase(name, currency string) Base {
	now := time.Now().UTC()
	return Base{
		ID:        uuid.NewString(),
		Name:      name,
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Common returns a copy of the base.
func (b Base) Common() Base { return b }

func (Base) sealed() {}

// StockFormat distinguishes plain equities from exchange traded funds.
type StockFormat string

const (
	FormatStock StockFormat = "stock"
	FormatETF   StockFormat = "etf"
)

// Stock is an equity or an ETF.
type Stock struct {
	Base
	Ticker        string
	Exchange      string
	Sector        string
	Format        StockFormat
	Quantity      Quantity // legacy quantity
	PurchasePrice Money    // legacy price per share
}

// Crypto is a crypto currency holding.
type Crypto struct {
	Base
	Symbol        string // market symbol like BTC-USD
	Quantity      Quantity
	PurchasePrice Money
}

// MetalFormat tells how a precious metal is held.
type MetalFormat string

const (
	Physical MetalFormat = "physical"
	MetalETF MetalFormat = "etf"
)

// PreciousMetal is gold, silver, platinum, palladium or any other metal.
type PreciousMetal struct {
	Base
	Metal         string
	Format        MetalFormat
	Unit          string // oz, g, kg...
	Quantity      Quantity
	PurchasePrice Money
}

// Bond is a fixed income security.
type Bond struct {
	Base
	Issuer     string
	CouponRate Percent
	Maturity   date.Date
	Amount     Money
}

// Deposit is a term deposit or a savings account.
type Deposit struct {
	Base
	Bank         string
	InterestRate Percent
	Maturity     date.Date
	Amount       Money
}

// PrivateInvestment is a stake in a non listed company.
type PrivateInvestment struct {
	Base
	Company string
	Stage   string
	Amount  Money
}

// Cash is money held at an institution.
type Cash struct {
	Base
	Institution string
	Amount      Money
}

// RealEstate is a property valued at its stored estimate.
type RealEstate struct {
	Base
	Address        string
	PropertyType   string
	EstimatedValue Money
}

func (Stock) Kind() Kind             { return KindStock }
func (Crypto) Kind() Kind            { return KindCrypto }
func (PreciousMetal) Kind() Kind     { return KindPreciousMetal }
func (Bond) Kind() Kind              { return KindBond }
func (Deposit) Kind() Kind           { return KindDeposit }
func (PrivateInvestment) Kind() Kind { return KindPrivateInvestment }
func (Cash) Kind() Kind              { return KindCash }
func (RealEstate) Kind() Kind        { return KindRealEstate }

// unknown panics, it is only reachable if a variant is added without updating a switch.
func unknown(a Asset) {
	panic(fmt.Sprintf("unknown asset variant %T", a))
}

// WithBase returns a copy of a where the common fields are modified by fn.
func WithBase(a Asset, fn func(*Base)) Asset {
	switch v := a.(type) {
	case Stock:
		fn(&v.Base)
		return v
	case Crypto:
		fn(&v.Base)
		return v
	case PreciousMetal:
		fn(&v.Base)
		return v
	case Bond:
		fn(&v.Base)
		return v
	case Deposit:
		fn(&v.Base)
		return v
	case PrivateInvestment:
		fn(&v.Base)
		return v
	case Cash:
		fn(&v.Base)
		return v
	case RealEstate:
		fn(&v.Base)
		return v
	default:
		unknown(a)
		return nil
	}
}

// AppendTransaction returns a copy of a with tx appended to its ledger and
// UpdatedAt set to now.
//
// A legacy asset is migrated first: its synthesized initial transaction is
// inserted before tx, unless it carries neither amount nor quantity.
func AppendTransaction(a Asset, tx Transaction, now time.Time) Asset {
	initial := InitialTransaction(a)
	empty := initial.Amount.IsZero() && initial.Quantity.IsZero()
	return WithBase(a, func(b *Base) {
		txs := make([]Transaction, 0, len(b.Transactions)+2)
		if len(b.Transactions) == 0 && !empty {
			txs = append(txs, initial)
		}
		txs = append(txs, b.Transactions...)
		b.Transactions = append(txs, tx)
		b.UpdatedAt = now
	})
}

// legacyPosition returns the legacy purchase fields of quantity bearing assets.
func legacyPosition(a Asset) (quantity Quantity, price Money, ok bool) {
	switch v := a.(type) {
	case Stock:
		return v.Quantity, v.PurchasePrice, true
	case Crypto:
		return v.Quantity, v.PurchasePrice, true
	case PreciousMetal:
		return v.Quantity, v.PurchasePrice, true
	case Bond, Deposit, PrivateInvestment, Cash, RealEstate:
		return Quantity{}, Money{}, false
	default:
		unknown(a)
		return
	}
}

// legacyAmount returns the legacy amount of amount bearing assets.
func legacyAmount(a Asset) (Money, bool) {
	switch v := a.(type) {
	case Bond:
		return v.Amount, true
	case Deposit:
		return v.Amount, true
	case PrivateInvestment:
		return v.Amount, true
	case Cash:
		return v.Amount, true
	case Stock, Crypto, PreciousMetal, RealEstate:
		return Money{}, false
	default:
		unknown(a)
		return Money{}, false
	}
}

// IsQuantityBased reports whether the asset is tracked in units: stocks, crypto and precious metals.
func IsQuantityBased(a Asset) bool {
	_, _, ok := legacyPosition(a)
	return ok
}

// IsIndivisible reports whether the asset is sold as a whole: real estate and physical metals.
func IsIndivisible(a Asset) bool {
	switch v := a.(type) {
	case RealEstate:
		return true
	case PreciousMetal:
		return v.Format == Physical
	case Stock, Crypto, Bond, Deposit, PrivateInvestment, Cash:
		return false
	default:
		unknown(a)
		return false
	}
}
