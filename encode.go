package wealth

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/etnz/wealth/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Assets are persisted as JSON objects, one per line. Money values are
// written as plain numbers, their currency is the asset's one.

// head starts the JSON object of an asset with the common fields.
func (b Base) head(k Kind) *jsonObjectWriter {
	w := new(jsonObjectWriter)
	w.Append("type", k)
	w.Append("id", b.ID)
	w.Append("name", b.Name)
	w.Append("currency", b.Currency)
	w.Optional("country", b.Country)
	w.Optional("notes", b.Notes)
	w.Optional("purchaseDate", b.PurchaseDate)
	w.Append("createdAt", b.CreatedAt)
	w.Append("updatedAt", b.UpdatedAt)
	return w
}

// tail ends the JSON object of an asset with its transactions.
func (b Base) tail(w *jsonObjectWriter) ([]byte, error) {
	if len(b.Transactions) > 0 {
		w.Append("transactions", b.Transactions)
	}
	return w.MarshalJSON()
}

// MarshalJSON implements the json.Marshaler interface for Stock.
func (s Stock) MarshalJSON() ([]byte, error) {
	w := s.head(s.Kind())
	w.Append("ticker", s.Ticker)
	w.Optional("exchange", s.Exchange)
	w.Optional("sector", s.Sector)
	w.Optional("format", s.Format)
	w.Amount("quantity", s.Quantity.Decimal())
	w.Amount("purchasePrice", s.PurchasePrice.Decimal())
	return s.tail(w)
}

// MarshalJSON implements the json.Marshaler interface for Crypto.
func (c Crypto) MarshalJSON() ([]byte, error) {
	w := c.head(c.Kind())
	w.Append("symbol", c.Symbol)
	w.Amount("quantity", c.Quantity.Decimal())
	w.Amount("purchasePrice", c.PurchasePrice.Decimal())
	return c.tail(w)
}

// MarshalJSON implements the json.Marshaler interface for PreciousMetal.
func (m PreciousMetal) MarshalJSON() ([]byte, error) {
	w := m.head(m.Kind())
	w.Append("metal", m.Metal)
	w.Optional("format", m.Format)
	w.Optional("unit", m.Unit)
	w.Amount("quantity", m.Quantity.Decimal())
	w.Amount("purchasePrice", m.PurchasePrice.Decimal())
	return m.tail(w)
}

// MarshalJSON implements the json.Marshaler interface for Bond.
func (b Bond) MarshalJSON() ([]byte, error) {
	w := b.head(b.Kind())
	w.Optional("issuer", b.Issuer)
	w.Optional("couponRate", b.CouponRate)
	w.Optional("maturity", b.Maturity)
	w.Amount("amount", b.Amount.Decimal())
	return b.tail(w)
}

// MarshalJSON implements the json.Marshaler interface for Deposit.
func (d Deposit) MarshalJSON() ([]byte, error) {
	w := d.head(d.Kind())
	w.Optional("bank", d.Bank)
	w.Optional("interestRate", d.InterestRate)
	w.Optional("maturity", d.Maturity)
	w.Amount("amount", d.Amount.Decimal())
	return d.tail(w)
}

// MarshalJSON implements the json.Marshaler interface for PrivateInvestment.
func (p PrivateInvestment) MarshalJSON() ([]byte, error) {
	w := p.head(p.Kind())
	w.Optional("company", p.Company)
	w.Optional("stage", p.Stage)
	w.Amount("amount", p.Amount.Decimal())
	return p.tail(w)
}

// MarshalJSON implements the json.Marshaler interface for Cash.
func (c Cash) MarshalJSON() ([]byte, error) {
	w := c.head(c.Kind())
	w.Optional("institution", c.Institution)
	w.Amount("amount", c.Amount.Decimal())
	return c.tail(w)
}

// MarshalJSON implements the json.Marshaler interface for RealEstate.
func (r RealEstate) MarshalJSON() ([]byte, error) {
	w := r.head(r.Kind())
	w.Optional("address", r.Address)
	w.Optional("propertyType", r.PropertyType)
	w.Amount("estimatedValue", r.EstimatedValue.Decimal())
	return r.tail(w)
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("type", t.Type)
	w.Append("date", t.Date)
	w.Append("amount", t.Amount.Decimal())
	w.Amount("quantity", t.Quantity.Decimal())
	w.Amount("pricePerUnit", t.PricePerUnit.Decimal())
	w.Optional("note", t.Note)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Transaction.
// Amounts have no currency until the owning asset labels them.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID           string          `json:"id"`
		Type         TxType          `json:"type"`
		Date         date.Date       `json:"date"`
		Amount       decimal.Decimal `json:"amount"`
		Quantity     Quantity        `json:"quantity"`
		PricePerUnit decimal.Decimal `json:"pricePerUnit"`
		Note         string          `json:"note"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = Transaction{
		ID:           temp.ID,
		Type:         temp.Type,
		Date:         temp.Date,
		Amount:       M(temp.Amount, ""),
		Quantity:     temp.Quantity,
		PricePerUnit: M(temp.PricePerUnit, ""),
		Note:         temp.Note,
	}
	return nil
}

// jbase is used to decode the common fields of an asset.
type jbase struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Currency     string        `json:"currency"`
	Country      string        `json:"country"`
	Notes        string        `json:"notes"`
	PurchaseDate date.Date     `json:"purchaseDate"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	Transactions []Transaction `json:"transactions"`
}

func (j jbase) base() Base {
	var txs []Transaction
	if len(j.Transactions) > 0 {
		txs = make([]Transaction, len(j.Transactions))
		for i, tx := range j.Transactions {
			tx.Amount = tx.Amount.In(j.Currency)
			tx.PricePerUnit = tx.PricePerUnit.In(j.Currency)
			txs[i] = tx
		}
	}
	return Base{
		ID:           j.ID,
		Name:         j.Name,
		Currency:     j.Currency,
		Country:      j.Country,
		Notes:        j.Notes,
		PurchaseDate: j.PurchaseDate,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
		Transactions: txs,
	}
}

// position is used to decode the legacy fields of quantity based assets.
type position struct {
	Quantity      Quantity        `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
}

// UnmarshalAsset decodes a single asset from its JSON object.
func UnmarshalAsset(data []byte) (Asset, error) {
	var identifier struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &identifier); err != nil {
		return nil, fmt.Errorf("could not identify asset type in %q: %w", string(data), err)
	}

	switch identifier.Type {
	case KindStock:
		var temp struct {
			jbase
			position
			Ticker   string      `json:"ticker"`
			Exchange string      `json:"exchange"`
			Sector   string      `json:"sector"`
			Format   StockFormat `json:"format"`
		}
		if err := json.Unmarshal(data, &temp); err != nil {
			return nil, err
		}
		return Stock{
			Base:          temp.base(),
			Ticker:        temp.Ticker,
			Exchange:      temp.Exchange,
			Sector:        temp.Sector,
			Format:        temp.Format,
			Quantity:      temp.Quantity,
			PurchasePrice: M(temp.PurchasePrice, temp.Currency),
		}, nil
	case KindCrypto:
		var temp struct {
			jbase
			position
			Symbol string `json:"symbol"`
		}
		if err := json.Unmarshal(data, &temp); err != nil {
			return nil, err
		}
		return Crypto{
			Base:          temp.base(),
			Symbol:        temp.Symbol,
			Quantity:      temp.Quantity,
			PurchasePrice: M(temp.PurchasePrice, temp.Currency),
		}, nil
	case KindPreciousMetal:
		var temp struct {
			jbase
			position
			Metal  string      `json:"metal"`
			Format MetalFormat `json:"format"`
			Unit   string      `json:"unit"`
		}
		if err := json.Unmarshal(data, &temp); err != nil {
			return nil, err
		}
		return PreciousMetal{
			Base:          temp.base(),
			Metal:         temp.Metal,
			Format:        temp.Format,
			Unit:          temp.Unit,
			Quantity:      temp.Quantity,
			PurchasePrice: M(temp.PurchasePrice, temp.Currency),
		}, nil
	case KindBond:
		var temp struct {
			jbase
			Issuer     string          `json:"issuer"`
			CouponRate Percent         `json:"couponRate"`
			Maturity   date.Date       `json:"maturity"`
			Amount     decimal.Decimal `json:"amount"`
		}
		if err := json.Unmarshal(data, &temp); err != nil {
			return nil, err
		}
		return Bond{
			Base:       temp.base(),
			Issuer:     temp.Issuer,
			CouponRate: temp.CouponRate,
			Maturity:   temp.Maturity,
			Amount:     M(temp.Amount, temp.Currency),
		}, nil
	case KindDeposit:
		var temp struct {
			jbase
			Bank         string          `json:"bank"`
			InterestRate Percent         `json:"interestRate"`
			Maturity     date.Date       `json:"maturity"`
			Amount       decimal.Decimal `json:"amount"`
		}
		if err := json.Unmarshal(data, &temp); err != nil {
			return nil, err
		}
		return Deposit{
			Base:         temp.base(),
			Bank:         temp.Bank,
			InterestRate: temp.InterestRate,
			Maturity:     temp.Maturity,
			Amount:       M(temp.Amount, temp.Currency),
		}, nil
	case KindPrivateInvestment:
		var temp struct {
			jbase
			Company string          `json:"company"`
			Stage   string          `json:"stage"`
			Amount  decimal.Decimal `json:"amount"`
		}
		if err := json.Unmarshal(data, &temp); err != nil {
			return nil, err
		}
		return PrivateInvestment{
			Base:    temp.base(),
			Company: temp.Company,
			Stage:   temp.Stage,
			Amount:  M(temp.Amount, temp.Currency),
		}, nil
	case KindCash:
		var temp struct {
			jbase
			Institution string          `json:"institution"`
			Amount      decimal.Decimal `json:"amount"`
		}
		if err := json.Unmarshal(data, &temp); err != nil {
			return nil, err
		}
		return Cash{
			Base:        temp.base(),
			Institution: temp.Institution,
			Amount:      M(temp.Amount, temp.Currency),
		}, nil
	case KindRealEstate:
		var temp struct {
			jbase
			Address        string          `json:"address"`
			PropertyType   string          `json:"propertyType"`
			EstimatedValue decimal.Decimal `json:"estimatedValue"`
		}
		if err := json.Unmarshal(data, &temp); err != nil {
			return nil, err
		}
		return RealEstate{
			Base:           temp.base(),
			Address:        temp.Address,
			PropertyType:   temp.PropertyType,
			EstimatedValue: M(temp.EstimatedValue, temp.Currency),
		}, nil
	default:
		return nil, fmt.Errorf("unknown asset type: %q", identifier.Type)
	}
}

// DecodeAssets reads assets from a stream of JSONL data, in order.
func DecodeAssets(r io.Reader) ([]Asset, error) {
	var assets []Asset
	scanner := bufio.NewScanner(r)
	// long ledgers make long lines.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}
		a, err := UnmarshalAsset(lineBytes)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		assets = append(assets, a)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return assets, nil
}

// EncodeAssets writes assets as JSONL, one asset per line, in order.
func EncodeAssets(w io.Writer, assets []Asset) error {
	for _, a := range assets {
		data, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("failed to marshal asset %q: %w", a.Common().ID, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write asset: %w", err)
		}
	}
	return nil
}
