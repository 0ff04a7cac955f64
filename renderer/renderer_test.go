package renderer

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/analysis"
	"github.com/etnz/wealth/date"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// outline is the structure of a markdown document.
type outline struct {
	headings []string
	tables   []int // number of body rows of each table
}

// parse parses markdown with GitHub flavored extensions and returns its outline.
func parse(t *testing.T, src string) outline {
	t.Helper()
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	source := []byte(src)
	doc := md.Parser().Parse(text.NewReader(source))

	var o outline
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			o.headings = append(o.headings, plain(n, source))
			return ast.WalkSkipChildren, nil
		case *east.Table:
			rows := 0
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if _, ok := c.(*east.TableRow); ok {
					rows++
				}
			}
			o.tables = append(o.tables, rows)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("cannot walk markdown: %v", err)
	}
	return o
}

// plain returns the text content of n.
func plain(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
			continue
		}
		b.WriteString(plain(c, source))
	}
	return b.String()
}

func base(id, currency, country string) wealth.Base {
	return wealth.Base{ID: id, Name: id, Currency: currency, Country: country, CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func report(t *testing.T) *analysis.Report {
	t.Helper()
	assets := []wealth.Asset{
		wealth.Stock{Base: base("Air Liquide", "EUR", "FR"), Ticker: "AI.PA", Sector: "Materials", Quantity: wealth.Q(10), PurchasePrice: wealth.M(150, "EUR")},
		wealth.Cash{Base: base("Wallet", "EUR", "FR"), Amount: wealth.M(2000, "EUR")},
		wealth.Deposit{Base: base("Savings | blue", "EUR", "DE"), Bank: "Bank", Amount: wealth.M(1000, "EUR")},
		wealth.Cash{Base: base("Dollars", "USD", "US"), Amount: wealth.M(100, "USD")},
	}
	prices := wealth.Prices{"AI.PA": {Price: decimal.NewFromInt(180), Currency: "EUR"}}
	r, err := analysis.Analyze(context.Background(), assets, prices, nil, "EUR")
	if err != nil {
		t.Fatalf("Analyze() unexpected error: %v", err)
	}
	return r
}

func TestRenderHoldings(t *testing.T) {
	h := NewHoldings(date.New(2025, time.June, 1), report(t))
	if len(h.Rows) != 4 {
		t.Fatalf("len(Rows) = %d, want 4", len(h.Rows))
	}
	stock := h.Rows[0]
	if !stock.Live || !stock.Price.Equal(wealth.M(180, "EUR")) {
		t.Errorf("stock row = %+v, want a live price of 180 EUR", stock)
	}
	// bought 10 at 150, worth 10 at 180.
	if !stock.Gain.Equal(wealth.M(300, "EUR")) {
		t.Errorf("stock gain = %v, want 300 EUR", stock.Gain)
	}
	if dollars := h.Rows[3]; !dollars.Converted.IsZero() || dollars.Weight != 0 {
		t.Errorf("unconverted row = %+v, want no converted value nor weight", dollars)
	}
	// 10 x 180 + 2000 + 1000, the dollars are not counted.
	if want := wealth.M(4800, "EUR"); !h.Total.Equal(want) {
		t.Errorf("Total = %v, want %v", h.Total, want)
	}

	got := RenderHoldings(h)
	o := parse(t, got)
	if want := []string{"Holdings on 2025-06-01", "Warnings"}; !slices.Equal(o.headings, want) {
		t.Errorf("headings = %q, want %q", o.headings, want)
	}
	if want := []int{4}; !slices.Equal(o.tables, want) {
		t.Errorf("tables = %v, want %v\n%s", o.tables, want, got)
	}
	if !strings.Contains(got, `Savings \| blue`) {
		t.Errorf("pipe in names must be escaped:\n%s", got)
	}
	if !strings.Contains(got, "Air Liquide (AI.PA)") {
		t.Errorf("missing market symbol:\n%s", got)
	}
}

func TestRenderHoldings_Empty(t *testing.T) {
	r, err := analysis.Analyze(context.Background(), nil, nil, nil, "EUR")
	if err != nil {
		t.Fatalf("Analyze() unexpected error: %v", err)
	}
	got := RenderHoldings(NewHoldings(date.New(2025, time.June, 1), r))
	o := parse(t, got)
	if len(o.tables) != 0 {
		t.Errorf("tables = %v, want none", o.tables)
	}
	if !strings.Contains(got, "No asset held.") {
		t.Errorf("RenderHoldings() =\n%s\nwant the empty message", got)
	}
}

func TestRenderTransactions(t *testing.T) {
	jan, feb := date.New(2025, time.January, 10), date.New(2025, time.February, 10)
	a := wealth.Stock{Base: base("Apple", "USD", "US"), Ticker: "AAPL"}
	var asset wealth.Asset = a
	asset = wealth.AppendTransaction(asset, wealth.NewBuy(jan, wealth.M(1000, "USD"), wealth.Q(10), wealth.M(100, "USD"), ""), time.Now())
	asset = wealth.AppendTransaction(asset, wealth.NewSell(feb, wealth.M(600, "USD"), wealth.Q(5), wealth.M(120, "USD"), "take profit"), time.Now())

	v := NewTransactions(asset, wealth.Transactions(asset))
	if v.Strategy != "recorded" {
		t.Errorf("Strategy = %q, want recorded", v.Strategy)
	}
	if !v.NetQuantity.Equal(wealth.Q(5)) {
		t.Errorf("NetQuantity = %v, want 5", v.NetQuantity)
	}
	// the synthesized initial purchase is kept in front of the recorded ones.
	if len(v.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, want 3", len(v.Rows))
	}
	if v.Rows[0].Date != feb.String() {
		t.Errorf("first row date = %s, want newest first %s", v.Rows[0].Date, feb)
	}

	got := RenderTransactions(v)
	o := parse(t, got)
	if want := []string{"Apple", "Transactions"}; !slices.Equal(o.headings, want) {
		t.Errorf("headings = %q, want %q", o.headings, want)
	}
	// summary: class, ledger, net quantity, avg price, invested, proceeds, status.
	if want := []int{7, 3}; !slices.Equal(o.tables, want) {
		t.Errorf("tables = %v, want %v\n%s", o.tables, want, got)
	}
	if !strings.Contains(got, "take profit") {
		t.Errorf("missing note:\n%s", got)
	}
}

func TestRenderTransactions_Legacy(t *testing.T) {
	a := wealth.Deposit{Base: base("Livret", "EUR", "FR"), Amount: wealth.M(5000, "EUR")}
	got := RenderTransactions(NewTransactions(a, wealth.Transactions(a)))
	o := parse(t, got)
	// summary: class, ledger, net amount, invested, proceeds, status.
	if want := []int{6, 1}; !slices.Equal(o.tables, want) {
		t.Errorf("tables = %v, want %v\n%s", o.tables, want, got)
	}
	if !strings.Contains(got, "legacy") || !strings.Contains(got, wealth.InitialNote) {
		t.Errorf("RenderTransactions() =\n%s\nwant the synthesized initial purchase", got)
	}
}

func TestRenderAnalysis(t *testing.T) {
	r := report(t)
	got := RenderAnalysis(NewAnalysis(r))
	o := parse(t, got)

	wantHeadings := []string{
		"Portfolio Analysis",
		"Health: " + strconv.Itoa(r.Health) + "/100 (" + string(r.Risk) + " risk)",
		"Asset Classes", "Geography", "Currencies", "Sectors",
		"Warnings",
	}
	if !slices.Equal(o.headings, wantHeadings) {
		t.Errorf("headings = %q, want %q", o.headings, wantHeadings)
	}
	wantTables := []int{4, len(r.Classes), len(r.Geography), len(r.Currencies), len(r.Sectors)}
	if !slices.Equal(o.tables, wantTables) {
		t.Errorf("tables = %v, want %v\n%s", o.tables, wantTables, got)
	}
}

func TestConditionalBlock(t *testing.T) {
	var b bytes.Buffer
	ConditionalBlock(&b, func(w io.Writer) bool { io.WriteString(w, "dropped"); return false })
	ConditionalBlock(&b, func(w io.Writer) bool { io.WriteString(w, "kept"); return true })
	if got := b.String(); got != "kept" {
		t.Errorf("ConditionalBlock() wrote %q, want %q", got, "kept")
	}
}

func TestTerminal(t *testing.T) {
	got, err := Terminal("# Title\n\nsome *text*\n", 40)
	if err != nil {
		t.Fatalf("Terminal() unexpected error: %v", err)
	}
	if !strings.Contains(got, "Title") {
		t.Errorf("Terminal() = %q, want the title", got)
	}
}

func TestPricesMarkdown(t *testing.T) {
	prices := wealth.Prices{
		"AAPL": {Price: decimal.RequireFromString("201.5"), Currency: "USD"},
		"GC=F": {Price: decimal.NewFromInt(2400), Currency: "USD"},
	}
	got := PricesMarkdown([]string{"AAPL", "GC=F", "ZZZ"}, prices)
	o := parse(t, got)
	if want := []string{"Market Prices", "Missing"}; !slices.Equal(o.headings, want) {
		t.Errorf("headings = %q, want %q", o.headings, want)
	}
	if want := []int{2}; !slices.Equal(o.tables, want) {
		t.Errorf("tables = %v, want %v\n%s", o.tables, want, got)
	}
	if !strings.Contains(got, "| AAPL | 201.5 | USD |") {
		t.Errorf("PricesMarkdown() =\n%s\nwant the AAPL quote", got)
	}

	all := PricesMarkdown([]string{"AAPL"}, prices)
	if strings.Contains(all, "Missing") {
		t.Errorf("PricesMarkdown() =\n%s\nwant no missing section", all)
	}
}

func TestAssetsMarkdown(t *testing.T) {
	sold := wealth.AppendTransaction(
		wealth.RealEstate{Base: base("Flat", "EUR", "FR"), EstimatedValue: wealth.M(200000, "EUR")},
		wealth.NewSell(date.New(2025, time.May, 1), wealth.M(250000, "EUR"), wealth.Quantity{}, wealth.Money{}, ""),
		time.Now(),
	)
	assets := []wealth.Asset{
		wealth.Cash{Base: base("Wallet", "EUR", "FR"), Amount: wealth.M(10, "EUR")},
		sold,
	}
	got := AssetsMarkdown(assets)
	o := parse(t, got)
	if want := []int{2}; !slices.Equal(o.tables, want) {
		t.Errorf("tables = %v, want %v\n%s", o.tables, want, got)
	}
	if !strings.Contains(got, "| Flat | Flat | Real Estate | EUR | 2 | sold |") {
		t.Errorf("AssetsMarkdown() =\n%s\nwant the sold flat", got)
	}
	if !strings.Contains(got, "| legacy | held |") {
		t.Errorf("AssetsMarkdown() =\n%s\nwant the legacy wallet", got)
	}
	if empty := AssetsMarkdown(nil); !strings.Contains(empty, "No asset yet.") {
		t.Errorf("AssetsMarkdown(nil) = %q", empty)
	}
}
