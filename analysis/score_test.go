package analysis

import (
	"testing"

	"github.com/etnz/wealth"
)

func TestDiversificationScore(t *testing.T) {
	testCases := []struct {
		name string
		pcts []float64
		want int
	}{
		{"empty", nil, 0},
		{"single group", []float64{100}, 15},
		{"even four groups", []float64{25, 25, 25, 25}, 95},
		{"even two groups", []float64{50, 50}, 95},
		{"concentrated two groups", []float64{90, 10}, 41},
		{"fully concentrated among many", []float64{100, 0, 0}, 10},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DiversificationScore(tc.pcts); got != tc.want {
				t.Errorf("DiversificationScore(%v) = %d, want %d", tc.pcts, got, tc.want)
			}
		})
	}
}

func TestDiversificationScore_Range(t *testing.T) {
	for n := 2; n < 12; n++ {
		for lead := 0.0; lead <= 100; lead += 5 {
			pcts := make([]float64, n)
			pcts[0] = lead
			for i := 1; i < n; i++ {
				pcts[i] = (100 - lead) / float64(n-1)
			}
			if got := DiversificationScore(pcts); got < 5 || got > 95 {
				t.Errorf("DiversificationScore(%v) = %d, out of [5, 95]", pcts, got)
			}
		}
	}
}

func TestLiquidityScore(t *testing.T) {
	item := func(a wealth.Asset, v float64) Item { return Item{Asset: a, Value: wealth.M(v, "EUR")} }
	testCases := []struct {
		name  string
		items []Item
		want  int
	}{
		{"empty", nil, 0},
		{"cash only", []Item{item(wealth.Cash{}, 100)}, 98},
		{"etf override", []Item{item(wealth.Stock{Format: wealth.FormatETF}, 100)}, 92},
		{"physical metal override", []Item{item(wealth.PreciousMetal{Format: wealth.Physical}, 100)}, 35},
		{"etf metal", []Item{item(wealth.PreciousMetal{Format: wealth.MetalETF}, 100)}, 75},
		{"value weighted", []Item{item(wealth.Cash{}, 100), item(wealth.RealEstate{}, 300)}, 38}, // (98*100+18*300)/400 = 38
		{"zero value", []Item{item(wealth.Cash{}, 0)}, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := LiquidityScore(tc.items); got != tc.want {
				t.Errorf("LiquidityScore() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	testCases := []struct {
		scores     []int
		wantHealth int
		wantRisk   RiskLevel
	}{
		{[]int{95, 95, 95, 98}, 96, LowRisk},
		{[]int{70, 70, 70, 70}, 70, LowRisk},
		{[]int{15, 15, 15, 98}, 36, HighRisk},
		{[]int{40, 40, 40, 39}, 40, ModerateRisk},
		{[]int{0, 0, 0, 0}, 0, HighRisk},
	}
	for _, tc := range testCases {
		health, risk := Health(tc.scores...)
		if health != tc.wantHealth || risk != tc.wantRisk {
			t.Errorf("Health(%v) = %d, %s want %d, %s", tc.scores, health, risk, tc.wantHealth, tc.wantRisk)
		}
	}
}
