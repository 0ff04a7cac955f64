package renderer

import (
	"github.com/etnz/wealth"
	"github.com/etnz/wealth/analysis"
)

// Analysis is the diversification analysis of the held assets.
type Analysis struct {
	Currency string          `json:"currency"`
	Total    wealth.Money    `json:"total"`
	Holdings int             `json:"holdings"`
	Health   int             `json:"health"`
	Risk     string          `json:"risk"`
	Scores   []Score         `json:"scores"`
	Sections []ExposureTable `json:"sections"`
	Warnings []string        `json:"warnings,omitempty"`
}

// Score is a named 0-100 score.
type Score struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// ExposureTable is one breakdown of the total value.
type ExposureTable struct {
	Title string              `json:"title"`
	Rows  []analysis.Exposure `json:"rows"`
}

// NewAnalysis creates the analysis view of a report.
func NewAnalysis(r *analysis.Report) *Analysis {
	return &Analysis{
		Currency: r.Currency,
		Total:    r.Total,
		Holdings: len(r.Items) + len(r.Unconverted),
		Health:   r.Health,
		Risk:     string(r.Risk),
		Scores: []Score{
			{"Geography", r.GeographyScore},
			{"Currency", r.CurrencyScore},
			{"Sector", r.SectorScore},
			{"Liquidity", r.LiquidityScore},
		},
		Sections: []ExposureTable{
			{"Asset Classes", r.Classes},
			{"Geography", r.Geography},
			{"Currencies", r.Currencies},
			{"Sectors", r.Sectors},
		},
		Warnings: r.Warnings,
	}
}
