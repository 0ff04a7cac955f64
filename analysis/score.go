package analysis

import (
	"math"

	"github.com/etnz/wealth"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DiversificationScore converts the percentages of a breakdown into a
// concentration based score in [5, 95], 0 for an empty breakdown.
//
// A single group scores 15. Otherwise the Herfindahl-Hirschman index of the
// shares is normalized between 1/n (even spread) and 1 (concentrated) and
// mapped onto [10, 95].
func DiversificationScore(pcts []float64) int {
	n := len(pcts)
	switch n {
	case 0:
		return 0
	case 1:
		return 15
	}
	shares := make([]float64, n)
	floats.ScaleTo(shares, 0.01, pcts)
	hhi := floats.Dot(shares, shares)

	minHHI, maxHHI := 1/float64(n), 1.0
	normalized := (maxHHI - hhi) / (maxHHI - minHHI)
	normalized = math.Max(0, math.Min(1, normalized))
	score := int(math.Round(normalized*85 + 10))
	return max(5, min(95, score))
}

// Liquidity weights, 0 to 100, by asset kind.
var liquidityWeights = map[wealth.Kind]float64{
	wealth.KindCash:              98,
	wealth.KindStock:             90,
	wealth.KindCrypto:            80,
	wealth.KindPreciousMetal:     75,
	wealth.KindDeposit:           70,
	wealth.KindBond:              65,
	wealth.KindPrivateInvestment: 15,
	wealth.KindRealEstate:        18,
}

const (
	etfLiquidity           = 92
	physicalMetalLiquidity = 35
)

// LiquidityWeight returns how fast the asset can be turned into cash, from 0 to 100.
func LiquidityWeight(a wealth.Asset) float64 {
	switch v := a.(type) {
	case wealth.Stock:
		if v.Format == wealth.FormatETF {
			return etfLiquidity
		}
	case wealth.PreciousMetal:
		if v.Format == wealth.Physical {
			return physicalMetalLiquidity
		}
	}
	return liquidityWeights[a.Kind()]
}

// LiquidityScore returns the value weighted average of the liquidity weights
// of the items, 0 when there is no value.
func LiquidityScore(items []Item) int {
	weights := make([]float64, len(items))
	values := make([]float64, len(items))
	for i, it := range items {
		weights[i] = LiquidityWeight(it.Asset)
		values[i] = it.Value.AsFloat()
	}
	total := floats.Sum(values)
	if total <= 0 {
		return 0
	}
	return int(math.Round(floats.Dot(weights, values) / total))
}

// RiskLevel labels the health score: a higher score is a lower risk.
type RiskLevel string

const (
	LowRisk      RiskLevel = "low"
	ModerateRisk RiskLevel = "moderate"
	HighRisk     RiskLevel = "high"
)

// Health returns the unweighted mean of the scores and its risk level.
func Health(scores ...int) (int, RiskLevel) {
	if len(scores) == 0 {
		return 0, HighRisk
	}
	values := make([]float64, len(scores))
	for i, s := range scores {
		values[i] = float64(s)
	}
	health := int(math.Round(stat.Mean(values, nil)))
	return health, Risk(health)
}

// Risk returns the risk level of a health score.
func Risk(health int) RiskLevel {
	switch {
	case health >= 70:
		return LowRisk
	case health >= 40:
		return ModerateRisk
	default:
		return HighRisk
	}
}
