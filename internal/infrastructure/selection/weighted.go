// Package selection implements the quote ranking strategies pluggable into
// the order book.
package selection

import (
	"github.com/shopspring/decimal"
	"github.com/zeta-network/zetad/internal/core/application"
	"github.com/zeta-network/zetad/internal/core/domain"
)

var tenThousands = decimal.NewFromInt(domain.BpsDenominator)

func init() {
	decimal.DivisionPrecision = 8
}

// WeightedStrategy ranks quotes by a weighted sum of the normalized fee,
// eta and registry risk score. The lowest score wins, ties break in favor
// of the earlier reveal.
type WeightedStrategy struct{}

// NewWeightedStrategy returns a new WeightedStrategy.
func NewWeightedStrategy() application.ScoringStrategy {
	return WeightedStrategy{}
}

func (WeightedStrategy) Best(
	quotes []domain.RevealedQuote,
	riskBps map[string]uint16,
	weights application.ScoreWeights,
) (string, error) {
	if len(quotes) == 0 {
		return "", application.ErrNoQuotes
	}

	maxFee := decimal.Zero
	maxEta := decimal.Zero
	for _, quote := range quotes {
		fee := decimal.NewFromInt(int64(quote.FeeTotal))
		eta := decimal.NewFromInt(int64(quote.EtaHours))
		if fee.GreaterThan(maxFee) {
			maxFee = fee
		}
		if eta.GreaterThan(maxEta) {
			maxEta = eta
		}
	}

	wPrice := decimal.NewFromInt(int64(weights.PriceBps)).Div(tenThousands)
	wEta := decimal.NewFromInt(int64(weights.EtaBps)).Div(tenThousands)
	wRisk := decimal.NewFromInt(int64(weights.RiskBps)).Div(tenThousands)

	best := ""
	bestScore := decimal.Zero
	for _, quote := range quotes {
		score := wPrice.Mul(normalize(int64(quote.FeeTotal), maxFee)).
			Add(wEta.Mul(normalize(int64(quote.EtaHours), maxEta))).
			Add(wRisk.Mul(
				decimal.NewFromInt(int64(riskBps[quote.Agent])).Div(tenThousands),
			))
		if best == "" || score.LessThan(bestScore) {
			best = quote.Agent
			bestScore = score
		}
	}
	return best, nil
}

func normalize(value int64, max decimal.Decimal) decimal.Decimal {
	if max.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromInt(value).Div(max)
}
