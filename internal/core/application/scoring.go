package application

import "github.com/zeta-network/zetad/internal/core/domain"

// ScoreWeights are the policy-configured weights of the auto-select scoring
// strategy, in basis points.
type ScoreWeights struct {
	PriceBps uint16
	EtaBps   uint16
	RiskBps  uint16
}

// ScoringStrategy ranks the revealed quotes of an order. Implementations
// must be deterministic and must break ties by the order the quotes are
// given in (reveal sequence).
type ScoringStrategy interface {
	// Best returns the agent of the winning quote. riskBps maps each agent
	// to its registry risk score.
	Best(
		quotes []domain.RevealedQuote,
		riskBps map[string]uint16,
		weights ScoreWeights,
	) (string, error)
}
