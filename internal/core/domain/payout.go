package domain

import "context"

// Payout kinds.
const (
	PayoutKindAgentDue = iota
	PayoutKindTreasury
	PayoutKindHoldback
	PayoutKindRefund
	PayoutKindSlashUser
	PayoutKindSlashTreasury
)

// Payout is an append-only record of a single fund movement out of the
// vault. The sum of payouts is the audit trail for the no-fund-loss
// invariant.
type Payout struct {
	OrderId uint64
	To      string
	Amount  uint64
	Kind    int
	At      int64
}

// KindString returns the label carried on emitted events.
func (p Payout) KindString() string {
	switch p.Kind {
	case PayoutKindAgentDue:
		return "agent_due"
	case PayoutKindTreasury:
		return "treasury"
	case PayoutKindHoldback:
		return "holdback"
	case PayoutKindRefund:
		return "refund"
	case PayoutKindSlashUser:
		return "slash_user"
	case PayoutKindSlashTreasury:
		return "slash_treasury"
	default:
		return "unknown"
	}
}

// PayoutRepository is the abstraction for any kind of database intended to
// persist Payout records.
type PayoutRepository interface {
	// AddPayouts appends the given payout records.
	AddPayouts(ctx context.Context, payouts []Payout) error
	// GetPayoutsForOrder returns the payouts recorded for an order.
	GetPayoutsForOrder(ctx context.Context, orderId uint64) ([]Payout, error)
}
