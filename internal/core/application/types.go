package application

import "github.com/zeta-network/zetad/internal/core/domain"

// OrderIntent carries the buyer supplied fields of a new order.
type OrderIntent struct {
	Token       string
	MaxTotal    uint64
	OriginId    string
	DestRegion  string
	CommodityId string
	Qty         uint64
	Expiry      int64
}

// OrderInfo is the read model of an order served to callers and carried on
// events. Sealed commitments are exposed only as their hashes.
type OrderInfo struct {
	Id            uint64
	User          string
	Token         string
	MaxTotal      uint64
	OriginId      string
	DestRegion    string
	CommodityId   string
	Qty           uint64
	CreatedAt     int64
	Expiry        int64
	Status        string
	SelectedAgent string
	RevealedQuotes []domain.RevealedQuote
	AcceptedQuote  *domain.RevealedQuote
}

// AgentInfo is the read model of an agent listing and its bond.
type AgentInfo struct {
	Address        string
	Whitelisted    bool
	RiskScoreBps   uint16
	FeeScheduleCid string
	StandingBond   uint64
	LockedBond     uint64
}

// EscrowInfo is the read model of an escrow lock.
type EscrowInfo struct {
	OrderId        uint64
	User           string
	Agent          string
	FeeTotal       uint64
	AgentDue       uint64
	Holdback       uint64
	Microbond      uint64
	TreasuryAmount uint64
	UserLock       uint64
	PaidMain       bool
	HoldReleased   bool
}

// DisputeInfo is the read model of a dispute record.
type DisputeInfo struct {
	OrderId uint64
	State   string
	PoDs    []domain.Evidence
	Claims  []domain.Evidence
	Upheld  bool
}

func orderInfo(o *domain.Order) OrderInfo {
	quotes := make([]domain.RevealedQuote, 0, len(o.RevealOrder))
	for _, agent := range o.RevealOrder {
		if quote, ok := o.Reveals[agent]; ok {
			quotes = append(quotes, *quote)
		}
	}
	return OrderInfo{
		Id:             o.Id,
		User:           o.User,
		Token:          o.Token,
		MaxTotal:       o.MaxTotal,
		OriginId:       o.OriginId,
		DestRegion:     o.DestRegion,
		CommodityId:    o.CommodityId,
		Qty:            o.Qty,
		CreatedAt:      o.CreatedAt,
		Expiry:         o.Expiry,
		Status:         o.StatusString(),
		SelectedAgent:  o.SelectedAgent(),
		RevealedQuotes: quotes,
		AcceptedQuote:  o.AcceptedQuote,
	}
}

func escrowInfo(l *domain.EscrowLock) EscrowInfo {
	return EscrowInfo{
		OrderId:        l.OrderId,
		User:           l.User,
		Agent:          l.Agent,
		FeeTotal:       l.FeeTotal,
		AgentDue:       l.AgentDue,
		Holdback:       l.Holdback,
		Microbond:      l.Microbond,
		TreasuryAmount: l.TreasuryAmount,
		UserLock:       l.UserLock,
		PaidMain:       l.PaidMain,
		HoldReleased:   l.HoldReleased,
	}
}

func disputeInfo(d *domain.Dispute) DisputeInfo {
	return DisputeInfo{
		OrderId: d.OrderId,
		State:   d.StateString(),
		PoDs:    d.PoDs,
		Claims:  d.Claims,
		Upheld:  d.Upheld,
	}
}
