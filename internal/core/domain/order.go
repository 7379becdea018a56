package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// QuoteCommit is an agent's sealed bid for an order. A later commit from the
// same agent overwrites the prior one until revealed.
type QuoteCommit struct {
	CommitHash  string
	Ttl         int64
	CommittedAt int64
	Revealed    bool
}

// RevealedQuote holds the plaintext terms of a revealed bid. Immutable once
// stored.
type RevealedQuote struct {
	Agent        string
	FeeTotal     uint64
	HoldbackBps  uint16
	MicrobondBps uint16
	EtaHours     uint32
	RevealedAt   int64
}

// Selection records the agent picked by auto-selection for an order.
type Selection struct {
	Agent      string
	SelectedAt int64
}

// Order is the data structure representing a shipment order intent and its
// auction state. All fields but the auction state are immutable after
// creation.
type Order struct {
	Id          uint64
	User        string
	Token       string
	MaxTotal    uint64
	OriginId    string
	DestRegion  string
	CommodityId string
	Qty         uint64
	CreatedAt   int64
	Expiry      int64
	StatusCode  int

	Commits     map[string]*QuoteCommit
	Reveals     map[string]*RevealedQuote
	RevealOrder []string
	Selection   *Selection
	// Agents that were selected but failed to acknowledge in time. They are
	// excluded from reselection.
	PassedOver map[string]bool

	AcceptedQuote *RevealedQuote
	AcceptedAt    int64
	FundedAt      int64
	CompletedAt   int64
	CancelledAt   int64
}

// NewOrderIntent returns a Created order for the given buyer. The id is
// assigned by the repository on insertion.
func NewOrderIntent(
	user, token string, maxTotal uint64,
	originId, destRegion, commodityId string, qty uint64,
	expiry, now int64,
) (*Order, error) {
	if expiry <= now {
		return nil, ErrWindowExpired
	}
	if maxTotal == 0 || qty == 0 {
		return nil, ErrAmountMismatch
	}
	return &Order{
		User:        user,
		Token:       token,
		MaxTotal:    maxTotal,
		OriginId:    originId,
		DestRegion:  destRegion,
		CommodityId: commodityId,
		Qty:         qty,
		CreatedAt:   now,
		Expiry:      expiry,
		StatusCode:  OrderStatusCodeCreated,
		Commits:     map[string]*QuoteCommit{},
		Reveals:     map[string]*RevealedQuote{},
		PassedOver:  map[string]bool{},
	}, nil
}

// CommitQuote stores the agent's sealed bid, overwriting any prior
// unrevealed commit from the same agent. A revealed commit is final: the
// agent cannot re-enter the auction after disclosing its terms.
func (o *Order) CommitQuote(agent, commitHash string, ttl, now int64) error {
	if !o.isQuotingOpen() {
		return ErrInvalidState
	}
	if prior, ok := o.Commits[agent]; ok && prior.Revealed {
		return ErrInvalidState
	}
	if now >= o.Expiry {
		return ErrWindowExpired
	}
	o.Commits[agent] = &QuoteCommit{
		CommitHash:  commitHash,
		Ttl:         ttl,
		CommittedAt: now,
	}
	return nil
}

// RevealQuote checks the plaintext terms against the stored commitment and
// stores the revealed quote. A commit can be revealed at most once.
func (o *Order) RevealQuote(
	agent string, feeTotal uint64, holdbackBps, microbondBps uint16,
	etaHours uint32, salt []byte, now int64,
) error {
	if !o.isQuotingOpen() {
		return ErrInvalidState
	}
	commit, ok := o.Commits[agent]
	if !ok || commit.Revealed {
		return ErrInvalidState
	}
	if now > commit.Ttl {
		return ErrCommitExpired
	}
	hash := ComputeQuoteCommitment(
		o.Id, feeTotal, holdbackBps, microbondBps, etaHours, salt,
	)
	if hash != commit.CommitHash {
		return ErrCommitMismatch
	}
	if feeTotal == 0 || feeTotal > o.MaxTotal {
		return ErrAmountMismatch
	}
	if holdbackBps > BpsDenominator || microbondBps > BpsDenominator {
		return ErrInvalidBps
	}
	commit.Revealed = true
	o.Reveals[agent] = &RevealedQuote{
		Agent:        agent,
		FeeTotal:     feeTotal,
		HoldbackBps:  holdbackBps,
		MicrobondBps: microbondBps,
		EtaHours:     etaHours,
		RevealedAt:   now,
	}
	o.RevealOrder = append(o.RevealOrder, agent)
	return nil
}

// EligibleQuotes returns the revealed quotes still in the running, in reveal
// order. Quotes from passed-over agents are excluded.
func (o *Order) EligibleQuotes() []RevealedQuote {
	quotes := make([]RevealedQuote, 0, len(o.RevealOrder))
	for _, agent := range o.RevealOrder {
		if o.PassedOver[agent] {
			continue
		}
		if quote, ok := o.Reveals[agent]; ok {
			quotes = append(quotes, *quote)
		}
	}
	return quotes
}

// Select records the winning agent and moves the order to Selected.
func (o *Order) Select(agent string, now int64) error {
	if o.StatusCode != OrderStatusCodeCreated {
		return ErrInvalidState
	}
	if _, ok := o.Reveals[agent]; !ok {
		return ErrInvalidState
	}
	o.Selection = &Selection{Agent: agent, SelectedAt: now}
	o.StatusCode = OrderStatusCodeSelected
	return nil
}

// SelectionExpired returns whether the current selection has outlived the
// acknowledgement window. The boundary instant itself is still valid.
func (o *Order) SelectionExpired(ackWindowSec, now int64) bool {
	return o.Selection != nil && now > o.Selection.SelectedAt+ackWindowSec
}

// PassOverSelection drops an expired selection, excluding the agent from
// reselection, and moves the order back to Created.
func (o *Order) PassOverSelection() error {
	if o.StatusCode != OrderStatusCodeSelected || o.Selection == nil {
		return ErrInvalidState
	}
	o.PassedOver[o.Selection.Agent] = true
	o.Selection = nil
	o.StatusCode = OrderStatusCodeCreated
	return nil
}

// Ack is the selected agent's acknowledgement within the ack window. The
// window edge is inclusive.
func (o *Order) Ack(agent string, ackWindowSec, now int64) error {
	if o.StatusCode != OrderStatusCodeSelected || o.Selection == nil {
		return ErrInvalidState
	}
	if o.Selection.Agent != agent {
		return ErrUnauthorized
	}
	if now > o.Selection.SelectedAt+ackWindowSec {
		return ErrWindowExpired
	}
	quote := o.Reveals[agent]
	o.AcceptedQuote = quote
	o.AcceptedAt = now
	o.StatusCode = OrderStatusCodeAccepted
	return nil
}

// Fund records the buyer's deposit. The amount must equal the accepted fee.
func (o *Order) Fund(amount uint64, now int64) error {
	if o.StatusCode != OrderStatusCodeAccepted {
		return ErrInvalidState
	}
	if amount != o.AcceptedQuote.FeeTotal {
		return ErrAmountMismatch
	}
	o.FundedAt = now
	o.StatusCode = OrderStatusCodeFunded
	return nil
}

// Complete moves a funded order to Completed.
func (o *Order) Complete(now int64) error {
	if o.StatusCode != OrderStatusCodeFunded {
		return ErrInvalidState
	}
	o.CompletedAt = now
	o.StatusCode = OrderStatusCodeCompleted
	return nil
}

// Cancel terminates the order. Only reachable before acceptance.
func (o *Order) Cancel(now int64) error {
	if o.StatusCode != OrderStatusCodeCreated && o.StatusCode != OrderStatusCodeSelected {
		return ErrInvalidState
	}
	o.CancelledAt = now
	o.StatusCode = OrderStatusCodeCancelled
	return nil
}

// IsSelected returns whether the order is in Selected status.
func (o *Order) IsSelected() bool {
	return o.StatusCode == OrderStatusCodeSelected
}

// IsAccepted returns whether the order is in Accepted status.
func (o *Order) IsAccepted() bool {
	return o.StatusCode == OrderStatusCodeAccepted
}

// IsFunded returns whether the order is in Funded status.
func (o *Order) IsFunded() bool {
	return o.StatusCode == OrderStatusCodeFunded
}

// IsCompleted returns whether the order is in Completed status.
func (o *Order) IsCompleted() bool {
	return o.StatusCode == OrderStatusCodeCompleted
}

// IsCancelled returns whether the order is in Cancelled status.
func (o *Order) IsCancelled() bool {
	return o.StatusCode == OrderStatusCodeCancelled
}

// SelectedAgent returns the currently selected or accepted agent, if any.
func (o *Order) SelectedAgent() string {
	if o.AcceptedQuote != nil {
		return o.AcceptedQuote.Agent
	}
	if o.Selection != nil {
		return o.Selection.Agent
	}
	return ""
}

// isQuotingOpen reports whether commits and reveals are still accepted:
// before acceptance, quoting stays open even while a selection is pending.
func (o *Order) isQuotingOpen() bool {
	return o.StatusCode == OrderStatusCodeCreated ||
		o.StatusCode == OrderStatusCodeSelected
}

// StatusString returns the human readable status used on emitted events.
func (o *Order) StatusString() string {
	switch o.StatusCode {
	case OrderStatusCodeCreated:
		return "created"
	case OrderStatusCodeSelected:
		return "selected"
	case OrderStatusCodeAccepted:
		return "accepted"
	case OrderStatusCodeFunded:
		return "funded"
	case OrderStatusCodeCompleted:
		return "completed"
	case OrderStatusCodeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ComputeQuoteCommitment binds the quote terms and a secret salt to a single
// sha256 commitment over their fixed-width big-endian encoding.
func ComputeQuoteCommitment(
	orderId, feeTotal uint64, holdbackBps, microbondBps uint16,
	etaHours uint32, salt []byte,
) string {
	buf := make([]byte, 0, 8+8+2+2+4+SaltLen)
	buf = binary.BigEndian.AppendUint64(buf, orderId)
	buf = binary.BigEndian.AppendUint64(buf, feeTotal)
	buf = binary.BigEndian.AppendUint16(buf, holdbackBps)
	buf = binary.BigEndian.AppendUint16(buf, microbondBps)
	buf = binary.BigEndian.AppendUint32(buf, etaHours)
	buf = append(buf, salt...)
	hash := sha256.Sum256(buf)
	return hex.EncodeToString(hash[:])
}

// ParseSalt decodes and length-checks a hex encoded commitment salt.
func ParseSalt(saltHex string) ([]byte, error) {
	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) != SaltLen {
		return nil, ErrInvalidSalt
	}
	return salt, nil
}
