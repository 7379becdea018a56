package domain

// EscrowLock is the vault's bookkeeping for a single accepted order: the
// buyer deposit, the fee split and the one-way payout latches.
type EscrowLock struct {
	OrderId        uint64
	User           string
	Agent          string
	FeeTotal       uint64
	AgentDue       uint64
	Holdback       uint64
	Microbond      uint64
	TreasuryAmount uint64
	// Amount deposited by the buyer. Zero until funded.
	UserLock  uint64
	LockedAt  int64
	FundedAt  int64
	PaidAt    int64
	CompletedAt int64
	// One-way latches guaranteeing each payout happens at most once.
	PaidMain     bool
	HoldReleased bool
}

// NewEscrowLock computes the fee split with integer floor division, the
// rounding remainder accruing to the agent's due share.
// agentDue + treasuryAmount + holdback == feeTotal always holds.
func NewEscrowLock(
	orderId uint64, user, agent string,
	feeTotal uint64, holdbackBps, microbondBps, treasuryBps uint16,
	now int64,
) (*EscrowLock, error) {
	if feeTotal == 0 {
		return nil, ErrAmountMismatch
	}
	if int(holdbackBps)+int(microbondBps)+int(treasuryBps) > BpsDenominator {
		return nil, ErrInvalidBps
	}
	treasury := MulBps(feeTotal, treasuryBps)
	holdback := MulBps(feeTotal, holdbackBps)
	microbond := MulBps(feeTotal, microbondBps)
	return &EscrowLock{
		OrderId:        orderId,
		User:           user,
		Agent:          agent,
		FeeTotal:       feeTotal,
		AgentDue:       feeTotal - treasury - holdback,
		Holdback:       holdback,
		Microbond:      microbond,
		TreasuryAmount: treasury,
		LockedAt:       now,
	}, nil
}

// Fund records the buyer deposit, which must equal the full fee.
func (l *EscrowLock) Fund(amount uint64, now int64) error {
	if l.UserLock > 0 {
		return ErrInvalidState
	}
	if amount != l.FeeTotal {
		return ErrAmountMismatch
	}
	l.UserLock = amount
	l.FundedAt = now
	return nil
}

// PayMain releases the agent due share and the treasury share, leaving the
// holdback escrowed. Calling it twice is a no-op.
func (l *EscrowLock) PayMain(now int64) (agentDue, treasury uint64, err error) {
	if l.PaidMain {
		return 0, 0, nil
	}
	if l.UserLock == 0 {
		return 0, 0, ErrInsufficientFunds
	}
	l.PaidMain = true
	l.PaidAt = now
	l.CompletedAt = now
	return l.AgentDue, l.TreasuryAmount, nil
}

// CanRelease reports whether the claim window has strictly elapsed since
// completion.
func (l *EscrowLock) CanRelease(claimWindowSec, now int64) bool {
	return l.PaidMain && now > l.CompletedAt+claimWindowSec
}

// ReleaseHoldback latches the holdback release and returns the amount owed
// to the agent. The caller is responsible for the claim-window and dispute
// gates.
func (l *EscrowLock) ReleaseHoldback() (uint64, error) {
	if !l.PaidMain {
		return 0, ErrInvalidState
	}
	if l.HoldReleased {
		return 0, ErrAlreadyFinalized
	}
	l.HoldReleased = true
	return l.Holdback, nil
}

// SlashSplit is the outcome of a fault slash: how much of the penalty is
// drawn from each source.
type SlashSplit struct {
	FromHoldback     uint64
	FromMicrobond    uint64
	FromStandingBond uint64
}

// Slash latches the holdback against further release and computes the
// penalty waterfall: holdback first, then the locked microbond, then the
// standing bond for any shortfall.
func (l *EscrowLock) Slash(total uint64) (SlashSplit, error) {
	if l.HoldReleased {
		return SlashSplit{}, ErrAlreadyFinalized
	}
	l.HoldReleased = true

	split := SlashSplit{}
	remainder := total
	split.FromHoldback = min64(l.Holdback, remainder)
	remainder -= split.FromHoldback
	split.FromMicrobond = min64(l.Microbond, remainder)
	remainder -= split.FromMicrobond
	split.FromStandingBond = remainder
	return split, nil
}

// Refund undoes an unfinalized lock on cancellation and returns the buyer
// deposit, which may be zero if the order was never funded.
func (l *EscrowLock) Refund() (uint64, error) {
	if l.PaidMain {
		return 0, ErrAlreadyFinalized
	}
	refund := l.UserLock
	l.UserLock = 0
	l.HoldReleased = true
	return refund, nil
}

// MulBps computes amount*bps/10000 with floor rounding. The product is
// split so amounts near the uint64 ceiling do not overflow.
func MulBps(amount uint64, bps uint16) uint64 {
	return amount/BpsDenominator*uint64(bps) +
		amount%BpsDenominator*uint64(bps)/BpsDenominator
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// StandingBond is an agent's general collateral pool. The locked portion is
// the sum of all microbonds currently held against open orders.
type StandingBond struct {
	Agent  string
	Amount uint64
	Locked uint64
}

// Unlocked returns the freely withdrawable portion of the bond.
func (b *StandingBond) Unlocked() uint64 {
	return b.Amount - b.Locked
}

// Deposit increases the standing bond.
func (b *StandingBond) Deposit(amount uint64) error {
	if amount == 0 {
		return ErrAmountMismatch
	}
	b.Amount += amount
	return nil
}

// Withdraw decreases the standing bond by at most its unlocked portion.
func (b *StandingBond) Withdraw(amount uint64) error {
	if amount == 0 {
		return ErrAmountMismatch
	}
	if amount > b.Unlocked() {
		return ErrInsufficientUnlockedBond
	}
	b.Amount -= amount
	return nil
}

// Lock reserves a microbond against an open order.
func (b *StandingBond) Lock(amount uint64) error {
	if amount > b.Unlocked() {
		return ErrInsufficientUnlockedBond
	}
	b.Locked += amount
	return nil
}

// Unlock returns a previously locked microbond to the free pool.
func (b *StandingBond) Unlock(amount uint64) {
	if amount > b.Locked {
		amount = b.Locked
	}
	b.Locked -= amount
}

// SettleSlash unlocks the order's microbond and burns the slashed portion
// drawn from the bond: the consumed microbond plus any standing-bond
// shortfall draw. The burn is clamped to the available balance; the amount
// actually burnt is returned.
func (b *StandingBond) SettleSlash(microbond, burn uint64) uint64 {
	b.Unlock(microbond)
	burnt := min64(burn, b.Amount)
	b.Amount -= burnt
	if b.Locked > b.Amount {
		b.Locked = b.Amount
	}
	return burnt
}
