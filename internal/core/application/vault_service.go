package application

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/zeta-network/zetad/internal/core/domain"
	"github.com/zeta-network/zetad/internal/core/ports"
)

// VaultService is the custody engine: it owns every write to escrow locks
// and standing bonds and exposes the permissionless holdback release crank
// together with the bond entry points delegated by the agent registry.
type VaultService interface {
	IncreaseStandingBond(ctx context.Context, agent string, amount uint64) (uint64, error)
	DecreaseStandingBond(ctx context.Context, agent string, amount uint64) (uint64, error)
	GetStandingBond(ctx context.Context, agent string) (amount, locked uint64, err error)
	GetEscrow(ctx context.Context, orderId uint64) (*EscrowInfo, error)
	GetPayouts(ctx context.Context, orderId uint64) ([]domain.Payout, error)
	// ReleaseHoldback pays the escrowed holdback to the agent once the claim
	// window has elapsed and no dispute is open. Callable by anyone.
	ReleaseHoldback(ctx context.Context, orderId uint64) (uint64, error)
}

type vaultService struct {
	repoManager ports.RepoManager
	pubsub      SecurePubSub
	clock       ports.Clock
}

// NewVaultService returns a new VaultService.
func NewVaultService(
	repoManager ports.RepoManager, pubsub SecurePubSub, clock ports.Clock,
) VaultService {
	return &vaultService{repoManager, pubsub, clock}
}

func (s *vaultService) IncreaseStandingBond(
	ctx context.Context, agent string, amount uint64,
) (uint64, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, false,
		func(ctx context.Context) (interface{}, error) {
			return increaseStandingBond(ctx, s.repoManager, agent, amount)
		},
	)
	if err != nil {
		return 0, err
	}
	newAmount := res.(uint64)
	publishTopic(s.pubsub, BondDeposited, map[string]interface{}{
		"agent":  agent,
		"amount": amount,
		"bond":   newAmount,
	})
	return newAmount, nil
}

func (s *vaultService) DecreaseStandingBond(
	ctx context.Context, agent string, amount uint64,
) (uint64, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, false,
		func(ctx context.Context) (interface{}, error) {
			return decreaseStandingBond(ctx, s.repoManager, agent, amount)
		},
	)
	if err != nil {
		return 0, err
	}
	newAmount := res.(uint64)
	publishTopic(s.pubsub, BondWithdrawn, map[string]interface{}{
		"agent":  agent,
		"amount": amount,
		"bond":   newAmount,
	})
	return newAmount, nil
}

func (s *vaultService) GetStandingBond(
	ctx context.Context, agent string,
) (uint64, uint64, error) {
	bond, err := s.repoManager.BondRepository().GetBond(ctx, agent)
	if err != nil {
		return 0, 0, err
	}
	if bond == nil {
		return 0, 0, nil
	}
	return bond.Amount, bond.Locked, nil
}

func (s *vaultService) GetEscrow(
	ctx context.Context, orderId uint64,
) (*EscrowInfo, error) {
	lock, err := s.repoManager.EscrowRepository().GetEscrow(ctx, orderId)
	if err != nil {
		return nil, err
	}
	if lock == nil {
		return nil, ErrEscrowNotFound
	}
	info := escrowInfo(lock)
	return &info, nil
}

func (s *vaultService) GetPayouts(
	ctx context.Context, orderId uint64,
) ([]domain.Payout, error) {
	return s.repoManager.PayoutRepository().GetPayoutsForOrder(ctx, orderId)
}

func (s *vaultService) ReleaseHoldback(
	ctx context.Context, orderId uint64,
) (uint64, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, false,
		func(ctx context.Context) (interface{}, error) {
			policy, err := getPolicy(ctx, s.repoManager)
			if err != nil {
				return nil, err
			}
			if err := requireUnpaused(policy); err != nil {
				return nil, err
			}
			return releaseHoldbackForOrder(
				ctx, s.repoManager, orderId,
				policy.Params.ClaimWindowSec, s.clock.Now(), false,
			)
		},
	)
	if err != nil {
		return 0, err
	}
	amount := res.(uint64)
	log.Info("holdback released for order ", orderId)
	publishTopic(s.pubsub, HoldbackReleased, map[string]interface{}{
		"order_id": orderId,
		"amount":   amount,
	})
	return amount, nil
}

// increaseStandingBond credits the agent's standing bond within the current
// transaction.
func increaseStandingBond(
	ctx context.Context, repoManager ports.RepoManager,
	agent string, amount uint64,
) (uint64, error) {
	var newAmount uint64
	if err := repoManager.BondRepository().UpdateBond(
		ctx, agent,
		func(b *domain.StandingBond) (*domain.StandingBond, error) {
			if err := b.Deposit(amount); err != nil {
				return nil, err
			}
			newAmount = b.Amount
			return b, nil
		},
	); err != nil {
		return 0, err
	}
	return newAmount, nil
}

// decreaseStandingBond debits the unlocked portion of the agent's standing
// bond within the current transaction.
func decreaseStandingBond(
	ctx context.Context, repoManager ports.RepoManager,
	agent string, amount uint64,
) (uint64, error) {
	var newAmount uint64
	if err := repoManager.BondRepository().UpdateBond(
		ctx, agent,
		func(b *domain.StandingBond) (*domain.StandingBond, error) {
			if err := b.Withdraw(amount); err != nil {
				return nil, err
			}
			newAmount = b.Amount
			return b, nil
		},
	); err != nil {
		return 0, err
	}
	return newAmount, nil
}

// lockEscrowForOrder creates the escrow lock for an accepted order: the
// revealed bps are clamped to the policy maxima, the fee is split and the
// agent's microbond is locked against its standing bond.
func lockEscrowForOrder(
	ctx context.Context, repoManager ports.RepoManager,
	params domain.PolicyParams, order *domain.Order,
	quote *domain.RevealedQuote, now int64,
) (*domain.EscrowLock, error) {
	holdbackBps := quote.HoldbackBps
	if holdbackBps > params.MaxHoldbackBps {
		holdbackBps = params.MaxHoldbackBps
	}
	microbondBps := quote.MicrobondBps
	if microbondBps > params.MaxMicrobondBps {
		microbondBps = params.MaxMicrobondBps
	}

	lock, err := domain.NewEscrowLock(
		order.Id, order.User, quote.Agent,
		quote.FeeTotal, holdbackBps, microbondBps, params.TreasuryBps, now,
	)
	if err != nil {
		return nil, err
	}

	if err := repoManager.BondRepository().UpdateBond(
		ctx, quote.Agent,
		func(b *domain.StandingBond) (*domain.StandingBond, error) {
			if b.Unlocked() < lock.Microbond {
				return nil, domain.ErrAgentNotEligible
			}
			if err := b.Lock(lock.Microbond); err != nil {
				return nil, err
			}
			return b, nil
		},
	); err != nil {
		return nil, err
	}

	if err := repoManager.EscrowRepository().AddEscrow(ctx, lock); err != nil {
		return nil, err
	}
	return lock, nil
}

// fundEscrowForOrder records the buyer deposit against the lock.
func fundEscrowForOrder(
	ctx context.Context, repoManager ports.RepoManager,
	orderId uint64, amount uint64, now int64,
) error {
	return repoManager.EscrowRepository().UpdateEscrow(
		ctx, orderId,
		func(l *domain.EscrowLock) (*domain.EscrowLock, error) {
			if err := l.Fund(amount, now); err != nil {
				return nil, err
			}
			return l, nil
		},
	)
}

// payMainForOrder pays the agent due share and the treasury share, leaving
// the holdback escrowed, and appends the payout records.
func payMainForOrder(
	ctx context.Context, repoManager ports.RepoManager,
	treasury string, orderId uint64, now int64,
) (agentDue, treasuryAmount uint64, err error) {
	var agent string
	if err := repoManager.EscrowRepository().UpdateEscrow(
		ctx, orderId,
		func(l *domain.EscrowLock) (*domain.EscrowLock, error) {
			due, tre, err := l.PayMain(now)
			if err != nil {
				return nil, err
			}
			agentDue, treasuryAmount, agent = due, tre, l.Agent
			return l, nil
		},
	); err != nil {
		return 0, 0, err
	}
	if agentDue == 0 && treasuryAmount == 0 {
		return 0, 0, nil
	}
	payouts := []domain.Payout{
		{OrderId: orderId, To: agent, Amount: agentDue, Kind: domain.PayoutKindAgentDue, At: now},
	}
	if treasuryAmount > 0 {
		payouts = append(payouts, domain.Payout{
			OrderId: orderId, To: treasury, Amount: treasuryAmount,
			Kind: domain.PayoutKindTreasury, At: now,
		})
	}
	if err := repoManager.PayoutRepository().AddPayouts(ctx, payouts); err != nil {
		return 0, 0, err
	}
	return agentDue, treasuryAmount, nil
}

// releaseHoldbackForOrder pays the holdback to the agent and unlocks its
// microbond. Unless bypassWindow is set (dispute resolution), the release
// requires the claim window to be strictly elapsed. An open dispute always
// suspends the release.
func releaseHoldbackForOrder(
	ctx context.Context, repoManager ports.RepoManager,
	orderId uint64, claimWindowSec, now int64, bypassWindow bool,
) (uint64, error) {
	dispute, err := repoManager.DisputeRepository().GetDispute(ctx, orderId)
	if err != nil {
		return 0, err
	}
	if dispute != nil && dispute.IsOpen() && !bypassWindow {
		return 0, domain.ErrInvalidState
	}

	var holdback uint64
	var agent string
	var microbond uint64
	if err := repoManager.EscrowRepository().UpdateEscrow(
		ctx, orderId,
		func(l *domain.EscrowLock) (*domain.EscrowLock, error) {
			if !bypassWindow && !l.CanRelease(claimWindowSec, now) {
				if !l.PaidMain {
					return nil, domain.ErrInvalidState
				}
				return nil, domain.ErrWindowNotElapsed
			}
			amount, err := l.ReleaseHoldback()
			if err != nil {
				return nil, err
			}
			holdback, agent, microbond = amount, l.Agent, l.Microbond
			return l, nil
		},
	); err != nil {
		return 0, err
	}

	if err := repoManager.BondRepository().UpdateBond(
		ctx, agent,
		func(b *domain.StandingBond) (*domain.StandingBond, error) {
			b.Unlock(microbond)
			return b, nil
		},
	); err != nil {
		return 0, err
	}

	if holdback > 0 {
		if err := repoManager.PayoutRepository().AddPayouts(ctx, []domain.Payout{
			{OrderId: orderId, To: agent, Amount: holdback, Kind: domain.PayoutKindHoldback, At: now},
		}); err != nil {
			return 0, err
		}
	}
	return holdback, nil
}

// slashOutcome is the result of a fault slash.
type slashOutcome struct {
	ToUser           uint64
	ToTreasury       uint64
	FromStandingBond uint64
}

// slashEscrowForOrder moves the holdback plus the locked microbond, drawing
// any shortfall from the agent's standing bond, split between buyer refund
// and treasury. The draw is clamped to the bond balance; the buyer is made
// whole first.
func slashEscrowForOrder(
	ctx context.Context, repoManager ports.RepoManager,
	treasury string, orderId uint64, toUser, toTreasury uint64, now int64,
) (*slashOutcome, error) {
	var split domain.SlashSplit
	var agent, user string
	var microbond uint64
	if err := repoManager.EscrowRepository().UpdateEscrow(
		ctx, orderId,
		func(l *domain.EscrowLock) (*domain.EscrowLock, error) {
			s, err := l.Slash(toUser + toTreasury)
			if err != nil {
				return nil, err
			}
			split, agent, user, microbond = s, l.Agent, l.User, l.Microbond
			return l, nil
		},
	); err != nil {
		return nil, err
	}

	var burnt uint64
	if err := repoManager.BondRepository().UpdateBond(
		ctx, agent,
		func(b *domain.StandingBond) (*domain.StandingBond, error) {
			burnt = b.SettleSlash(
				microbond, split.FromMicrobond+split.FromStandingBond,
			)
			return b, nil
		},
	); err != nil {
		return nil, err
	}

	available := split.FromHoldback + burnt
	paidUser := available
	if paidUser > toUser {
		paidUser = toUser
	}
	paidTreasury := available - paidUser

	payouts := make([]domain.Payout, 0, 2)
	if paidUser > 0 {
		payouts = append(payouts, domain.Payout{
			OrderId: orderId, To: user, Amount: paidUser,
			Kind: domain.PayoutKindSlashUser, At: now,
		})
	}
	if paidTreasury > 0 {
		payouts = append(payouts, domain.Payout{
			OrderId: orderId, To: treasury, Amount: paidTreasury,
			Kind: domain.PayoutKindSlashTreasury, At: now,
		})
	}
	if len(payouts) > 0 {
		if err := repoManager.PayoutRepository().AddPayouts(ctx, payouts); err != nil {
			return nil, err
		}
	}

	// The standing-bond figure reported on events is the draw beyond the
	// order's own collateral (holdback and microbond).
	consumedMicro := split.FromMicrobond
	if consumedMicro > burnt {
		consumedMicro = burnt
	}
	return &slashOutcome{
		ToUser:           paidUser,
		ToTreasury:       paidTreasury,
		FromStandingBond: burnt - consumedMicro,
	}, nil
}

// refundEscrowForOrder returns any buyer deposit held against an order that
// never reached payout, unlocking the agent's microbond.
func refundEscrowForOrder(
	ctx context.Context, repoManager ports.RepoManager,
	orderId uint64, now int64,
) (uint64, error) {
	lock, err := repoManager.EscrowRepository().GetEscrow(ctx, orderId)
	if err != nil || lock == nil {
		return 0, err
	}

	var refund uint64
	var agent, user string
	var microbond uint64
	if err := repoManager.EscrowRepository().UpdateEscrow(
		ctx, orderId,
		func(l *domain.EscrowLock) (*domain.EscrowLock, error) {
			amount, err := l.Refund()
			if err != nil {
				return nil, err
			}
			refund, agent, user, microbond = amount, l.Agent, l.User, l.Microbond
			return l, nil
		},
	); err != nil {
		return 0, err
	}

	if err := repoManager.BondRepository().UpdateBond(
		ctx, agent,
		func(b *domain.StandingBond) (*domain.StandingBond, error) {
			b.Unlock(microbond)
			return b, nil
		},
	); err != nil {
		return 0, err
	}

	if refund > 0 {
		if err := repoManager.PayoutRepository().AddPayouts(ctx, []domain.Payout{
			{OrderId: orderId, To: user, Amount: refund, Kind: domain.PayoutKindRefund, At: now},
		}); err != nil {
			return 0, err
		}
	}
	return refund, nil
}
