package application

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/zeta-network/zetad/internal/core/domain"
	"github.com/zeta-network/zetad/internal/core/ports"
)

// DisputeService tracks delivery evidence and runs the claim lifecycle:
// proof-of-delivery anchoring, buyer claims within the claim window and the
// evidence-driven resolution that either releases the holdback or slashes
// the agent.
type DisputeService interface {
	// SubmitPoD anchors proof-of-delivery evidence for the order's agent.
	SubmitPoD(ctx context.Context, agent string, orderId uint64, hashes []string, kinds []int) error
	// OpenClaim files the buyer's non-delivery claim. The claim window edge
	// is inclusive.
	OpenClaim(ctx context.Context, user string, orderId uint64, hashes []string, kinds []int) error
	// AutoResolve settles an open claim: with a PoD on file the claim is
	// denied and the holdback released, without one the claim is upheld and
	// the agent slashed. Operators and admins may call it any time, anyone
	// else once the claim window has closed. With no claim on file it falls
	// back to the regular post-window holdback release.
	AutoResolve(ctx context.Context, caller string, orderId uint64) (*ResolutionInfo, error)
	GetDispute(ctx context.Context, orderId uint64) (*DisputeInfo, error)
}

// ResolutionInfo is the outcome of a dispute resolution.
type ResolutionInfo struct {
	OrderId          uint64
	Upheld           bool
	RefundedToUser   uint64
	PaidToTreasury   uint64
	FromStandingBond uint64
	HoldbackReleased uint64
}

type disputeService struct {
	repoManager ports.RepoManager
	pubsub      SecurePubSub
	clock       ports.Clock
}

// NewDisputeService returns a new DisputeService.
func NewDisputeService(
	repoManager ports.RepoManager, pubsub SecurePubSub, clock ports.Clock,
) DisputeService {
	return &disputeService{repoManager, pubsub, clock}
}

func (s *disputeService) SubmitPoD(
	ctx context.Context, agent string, orderId uint64,
	hashes []string, kinds []int,
) error {
	if _, err := s.repoManager.RunTransaction(
		ctx, false,
		func(ctx context.Context) (interface{}, error) {
			policy, err := getPolicy(ctx, s.repoManager)
			if err != nil {
				return nil, err
			}
			if err := requireUnpaused(policy); err != nil {
				return nil, err
			}
			order, err := s.acceptedOrder(ctx, orderId)
			if err != nil {
				return nil, err
			}
			if order.SelectedAgent() != agent {
				return nil, domain.ErrUnauthorized
			}
			if _, err := s.repoManager.DisputeRepository().GetOrCreateDispute(
				ctx, orderId,
			); err != nil {
				return nil, err
			}
			return nil, s.repoManager.DisputeRepository().UpdateDispute(
				ctx, orderId,
				func(d *domain.Dispute) (*domain.Dispute, error) {
					if err := d.SubmitPoD(hashes, kinds, s.clock.Now()); err != nil {
						return nil, err
					}
					return d, nil
				},
			)
		},
	); err != nil {
		return err
	}
	publishTopic(s.pubsub, PoDSubmitted, map[string]interface{}{
		"order_id": orderId,
		"agent":    agent,
		"count":    len(hashes),
	})
	return nil
}

func (s *disputeService) OpenClaim(
	ctx context.Context, user string, orderId uint64,
	hashes []string, kinds []int,
) error {
	if _, err := s.repoManager.RunTransaction(
		ctx, false,
		func(ctx context.Context) (interface{}, error) {
			policy, err := getPolicy(ctx, s.repoManager)
			if err != nil {
				return nil, err
			}
			if err := requireUnpaused(policy); err != nil {
				return nil, err
			}
			if policy.IsUserBanned(user) {
				return nil, domain.ErrBannedActor
			}
			order, err := s.repoManager.OrderRepository().GetOrder(ctx, orderId)
			if err != nil {
				return nil, err
			}
			if order == nil {
				return nil, ErrOrderNotFound
			}
			if order.User != user {
				return nil, domain.ErrUnauthorized
			}
			if !order.IsCompleted() {
				return nil, domain.ErrInvalidState
			}
			if _, err := s.repoManager.DisputeRepository().GetOrCreateDispute(
				ctx, orderId,
			); err != nil {
				return nil, err
			}
			return nil, s.repoManager.DisputeRepository().UpdateDispute(
				ctx, orderId,
				func(d *domain.Dispute) (*domain.Dispute, error) {
					if err := d.OpenClaim(
						hashes, kinds, order.CompletedAt,
						policy.Params.ClaimWindowSec, s.clock.Now(),
					); err != nil {
						return nil, err
					}
					return d, nil
				},
			)
		},
	); err != nil {
		return err
	}
	log.Info("claim opened for order ", orderId)
	publishTopic(s.pubsub, ClaimOpened, map[string]interface{}{
		"order_id": orderId,
		"user":     user,
	})
	return nil
}

func (s *disputeService) AutoResolve(
	ctx context.Context, caller string, orderId uint64,
) (*ResolutionInfo, error) {
	var claimless bool
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
			dispute, err := s.repoManager.DisputeRepository().GetDispute(ctx, orderId)
			if err != nil {
				return nil, err
			}
			if dispute != nil && dispute.IsResolved() {
				return nil, domain.ErrInvalidState
			}

			now := s.clock.Now()
			if dispute == nil || !dispute.IsOpen() {
				// No claim on file: past the claim window this is the
				// regular holdback release.
				claimless = true
				released, err := releaseHoldbackForOrder(
					ctx, s.repoManager, orderId,
					policy.Params.ClaimWindowSec, now, false,
				)
				if err != nil {
					return nil, err
				}
				return &ResolutionInfo{
					OrderId:          orderId,
					HoldbackReleased: released,
				}, nil
			}
			privileged := requireRole(
				policy, caller, domain.RoleOperator, domain.RoleDefaultAdmin,
			) == nil
			if !privileged {
				order, err := s.repoManager.OrderRepository().GetOrder(ctx, orderId)
				if err != nil {
					return nil, err
				}
				if order == nil {
					return nil, ErrOrderNotFound
				}
				if now <= order.CompletedAt+policy.Params.ClaimWindowSec {
					return nil, domain.ErrWindowNotElapsed
				}
			}

			upheld := !dispute.HasPoD()
			if err := s.repoManager.DisputeRepository().UpdateDispute(
				ctx, orderId,
				func(d *domain.Dispute) (*domain.Dispute, error) {
					if err := d.Resolve(upheld, now); err != nil {
						return nil, err
					}
					return d, nil
				},
			); err != nil {
				return nil, err
			}

			outcome := &ResolutionInfo{OrderId: orderId, Upheld: upheld}
			if upheld {
				lock, err := s.repoManager.EscrowRepository().GetEscrow(ctx, orderId)
				if err != nil {
					return nil, err
				}
				if lock == nil {
					return nil, ErrEscrowNotFound
				}
				toUser := domain.MulBps(lock.FeeTotal, policy.Params.FaultRefundBps)
				toTreasury := domain.MulBps(lock.FeeTotal, policy.Params.FaultTreasuryBps)
				slash, err := slashEscrowForOrder(
					ctx, s.repoManager, policy.Params.Treasury,
					orderId, toUser, toTreasury, now,
				)
				if err != nil {
					return nil, err
				}
				outcome.RefundedToUser = slash.ToUser
				outcome.PaidToTreasury = slash.ToTreasury
				outcome.FromStandingBond = slash.FromStandingBond
				return outcome, nil
			}

			released, err := releaseHoldbackForOrder(
				ctx, s.repoManager, orderId,
				policy.Params.ClaimWindowSec, now, true,
			)
			if err != nil {
				return nil, err
			}
			outcome.HoldbackReleased = released
			return outcome, nil
		},
	)
	if err != nil {
		return nil, err
	}
	outcome := res.(*ResolutionInfo)

	if claimless {
		log.Info("holdback released for unclaimed order ", orderId)
		publishTopic(s.pubsub, HoldbackReleased, map[string]interface{}{
			"order_id": orderId,
			"amount":   outcome.HoldbackReleased,
		})
		return outcome, nil
	}

	log.Infof("dispute for order %d resolved, upheld=%t", orderId, outcome.Upheld)
	publishTopic(s.pubsub, DisputeResolved, map[string]interface{}{
		"order_id": orderId,
		"upheld":   outcome.Upheld,
		"actor":    caller,
	})
	if outcome.Upheld {
		publishTopic(s.pubsub, Slashed, map[string]interface{}{
			"order_id":           orderId,
			"refunded_to_user":   outcome.RefundedToUser,
			"paid_to_treasury":   outcome.PaidToTreasury,
			"from_standing_bond": outcome.FromStandingBond,
		})
	} else {
		publishTopic(s.pubsub, HoldbackReleased, map[string]interface{}{
			"order_id": orderId,
			"amount":   outcome.HoldbackReleased,
		})
	}
	return outcome, nil
}

func (s *disputeService) GetDispute(
	ctx context.Context, orderId uint64,
) (*DisputeInfo, error) {
	dispute, err := s.repoManager.DisputeRepository().GetDispute(ctx, orderId)
	if err != nil {
		return nil, err
	}
	if dispute == nil {
		dispute = domain.NewDispute(orderId)
	}
	info := disputeInfo(dispute)
	return &info, nil
}

// acceptedOrder returns the order if it has reached acceptance without being
// cancelled.
func (s *disputeService) acceptedOrder(
	ctx context.Context, orderId uint64,
) (*domain.Order, error) {
	order, err := s.repoManager.OrderRepository().GetOrder(ctx, orderId)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !order.IsAccepted() && !order.IsFunded() && !order.IsCompleted() {
		return nil, domain.ErrInvalidState
	}
	return order, nil
}
