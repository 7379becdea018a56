package application

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/zeta-network/zetad/internal/core/domain"
	"github.com/zeta-network/zetad/internal/core/ports"
)

// OrderBookService runs the order lifecycle: intent creation, the sealed
// commit-reveal auction, weighted auto-selection with acknowledgement
// fallback, buyer funding and completion payout.
type OrderBookService interface {
	CreateOrderIntent(ctx context.Context, user string, intent OrderIntent) (*OrderInfo, error)
	CommitQuote(ctx context.Context, agent string, orderId uint64, commitHash string, ttl int64) error
	RevealQuote(
		ctx context.Context, agent string, orderId uint64,
		feeTotal uint64, holdbackBps, microbondBps uint16,
		etaHours uint32, saltHex string,
	) error
	// AutoSelect picks the winning quote for an order. Anyone may crank it
	// once at least one rankable quote exists. If the current selection
	// outlived the acknowledgement window it is passed over and the
	// remaining quotes are re-ranked.
	AutoSelect(ctx context.Context, caller string, orderId uint64) (string, error)
	// AckSelect is the selected agent's acceptance. It locks the escrow
	// split and the agent's microbond.
	AckSelect(ctx context.Context, agent string, orderId uint64) error
	UserFund(ctx context.Context, user string, orderId uint64, amount uint64) error
	// MarkCompleted records delivery and pays the main tranche, leaving the
	// holdback escrowed for the claim window. Restricted to operators and
	// admins: the selected agent cannot trigger its own payout.
	MarkCompleted(ctx context.Context, caller string, orderId uint64) error
	Cancel(ctx context.Context, user string, orderId uint64) error
	GetOrder(ctx context.Context, orderId uint64) (*OrderInfo, error)
	ListOrders(ctx context.Context) ([]OrderInfo, error)
	ListOrdersForUser(ctx context.Context, user string) ([]OrderInfo, error)
}

type orderBookService struct {
	repoManager ports.RepoManager
	pubsub      SecurePubSub
	clock       ports.Clock
	strategy    ScoringStrategy
}

// NewOrderBookService returns a new OrderBookService ranking quotes with the
// given strategy.
func NewOrderBookService(
	repoManager ports.RepoManager, pubsub SecurePubSub,
	clock ports.Clock, strategy ScoringStrategy,
) OrderBookService {
	return &orderBookService{repoManager, pubsub, clock, strategy}
}

func (s *orderBookService) CreateOrderIntent(
	ctx context.Context, user string, intent OrderIntent,
) (*OrderInfo, error) {
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
			if policy.IsUserBanned(user) {
				return nil, domain.ErrBannedActor
			}
			order, err := domain.NewOrderIntent(
				user, intent.Token, intent.MaxTotal,
				intent.OriginId, intent.DestRegion, intent.CommodityId,
				intent.Qty, intent.Expiry, s.clock.Now(),
			)
			if err != nil {
				return nil, err
			}
			if _, err := s.repoManager.OrderRepository().AddOrder(ctx, order); err != nil {
				return nil, err
			}
			return order, nil
		},
	)
	if err != nil {
		return nil, err
	}
	order := res.(*domain.Order)
	log.Info("order created with id ", order.Id)
	publishTopic(s.pubsub, OrderCreated, orderPayload(order.Id, order.StatusString(), user))
	info := orderInfo(order)
	return &info, nil
}

func (s *orderBookService) CommitQuote(
	ctx context.Context, agent string, orderId uint64,
	commitHash string, ttl int64,
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
			if err := requireEligibleAgent(ctx, s.repoManager, policy, agent); err != nil {
				return nil, err
			}
			return nil, s.updateOrder(ctx, orderId,
				func(o *domain.Order) error {
					return o.CommitQuote(agent, commitHash, ttl, s.clock.Now())
				},
			)
		},
	); err != nil {
		return err
	}
	publishTopic(s.pubsub, QuoteCommitted, map[string]interface{}{
		"order_id": orderId,
		"agent":    agent,
	})
	return nil
}

func (s *orderBookService) RevealQuote(
	ctx context.Context, agent string, orderId uint64,
	feeTotal uint64, holdbackBps, microbondBps uint16,
	etaHours uint32, saltHex string,
) error {
	salt, err := domain.ParseSalt(saltHex)
	if err != nil {
		return err
	}
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
			if err := requireEligibleAgent(ctx, s.repoManager, policy, agent); err != nil {
				return nil, err
			}
			return nil, s.updateOrder(ctx, orderId,
				func(o *domain.Order) error {
					return o.RevealQuote(
						agent, feeTotal, holdbackBps, microbondBps,
						etaHours, salt, s.clock.Now(),
					)
				},
			)
		},
	); err != nil {
		return err
	}
	publishTopic(s.pubsub, QuoteRevealed, map[string]interface{}{
		"order_id":  orderId,
		"agent":     agent,
		"fee_total": feeTotal,
		"eta_hours": etaHours,
	})
	return nil
}

func (s *orderBookService) AutoSelect(
	ctx context.Context, caller string, orderId uint64,
) (string, error) {
	var passedOver string
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

			order, err := s.repoManager.OrderRepository().GetOrder(ctx, orderId)
			if err != nil {
				return nil, err
			}
			if order == nil {
				return nil, ErrOrderNotFound
			}
			records, err := s.agentRecords(ctx, order)
			if err != nil {
				return nil, err
			}

			var winner string
			if err := s.updateOrder(ctx, orderId,
				func(o *domain.Order) error {
					now := s.clock.Now()
					if o.IsSelected() {
						if !o.SelectionExpired(policy.Params.AcceptAckWindowSec, now) {
							return domain.ErrWindowNotElapsed
						}
						passedOver = o.Selection.Agent
						if err := o.PassOverSelection(); err != nil {
							return err
						}
					}
					quotes, risks, err := rankableQuotes(policy, o, records)
					if err != nil {
						return err
					}
					winner, err = s.strategy.Best(quotes, risks, ScoreWeights{
						PriceBps: policy.Params.WeightPriceBps,
						EtaBps:   policy.Params.WeightEtaBps,
						RiskBps:  policy.Params.WeightRiskBps,
					})
					if err != nil {
						return err
					}
					return o.Select(winner, now)
				},
			); err != nil {
				return nil, err
			}
			return winner, nil
		},
	)
	if err != nil {
		return "", err
	}
	winner := res.(string)
	if passedOver != "" {
		log.Infof(
			"selection for order %d passed over from %s to %s",
			orderId, passedOver, winner,
		)
	}
	publishTopic(s.pubsub, AgentSelected, map[string]interface{}{
		"order_id":    orderId,
		"agent":       winner,
		"passed_over": passedOver,
		"actor":       caller,
	})
	return winner, nil
}

// agentRecords loads the registry records of every agent that revealed a
// quote on the order. The lookups run before the order update: the storage
// lock is not reentrant, so no repository call may happen inside it.
func (s *orderBookService) agentRecords(
	ctx context.Context, o *domain.Order,
) (map[string]*domain.Agent, error) {
	records := make(map[string]*domain.Agent, len(o.RevealOrder))
	for _, agent := range o.RevealOrder {
		record, err := s.repoManager.AgentRepository().GetAgent(ctx, agent)
		if err != nil {
			return nil, err
		}
		if record != nil {
			records[agent] = record
		}
	}
	return records, nil
}

// rankableQuotes filters the order's eligible quotes down to agents still
// whitelisted and unbanned, pairing them with their registry risk scores.
func rankableQuotes(
	policy *domain.Policy, o *domain.Order, records map[string]*domain.Agent,
) ([]domain.RevealedQuote, map[string]uint16, error) {
	eligible := o.EligibleQuotes()
	quotes := make([]domain.RevealedQuote, 0, len(eligible))
	risks := make(map[string]uint16, len(eligible))
	for _, quote := range eligible {
		if policy.IsAgentBanned(quote.Agent) {
			continue
		}
		record, ok := records[quote.Agent]
		if !ok || !record.Whitelisted {
			continue
		}
		quotes = append(quotes, quote)
		risks[quote.Agent] = record.RiskScoreBps
	}
	if len(quotes) == 0 {
		return nil, nil, ErrNoQuotes
	}
	return quotes, risks, nil
}

func (s *orderBookService) AckSelect(
	ctx context.Context, agent string, orderId uint64,
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
			if err := requireEligibleAgent(ctx, s.repoManager, policy, agent); err != nil {
				return nil, err
			}
			now := s.clock.Now()
			var accepted *domain.Order
			if err := s.updateOrder(ctx, orderId,
				func(o *domain.Order) error {
					if err := o.Ack(agent, policy.Params.AcceptAckWindowSec, now); err != nil {
						return err
					}
					accepted = o
					return nil
				},
			); err != nil {
				return nil, err
			}
			_, err = lockEscrowForOrder(
				ctx, s.repoManager, policy.Params,
				accepted, accepted.AcceptedQuote, now,
			)
			return nil, err
		},
	); err != nil {
		return err
	}
	log.Infof("order %d accepted by %s", orderId, agent)
	publishTopic(s.pubsub, OrderAccepted, orderPayload(orderId, "accepted", agent))
	return nil
}

func (s *orderBookService) UserFund(
	ctx context.Context, user string, orderId uint64, amount uint64,
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
			now := s.clock.Now()
			if err := s.updateOrder(ctx, orderId,
				func(o *domain.Order) error {
					if o.User != user {
						return domain.ErrUnauthorized
					}
					return o.Fund(amount, now)
				},
			); err != nil {
				return nil, err
			}
			return nil, fundEscrowForOrder(ctx, s.repoManager, orderId, amount, now)
		},
	); err != nil {
		return err
	}
	publishTopic(s.pubsub, UserFunded, map[string]interface{}{
		"order_id": orderId,
		"user":     user,
		"amount":   amount,
	})
	return nil
}

func (s *orderBookService) MarkCompleted(
	ctx context.Context, caller string, orderId uint64,
) error {
	var agentDue, treasuryAmount uint64
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
			if err := requireRole(
				policy, caller, domain.RoleOperator, domain.RoleDefaultAdmin,
			); err != nil {
				return nil, err
			}
			now := s.clock.Now()
			if err := s.updateOrder(ctx, orderId,
				func(o *domain.Order) error {
					return o.Complete(now)
				},
			); err != nil {
				return nil, err
			}
			agentDue, treasuryAmount, err = payMainForOrder(
				ctx, s.repoManager, policy.Params.Treasury, orderId, now,
			)
			return nil, err
		},
	); err != nil {
		return err
	}
	log.Infof(
		"order %d completed, paid %d to agent and %d to treasury",
		orderId, agentDue, treasuryAmount,
	)
	publishTopic(s.pubsub, OrderPaid, map[string]interface{}{
		"order_id":  orderId,
		"agent_due": agentDue,
		"treasury":  treasuryAmount,
	})
	return nil
}

func (s *orderBookService) Cancel(
	ctx context.Context, user string, orderId uint64,
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
			now := s.clock.Now()
			if err := s.updateOrder(ctx, orderId,
				func(o *domain.Order) error {
					if o.User != user {
						return domain.ErrUnauthorized
					}
					return o.Cancel(now)
				},
			); err != nil {
				return nil, err
			}
			// No escrow exists before acceptance, the refund is a no-op kept
			// for storage consistency.
			_, err = refundEscrowForOrder(ctx, s.repoManager, orderId, now)
			return nil, err
		},
	); err != nil {
		return err
	}
	publishTopic(s.pubsub, OrderCancelled, orderPayload(orderId, "cancelled", user))
	return nil
}

func (s *orderBookService) GetOrder(
	ctx context.Context, orderId uint64,
) (*OrderInfo, error) {
	order, err := s.repoManager.OrderRepository().GetOrder(ctx, orderId)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	info := orderInfo(order)
	return &info, nil
}

func (s *orderBookService) ListOrders(ctx context.Context) ([]OrderInfo, error) {
	orders, err := s.repoManager.OrderRepository().GetAllOrders(ctx)
	if err != nil {
		return nil, err
	}
	return orderInfos(orders), nil
}

func (s *orderBookService) ListOrdersForUser(
	ctx context.Context, user string,
) ([]OrderInfo, error) {
	orders, err := s.repoManager.OrderRepository().GetOrdersForUser(ctx, user)
	if err != nil {
		return nil, err
	}
	return orderInfos(orders), nil
}

func orderInfos(orders []domain.Order) []OrderInfo {
	infos := make([]OrderInfo, 0, len(orders))
	for i := range orders {
		infos = append(infos, orderInfo(&orders[i]))
	}
	return infos
}

// updateOrder wraps the repository update mapping a missing order to the
// service level not-found error.
func (s *orderBookService) updateOrder(
	ctx context.Context, orderId uint64, apply func(o *domain.Order) error,
) error {
	order, err := s.repoManager.OrderRepository().GetOrder(ctx, orderId)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	return s.repoManager.OrderRepository().UpdateOrder(
		ctx, orderId,
		func(o *domain.Order) (*domain.Order, error) {
			if err := apply(o); err != nil {
				return nil, err
			}
			return o, nil
		},
	)
}
