package application

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/zeta-network/zetad/internal/core/domain"
	"github.com/zeta-network/zetad/internal/core/ports"
)

// RegistryService manages the agent whitelist, risk scores, fee-schedule
// anchors and the bond operations delegated to the vault.
type RegistryService interface {
	Whitelist(ctx context.Context, caller, agent string) error
	Unlist(ctx context.Context, caller, agent string) error
	SetRisk(ctx context.Context, caller, agent string, bps uint16) error
	// SetFeeAnchor is self-service: agents anchor their own fee schedule.
	SetFeeAnchor(ctx context.Context, agent, cid string) error
	BondDeposit(ctx context.Context, agent string, amount uint64) (uint64, error)
	BondWithdraw(ctx context.Context, agent string, amount uint64) (uint64, error)
	IsWhitelisted(ctx context.Context, agent string) (bool, error)
	RiskScore(ctx context.Context, agent string) (uint16, error)
	GetAgent(ctx context.Context, agent string) (*AgentInfo, error)
	ListAgents(ctx context.Context) ([]AgentInfo, error)
}

type registryService struct {
	repoManager ports.RepoManager
	vault       VaultService
	pubsub      SecurePubSub
	clock       ports.Clock
}

// NewRegistryService returns a new RegistryService delegating bond custody
// to the given vault.
func NewRegistryService(
	repoManager ports.RepoManager, vault VaultService,
	pubsub SecurePubSub, clock ports.Clock,
) RegistryService {
	return &registryService{repoManager, vault, pubsub, clock}
}

func (s *registryService) Whitelist(ctx context.Context, caller, agent string) error {
	if err := s.listingMutation(ctx, caller, agent, true); err != nil {
		return err
	}
	log.Info("agent whitelisted ", agent)
	publishTopic(s.pubsub, AgentWhitelisted, map[string]interface{}{
		"agent": agent, "actor": caller,
	})
	return nil
}

func (s *registryService) Unlist(ctx context.Context, caller, agent string) error {
	if err := s.listingMutation(ctx, caller, agent, false); err != nil {
		return err
	}
	log.Info("agent unlisted ", agent)
	publishTopic(s.pubsub, AgentUnlisted, map[string]interface{}{
		"agent": agent, "actor": caller,
	})
	return nil
}

func (s *registryService) listingMutation(
	ctx context.Context, caller, agent string, list bool,
) error {
	_, err := s.repoManager.RunTransaction(
		ctx, false,
		func(ctx context.Context) (interface{}, error) {
			policy, err := getPolicy(ctx, s.repoManager)
			if err != nil {
				return nil, err
			}
			if err := requireUnpaused(policy); err != nil {
				return nil, err
			}
			if err := requireRole(policy, caller, domain.RoleListing); err != nil {
				return nil, err
			}
			if list && policy.IsAgentBanned(agent) {
				return nil, domain.ErrAgentNotEligible
			}
			now := s.clock.Now()
			return nil, s.repoManager.AgentRepository().UpdateAgent(
				ctx, agent,
				func(a *domain.Agent) (*domain.Agent, error) {
					if list {
						a.Whitelist(now)
					} else {
						a.Unlist()
					}
					return a, nil
				},
			)
		},
	)
	return err
}

func (s *registryService) SetRisk(
	ctx context.Context, caller, agent string, bps uint16,
) error {
	_, err := s.repoManager.RunTransaction(
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
				policy, caller, domain.RoleListing, domain.RolePolicyAdmin,
			); err != nil {
				return nil, err
			}
			if err := requireEligibleAgent(ctx, s.repoManager, policy, agent); err != nil {
				return nil, err
			}
			return nil, s.repoManager.AgentRepository().UpdateAgent(
				ctx, agent,
				func(a *domain.Agent) (*domain.Agent, error) {
					if err := a.SetRisk(bps); err != nil {
						return nil, err
					}
					return a, nil
				},
			)
		},
	)
	return err
}

func (s *registryService) SetFeeAnchor(ctx context.Context, agent, cid string) error {
	_, err := s.repoManager.RunTransaction(
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
			return nil, s.repoManager.AgentRepository().UpdateAgent(
				ctx, agent,
				func(a *domain.Agent) (*domain.Agent, error) {
					a.SetFeeAnchor(cid)
					return a, nil
				},
			)
		},
	)
	return err
}

func (s *registryService) BondDeposit(
	ctx context.Context, agent string, amount uint64,
) (uint64, error) {
	if err := s.checkBondActor(ctx, agent, true); err != nil {
		return 0, err
	}
	return s.vault.IncreaseStandingBond(ctx, agent, amount)
}

// BondWithdraw releases the unlocked portion of the standing bond. An
// unlisted agent may still recover its historical bond, a banned one may
// not.
func (s *registryService) BondWithdraw(
	ctx context.Context, agent string, amount uint64,
) (uint64, error) {
	if err := s.checkBondActor(ctx, agent, false); err != nil {
		return 0, err
	}
	return s.vault.DecreaseStandingBond(ctx, agent, amount)
}

func (s *registryService) checkBondActor(
	ctx context.Context, agent string, mustBeListed bool,
) error {
	policy, err := getPolicy(ctx, s.repoManager)
	if err != nil {
		return err
	}
	if err := requireUnpaused(policy); err != nil {
		return err
	}
	if mustBeListed {
		return requireEligibleAgent(ctx, s.repoManager, policy, agent)
	}
	if policy.IsAgentBanned(agent) {
		return domain.ErrBannedActor
	}
	return nil
}

func (s *registryService) IsWhitelisted(ctx context.Context, agent string) (bool, error) {
	record, err := s.repoManager.AgentRepository().GetAgent(ctx, agent)
	if err != nil {
		return false, err
	}
	return record != nil && record.Whitelisted, nil
}

func (s *registryService) RiskScore(ctx context.Context, agent string) (uint16, error) {
	record, err := s.repoManager.AgentRepository().GetAgent(ctx, agent)
	if err != nil {
		return 0, err
	}
	if record == nil {
		return 0, domain.ErrAgentNotEligible
	}
	return record.RiskScoreBps, nil
}

func (s *registryService) GetAgent(ctx context.Context, agent string) (*AgentInfo, error) {
	record, err := s.repoManager.AgentRepository().GetAgent(ctx, agent)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrAgentNotEligible
	}
	info := s.agentInfo(ctx, record)
	return &info, nil
}

func (s *registryService) ListAgents(ctx context.Context) ([]AgentInfo, error) {
	records, err := s.repoManager.AgentRepository().GetAllAgents(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]AgentInfo, 0, len(records))
	for i := range records {
		infos = append(infos, s.agentInfo(ctx, &records[i]))
	}
	return infos, nil
}

func (s *registryService) agentInfo(ctx context.Context, a *domain.Agent) AgentInfo {
	amount, locked, err := s.vault.GetStandingBond(ctx, a.Address)
	if err != nil {
		log.WithError(err).Warn("failed to read standing bond for ", a.Address)
	}
	return AgentInfo{
		Address:        a.Address,
		Whitelisted:    a.Whitelisted,
		RiskScoreBps:   a.RiskScoreBps,
		FeeScheduleCid: a.FeeScheduleCid,
		StandingBond:   amount,
		LockedBond:     locked,
	}
}
