package application

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/zeta-network/zetad/internal/core/domain"
	"github.com/zeta-network/zetad/internal/core/ports"
)

// PolicyService manages the protocol parameters, the role capability set,
// the ban flags and the global pause switch.
type PolicyService interface {
	GetParams(ctx context.Context) (domain.PolicyParams, error)
	SetParams(ctx context.Context, caller string, params domain.PolicyParams) error
	GrantRole(ctx context.Context, caller string, role int, identity string) error
	RevokeRole(ctx context.Context, caller string, role int, identity string) error
	RenounceRole(ctx context.Context, caller string, role int) error
	HasRole(ctx context.Context, role int, identity string) (bool, error)
	Pause(ctx context.Context, caller string) error
	Unpause(ctx context.Context, caller string) error
	BanUser(ctx context.Context, caller, user string, banned bool) error
	BanAgent(ctx context.Context, caller, agent string, banned bool) error
}

type policyService struct {
	repoManager ports.RepoManager
}

// NewPolicyService bootstraps the policy singleton if missing, granting
// every role to the given admin, and returns the service.
func NewPolicyService(
	repoManager ports.RepoManager,
	admin string, params domain.PolicyParams,
) (PolicyService, error) {
	ctx := context.Background()
	if _, err := repoManager.RunTransaction(
		ctx, false,
		func(ctx context.Context) (interface{}, error) {
			policy, err := repoManager.PolicyRepository().GetPolicy(ctx)
			if err != nil {
				return nil, err
			}
			if policy != nil {
				return nil, nil
			}
			policy, err = domain.NewPolicy(admin, params)
			if err != nil {
				return nil, err
			}
			log.Info("initializing policy with admin ", admin)
			return nil, repoManager.PolicyRepository().InitPolicy(ctx, policy)
		},
	); err != nil {
		return nil, err
	}
	return &policyService{repoManager}, nil
}

func (s *policyService) GetParams(ctx context.Context) (domain.PolicyParams, error) {
	policy, err := getPolicy(ctx, s.repoManager)
	if err != nil {
		return domain.PolicyParams{}, err
	}
	return policy.Params, nil
}

func (s *policyService) SetParams(
	ctx context.Context, caller string, params domain.PolicyParams,
) error {
	return s.updatePolicy(ctx, func(p *domain.Policy) error {
		return p.SetParams(caller, params)
	})
}

func (s *policyService) GrantRole(
	ctx context.Context, caller string, role int, identity string,
) error {
	return s.updatePolicy(ctx, func(p *domain.Policy) error {
		return p.GrantRole(caller, role, identity)
	})
}

func (s *policyService) RevokeRole(
	ctx context.Context, caller string, role int, identity string,
) error {
	return s.updatePolicy(ctx, func(p *domain.Policy) error {
		return p.RevokeRole(caller, role, identity)
	})
}

func (s *policyService) RenounceRole(
	ctx context.Context, caller string, role int,
) error {
	return s.updatePolicy(ctx, func(p *domain.Policy) error {
		return p.RenounceRole(caller, role)
	})
}

func (s *policyService) HasRole(
	ctx context.Context, role int, identity string,
) (bool, error) {
	policy, err := getPolicy(ctx, s.repoManager)
	if err != nil {
		return false, err
	}
	return policy.HasRole(role, identity), nil
}

func (s *policyService) Pause(ctx context.Context, caller string) error {
	if err := s.updatePolicy(ctx, func(p *domain.Policy) error {
		return p.Pause(caller)
	}); err != nil {
		return err
	}
	log.Info("protocol paused by ", caller)
	return nil
}

func (s *policyService) Unpause(ctx context.Context, caller string) error {
	if err := s.updatePolicy(ctx, func(p *domain.Policy) error {
		return p.Unpause(caller)
	}); err != nil {
		return err
	}
	log.Info("protocol unpaused by ", caller)
	return nil
}

func (s *policyService) BanUser(
	ctx context.Context, caller, user string, banned bool,
) error {
	return s.updatePolicy(ctx, func(p *domain.Policy) error {
		return p.BanUser(caller, user, banned)
	})
}

func (s *policyService) BanAgent(
	ctx context.Context, caller, agent string, banned bool,
) error {
	return s.updatePolicy(ctx, func(p *domain.Policy) error {
		return p.BanAgent(caller, agent, banned)
	})
}

func (s *policyService) updatePolicy(
	ctx context.Context, apply func(p *domain.Policy) error,
) error {
	_, err := s.repoManager.RunTransaction(
		ctx, false,
		func(ctx context.Context) (interface{}, error) {
			return nil, s.repoManager.PolicyRepository().UpdatePolicy(
				ctx,
				func(p *domain.Policy) (*domain.Policy, error) {
					if err := apply(p); err != nil {
						return nil, err
					}
					return p, nil
				},
			)
		},
	)
	return err
}

// getPolicy returns the policy singleton from storage.
func getPolicy(ctx context.Context, repoManager ports.RepoManager) (*domain.Policy, error) {
	policy, err := repoManager.PolicyRepository().GetPolicy(ctx)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, ErrPolicyNotInitialized
	}
	return policy, nil
}

// requireUnpaused fails any state-changing call while the kill-switch is on.
func requireUnpaused(policy *domain.Policy) error {
	if policy.IsPaused() {
		return domain.ErrPaused
	}
	return nil
}

// requireRole fails with Unauthorized unless the identity holds one of the
// given roles.
func requireRole(policy *domain.Policy, identity string, roles ...int) error {
	for _, role := range roles {
		if policy.HasRole(role, identity) {
			return nil
		}
	}
	return domain.ErrUnauthorized
}

// requireEligibleAgent fails unless the agent is whitelisted and not banned.
func requireEligibleAgent(
	ctx context.Context, repoManager ports.RepoManager,
	policy *domain.Policy, agent string,
) error {
	if policy.IsAgentBanned(agent) {
		return domain.ErrBannedActor
	}
	record, err := repoManager.AgentRepository().GetAgent(ctx, agent)
	if err != nil {
		return err
	}
	if record == nil || !record.Whitelisted {
		return domain.ErrAgentNotEligible
	}
	return nil
}
