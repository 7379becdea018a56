package inmemory

import (
	"context"
	"errors"

	"github.com/zeta-network/zetad/internal/core/domain"
)

var (
	// ErrPolicyAlreadyInitialized is returned when initializing the policy
	// singleton twice.
	ErrPolicyAlreadyInitialized = errors.New("policy is already initialized")
	// ErrPolicyNotFound is returned when updating a missing policy.
	ErrPolicyNotFound = errors.New("policy not found")
)

type policyRepositoryImpl struct {
	store *repoStore
}

// NewPolicyRepositoryImpl returns a new inmemory PolicyRepository
// implementation.
func NewPolicyRepositoryImpl(store *repoStore) domain.PolicyRepository {
	return &policyRepositoryImpl{store}
}

func (r *policyRepositoryImpl) GetPolicy(_ context.Context) (*domain.Policy, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if r.store.state.Policy == nil {
		return nil, nil
	}
	policy := &domain.Policy{}
	if err := clone(r.store.state.Policy, policy); err != nil {
		return nil, err
	}
	return policy, nil
}

func (r *policyRepositoryImpl) InitPolicy(
	_ context.Context, policy *domain.Policy,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if r.store.state.Policy != nil {
		return ErrPolicyAlreadyInitialized
	}
	stored := &domain.Policy{}
	if err := clone(policy, stored); err != nil {
		return err
	}
	r.store.state.Policy = stored
	return nil
}

func (r *policyRepositoryImpl) UpdatePolicy(
	_ context.Context, updateFn func(p *domain.Policy) (*domain.Policy, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if r.store.state.Policy == nil {
		return ErrPolicyNotFound
	}
	current := &domain.Policy{}
	if err := clone(r.store.state.Policy, current); err != nil {
		return err
	}
	updated, err := updateFn(current)
	if err != nil {
		return err
	}
	r.store.state.Policy = updated
	return nil
}
