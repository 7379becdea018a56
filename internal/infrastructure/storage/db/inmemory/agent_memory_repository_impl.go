package inmemory

import (
	"context"
	"errors"
	"sort"

	"github.com/zeta-network/zetad/internal/core/domain"
)

// ErrAgentNotFound is returned when updating a missing agent record.
var ErrAgentNotFound = errors.New("agent not found")

type agentRepositoryImpl struct {
	store *repoStore
}

// NewAgentRepositoryImpl returns a new inmemory AgentRepository
// implementation.
func NewAgentRepositoryImpl(store *repoStore) domain.AgentRepository {
	return &agentRepositoryImpl{store}
}

func (r *agentRepositoryImpl) GetOrCreateAgent(
	_ context.Context, address string,
) (*domain.Agent, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.state.Agents[address]; !ok {
		r.store.state.Agents[address] = domain.Agent{Address: address}
	}
	agent := r.store.state.Agents[address]
	return &agent, nil
}

func (r *agentRepositoryImpl) GetAgent(
	_ context.Context, address string,
) (*domain.Agent, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	agent, ok := r.store.state.Agents[address]
	if !ok {
		return nil, nil
	}
	return &agent, nil
}

func (r *agentRepositoryImpl) GetAllAgents(_ context.Context) ([]domain.Agent, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	agents := make([]domain.Agent, 0, len(r.store.state.Agents))
	for _, agent := range r.store.state.Agents {
		agents = append(agents, agent)
	}
	sort.Slice(agents, func(i, j int) bool {
		return agents[i].Address < agents[j].Address
	})
	return agents, nil
}

func (r *agentRepositoryImpl) UpdateAgent(
	_ context.Context, address string,
	updateFn func(a *domain.Agent) (*domain.Agent, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	current, ok := r.store.state.Agents[address]
	if !ok {
		current = domain.Agent{Address: address}
	}
	updated, err := updateFn(&current)
	if err != nil {
		return err
	}
	r.store.state.Agents[address] = *updated
	return nil
}
