package dbbadger

import (
	"context"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
	"github.com/zeta-network/zetad/internal/core/domain"
)

type agentRepositoryImpl struct {
	db *repoManager
}

// NewAgentRepositoryImpl returns a new badger AgentRepository
// implementation.
func NewAgentRepositoryImpl(db *repoManager) domain.AgentRepository {
	return agentRepositoryImpl{db}
}

func (r agentRepositoryImpl) GetOrCreateAgent(
	ctx context.Context, address string,
) (*domain.Agent, error) {
	agent, err := r.GetAgent(ctx, address)
	if err != nil {
		return nil, err
	}
	if agent != nil {
		return agent, nil
	}

	newAgent := domain.Agent{Address: address}
	if err := r.upsertAgent(ctx, newAgent); err != nil {
		return nil, err
	}
	return &newAgent, nil
}

func (r agentRepositoryImpl) GetAgent(
	ctx context.Context, address string,
) (*domain.Agent, error) {
	var agent domain.Agent
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.db.store.TxGet(tx, address, &agent)
	} else {
		err = r.db.store.Get(address, &agent)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &agent, nil
}

func (r agentRepositoryImpl) GetAllAgents(ctx context.Context) ([]domain.Agent, error) {
	var agents []domain.Agent
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.db.store.TxFind(tx, &agents, nil)
	} else {
		err = r.db.store.Find(&agents, nil)
	}
	if err != nil {
		return nil, err
	}
	sort.Slice(agents, func(i, j int) bool {
		return agents[i].Address < agents[j].Address
	})
	return agents, nil
}

func (r agentRepositoryImpl) UpdateAgent(
	ctx context.Context, address string,
	updateFn func(a *domain.Agent) (*domain.Agent, error),
) error {
	current, err := r.GetOrCreateAgent(ctx, address)
	if err != nil {
		return err
	}
	updated, err := updateFn(current)
	if err != nil {
		return err
	}
	return r.upsertAgent(ctx, *updated)
}

func (r agentRepositoryImpl) upsertAgent(ctx context.Context, agent domain.Agent) error {
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return r.db.store.TxUpsert(tx, agent.Address, agent)
	}
	return r.db.store.Upsert(agent.Address, agent)
}
