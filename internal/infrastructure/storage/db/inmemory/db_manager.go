package inmemory

import (
	"context"
	"sync"

	"github.com/zeta-network/zetad/internal/core/domain"
	"github.com/zeta-network/zetad/internal/core/ports"
)

// RepoManager is the in memory implementation of the storage layer, meant
// for tests and ephemeral deployments.
type RepoManager struct {
	store *repoStore
	// Serializes transactions so the snapshot taken at the start is the
	// state restored on failure.
	txLocker sync.Mutex

	policyRepository  domain.PolicyRepository
	agentRepository   domain.AgentRepository
	orderRepository   domain.OrderRepository
	escrowRepository  domain.EscrowRepository
	bondRepository    domain.BondRepository
	disputeRepository domain.DisputeRepository
	payoutRepository  domain.PayoutRepository
}

// NewRepoManager returns a new empty in memory RepoManager.
func NewRepoManager() ports.RepoManager {
	store := newRepoStore()

	return &RepoManager{
		store:             store,
		policyRepository:  NewPolicyRepositoryImpl(store),
		agentRepository:   NewAgentRepositoryImpl(store),
		orderRepository:   NewOrderRepositoryImpl(store),
		escrowRepository:  NewEscrowRepositoryImpl(store),
		bondRepository:    NewBondRepositoryImpl(store),
		disputeRepository: NewDisputeRepositoryImpl(store),
		payoutRepository:  NewPayoutRepositoryImpl(store),
	}
}

func (d *RepoManager) PolicyRepository() domain.PolicyRepository {
	return d.policyRepository
}

func (d *RepoManager) AgentRepository() domain.AgentRepository {
	return d.agentRepository
}

func (d *RepoManager) OrderRepository() domain.OrderRepository {
	return d.orderRepository
}

func (d *RepoManager) EscrowRepository() domain.EscrowRepository {
	return d.escrowRepository
}

func (d *RepoManager) BondRepository() domain.BondRepository {
	return d.bondRepository
}

func (d *RepoManager) DisputeRepository() domain.DisputeRepository {
	return d.disputeRepository
}

func (d *RepoManager) PayoutRepository() domain.PayoutRepository {
	return d.payoutRepository
}

// RunTransaction serializes the handler against every other transaction and
// restores the pre-transaction state if it fails.
func (d *RepoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	d.txLocker.Lock()
	defer d.txLocker.Unlock()

	var snap []byte
	if !readOnly {
		s, err := d.store.snapshot()
		if err != nil {
			return nil, err
		}
		snap = s
	}

	res, err := handler(ctx)
	if err != nil {
		if !readOnly {
			if restoreErr := d.store.restore(snap); restoreErr != nil {
				return nil, restoreErr
			}
		}
		return nil, err
	}
	return res, nil
}

func (d *RepoManager) Close() {}
