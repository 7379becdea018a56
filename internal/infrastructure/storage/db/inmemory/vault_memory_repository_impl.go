package inmemory

import (
	"context"
	"errors"

	"github.com/zeta-network/zetad/internal/core/domain"
)

var (
	// ErrEscrowAlreadyExists is returned when adding a second lock for the
	// same order.
	ErrEscrowAlreadyExists = errors.New("escrow lock already exists")
	// ErrEscrowNotFound is returned when updating a missing lock.
	ErrEscrowNotFound = errors.New("escrow lock not found")
)

type escrowRepositoryImpl struct {
	store *repoStore
}

// NewEscrowRepositoryImpl returns a new inmemory EscrowRepository
// implementation.
func NewEscrowRepositoryImpl(store *repoStore) domain.EscrowRepository {
	return &escrowRepositoryImpl{store}
}

func (r *escrowRepositoryImpl) AddEscrow(
	_ context.Context, lock *domain.EscrowLock,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.state.Escrows[lock.OrderId]; ok {
		return ErrEscrowAlreadyExists
	}
	r.store.state.Escrows[lock.OrderId] = *lock
	return nil
}

func (r *escrowRepositoryImpl) GetEscrow(
	_ context.Context, orderId uint64,
) (*domain.EscrowLock, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	lock, ok := r.store.state.Escrows[orderId]
	if !ok {
		return nil, nil
	}
	return &lock, nil
}

func (r *escrowRepositoryImpl) UpdateEscrow(
	_ context.Context, orderId uint64,
	updateFn func(l *domain.EscrowLock) (*domain.EscrowLock, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	current, ok := r.store.state.Escrows[orderId]
	if !ok {
		return ErrEscrowNotFound
	}
	updated, err := updateFn(&current)
	if err != nil {
		return err
	}
	r.store.state.Escrows[orderId] = *updated
	return nil
}

type bondRepositoryImpl struct {
	store *repoStore
}

// NewBondRepositoryImpl returns a new inmemory BondRepository
// implementation.
func NewBondRepositoryImpl(store *repoStore) domain.BondRepository {
	return &bondRepositoryImpl{store}
}

func (r *bondRepositoryImpl) GetOrCreateBond(
	_ context.Context, agent string,
) (*domain.StandingBond, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.state.Bonds[agent]; !ok {
		r.store.state.Bonds[agent] = domain.StandingBond{Agent: agent}
	}
	bond := r.store.state.Bonds[agent]
	return &bond, nil
}

func (r *bondRepositoryImpl) GetBond(
	_ context.Context, agent string,
) (*domain.StandingBond, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	bond, ok := r.store.state.Bonds[agent]
	if !ok {
		return nil, nil
	}
	return &bond, nil
}

func (r *bondRepositoryImpl) UpdateBond(
	_ context.Context, agent string,
	updateFn func(b *domain.StandingBond) (*domain.StandingBond, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	current, ok := r.store.state.Bonds[agent]
	if !ok {
		current = domain.StandingBond{Agent: agent}
	}
	updated, err := updateFn(&current)
	if err != nil {
		return err
	}
	r.store.state.Bonds[agent] = *updated
	return nil
}
