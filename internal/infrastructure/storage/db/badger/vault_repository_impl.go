package dbbadger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
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
	db *repoManager
}

// NewEscrowRepositoryImpl returns a new badger EscrowRepository
// implementation.
func NewEscrowRepositoryImpl(db *repoManager) domain.EscrowRepository {
	return escrowRepositoryImpl{db}
}

func (r escrowRepositoryImpl) AddEscrow(
	ctx context.Context, lock *domain.EscrowLock,
) error {
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.db.store.TxInsert(tx, lock.OrderId, *lock)
	} else {
		err = r.db.store.Insert(lock.OrderId, *lock)
	}
	if errors.Is(err, badgerhold.ErrKeyExists) {
		return ErrEscrowAlreadyExists
	}
	return err
}

func (r escrowRepositoryImpl) GetEscrow(
	ctx context.Context, orderId uint64,
) (*domain.EscrowLock, error) {
	var lock domain.EscrowLock
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.db.store.TxGet(tx, orderId, &lock)
	} else {
		err = r.db.store.Get(orderId, &lock)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &lock, nil
}

func (r escrowRepositoryImpl) UpdateEscrow(
	ctx context.Context, orderId uint64,
	updateFn func(l *domain.EscrowLock) (*domain.EscrowLock, error),
) error {
	current, err := r.GetEscrow(ctx, orderId)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrEscrowNotFound
	}
	updated, err := updateFn(current)
	if err != nil {
		return err
	}

	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return r.db.store.TxUpdate(tx, orderId, *updated)
	}
	return r.db.store.Update(orderId, *updated)
}

type bondRepositoryImpl struct {
	db *repoManager
}

// NewBondRepositoryImpl returns a new badger BondRepository implementation.
func NewBondRepositoryImpl(db *repoManager) domain.BondRepository {
	return bondRepositoryImpl{db}
}

func (r bondRepositoryImpl) GetOrCreateBond(
	ctx context.Context, agent string,
) (*domain.StandingBond, error) {
	bond, err := r.GetBond(ctx, agent)
	if err != nil {
		return nil, err
	}
	if bond != nil {
		return bond, nil
	}

	newBond := domain.StandingBond{Agent: agent}
	if err := r.upsertBond(ctx, newBond); err != nil {
		return nil, err
	}
	return &newBond, nil
}

func (r bondRepositoryImpl) GetBond(
	ctx context.Context, agent string,
) (*domain.StandingBond, error) {
	var bond domain.StandingBond
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.db.store.TxGet(tx, agent, &bond)
	} else {
		err = r.db.store.Get(agent, &bond)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bond, nil
}

func (r bondRepositoryImpl) UpdateBond(
	ctx context.Context, agent string,
	updateFn func(b *domain.StandingBond) (*domain.StandingBond, error),
) error {
	current, err := r.GetOrCreateBond(ctx, agent)
	if err != nil {
		return err
	}
	updated, err := updateFn(current)
	if err != nil {
		return err
	}
	return r.upsertBond(ctx, *updated)
}

func (r bondRepositoryImpl) upsertBond(
	ctx context.Context, bond domain.StandingBond,
) error {
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return r.db.store.TxUpsert(tx, bond.Agent, bond)
	}
	return r.db.store.Upsert(bond.Agent, bond)
}
