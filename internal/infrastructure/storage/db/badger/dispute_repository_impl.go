package dbbadger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
	"github.com/zeta-network/zetad/internal/core/domain"
)

type disputeRepositoryImpl struct {
	db *repoManager
}

// NewDisputeRepositoryImpl returns a new badger DisputeRepository
// implementation.
func NewDisputeRepositoryImpl(db *repoManager) domain.DisputeRepository {
	return disputeRepositoryImpl{db}
}

func (r disputeRepositoryImpl) GetOrCreateDispute(
	ctx context.Context, orderId uint64,
) (*domain.Dispute, error) {
	dispute, err := r.GetDispute(ctx, orderId)
	if err != nil {
		return nil, err
	}
	if dispute != nil {
		return dispute, nil
	}

	newDispute := domain.NewDispute(orderId)
	if err := r.upsertDispute(ctx, *newDispute); err != nil {
		return nil, err
	}
	return newDispute, nil
}

func (r disputeRepositoryImpl) GetDispute(
	ctx context.Context, orderId uint64,
) (*domain.Dispute, error) {
	var dispute domain.Dispute
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.db.store.TxGet(tx, orderId, &dispute)
	} else {
		err = r.db.store.Get(orderId, &dispute)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dispute, nil
}

func (r disputeRepositoryImpl) UpdateDispute(
	ctx context.Context, orderId uint64,
	updateFn func(d *domain.Dispute) (*domain.Dispute, error),
) error {
	current, err := r.GetOrCreateDispute(ctx, orderId)
	if err != nil {
		return err
	}
	updated, err := updateFn(current)
	if err != nil {
		return err
	}
	return r.upsertDispute(ctx, *updated)
}

func (r disputeRepositoryImpl) upsertDispute(
	ctx context.Context, dispute domain.Dispute,
) error {
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return r.db.store.TxUpsert(tx, dispute.OrderId, dispute)
	}
	return r.db.store.Upsert(dispute.OrderId, dispute)
}
