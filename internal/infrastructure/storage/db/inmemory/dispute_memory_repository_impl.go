package inmemory

import (
	"context"
	"errors"

	"github.com/zeta-network/zetad/internal/core/domain"
)

// ErrDisputeNotFound is returned when updating a missing dispute record.
var ErrDisputeNotFound = errors.New("dispute not found")

type disputeRepositoryImpl struct {
	store *repoStore
}

// NewDisputeRepositoryImpl returns a new inmemory DisputeRepository
// implementation.
func NewDisputeRepositoryImpl(store *repoStore) domain.DisputeRepository {
	return &disputeRepositoryImpl{store}
}

func (r *disputeRepositoryImpl) GetOrCreateDispute(
	_ context.Context, orderId uint64,
) (*domain.Dispute, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.state.Disputes[orderId]; !ok {
		r.store.state.Disputes[orderId] = *domain.NewDispute(orderId)
	}
	return r.getDispute(orderId)
}

func (r *disputeRepositoryImpl) GetDispute(
	_ context.Context, orderId uint64,
) (*domain.Dispute, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	return r.getDispute(orderId)
}

func (r *disputeRepositoryImpl) UpdateDispute(
	_ context.Context, orderId uint64,
	updateFn func(d *domain.Dispute) (*domain.Dispute, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	current, err := r.getDispute(orderId)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrDisputeNotFound
	}
	updated, err := updateFn(current)
	if err != nil {
		return err
	}
	r.store.state.Disputes[orderId] = *updated
	return nil
}

func (r *disputeRepositoryImpl) getDispute(orderId uint64) (*domain.Dispute, error) {
	dispute, ok := r.store.state.Disputes[orderId]
	if !ok {
		return nil, nil
	}
	cp := &domain.Dispute{}
	if err := clone(dispute, cp); err != nil {
		return nil, err
	}
	return cp, nil
}
