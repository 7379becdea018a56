package inmemory

import (
	"context"

	"github.com/zeta-network/zetad/internal/core/domain"
)

type payoutRepositoryImpl struct {
	store *repoStore
}

// NewPayoutRepositoryImpl returns a new inmemory PayoutRepository
// implementation.
func NewPayoutRepositoryImpl(store *repoStore) domain.PayoutRepository {
	return &payoutRepositoryImpl{store}
}

func (r *payoutRepositoryImpl) AddPayouts(
	_ context.Context, payouts []domain.Payout,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	for _, payout := range payouts {
		r.store.state.Payouts[payout.OrderId] = append(
			r.store.state.Payouts[payout.OrderId], payout,
		)
	}
	return nil
}

func (r *payoutRepositoryImpl) GetPayoutsForOrder(
	_ context.Context, orderId uint64,
) ([]domain.Payout, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	payouts := make([]domain.Payout, len(r.store.state.Payouts[orderId]))
	copy(payouts, r.store.state.Payouts[orderId])
	return payouts, nil
}
