package dbbadger

import (
	"context"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
	"github.com/zeta-network/zetad/internal/core/domain"
)

type payoutRepositoryImpl struct {
	db *repoManager
}

// NewPayoutRepositoryImpl returns a new badger PayoutRepository
// implementation.
func NewPayoutRepositoryImpl(db *repoManager) domain.PayoutRepository {
	return payoutRepositoryImpl{db}
}

func (r payoutRepositoryImpl) AddPayouts(
	ctx context.Context, payouts []domain.Payout,
) error {
	for _, payout := range payouts {
		var err error
		if ctx.Value("tx") != nil {
			tx := ctx.Value("tx").(*badger.Txn)
			err = r.db.store.TxInsert(tx, badgerhold.NextSequence(), payout)
		} else {
			err = r.db.store.Insert(badgerhold.NextSequence(), payout)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r payoutRepositoryImpl) GetPayoutsForOrder(
	ctx context.Context, orderId uint64,
) ([]domain.Payout, error) {
	query := badgerhold.Where("OrderId").Eq(orderId)

	var payouts []domain.Payout
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.db.store.TxFind(tx, &payouts, query)
	} else {
		err = r.db.store.Find(&payouts, query)
	}
	if err != nil {
		return nil, err
	}
	sort.Slice(payouts, func(i, j int) bool { return payouts[i].At < payouts[j].At })
	return payouts, nil
}
