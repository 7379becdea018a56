package dbbadger

import (
	"context"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
	"github.com/zeta-network/zetad/internal/core/domain"
)

// ErrOrderNotFound is returned when updating a missing order.
var ErrOrderNotFound = errors.New("order not found")

type orderRepositoryImpl struct {
	db *repoManager
}

// NewOrderRepositoryImpl returns a new badger OrderRepository
// implementation.
func NewOrderRepositoryImpl(db *repoManager) domain.OrderRepository {
	return orderRepositoryImpl{db}
}

func (r orderRepositoryImpl) AddOrder(
	ctx context.Context, order *domain.Order,
) (uint64, error) {
	id, err := r.db.nextOrderId()
	if err != nil {
		return 0, err
	}
	order.Id = id

	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.db.store.TxInsert(tx, id, *order)
	} else {
		err = r.db.store.Insert(id, *order)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r orderRepositoryImpl) GetOrder(
	ctx context.Context, id uint64,
) (*domain.Order, error) {
	var order domain.Order
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.db.store.TxGet(tx, id, &order)
	} else {
		err = r.db.store.Get(id, &order)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r orderRepositoryImpl) GetAllOrders(ctx context.Context) ([]domain.Order, error) {
	return r.findOrders(ctx, nil)
}

func (r orderRepositoryImpl) GetOrdersForUser(
	ctx context.Context, user string,
) ([]domain.Order, error) {
	return r.findOrders(ctx, badgerhold.Where("User").Eq(user))
}

func (r orderRepositoryImpl) UpdateOrder(
	ctx context.Context, id uint64,
	updateFn func(o *domain.Order) (*domain.Order, error),
) error {
	current, err := r.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrOrderNotFound
	}
	updated, err := updateFn(current)
	if err != nil {
		return err
	}

	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return r.db.store.TxUpdate(tx, id, *updated)
	}
	return r.db.store.Update(id, *updated)
}

func (r orderRepositoryImpl) findOrders(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.Order, error) {
	var orders []domain.Order
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.db.store.TxFind(tx, &orders, query)
	} else {
		err = r.db.store.Find(&orders, query)
	}
	if err != nil {
		return nil, err
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].Id < orders[j].Id })
	return orders, nil
}
