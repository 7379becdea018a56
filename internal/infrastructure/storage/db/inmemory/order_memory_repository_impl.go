package inmemory

import (
	"context"
	"errors"
	"sort"

	"github.com/zeta-network/zetad/internal/core/domain"
)

// ErrOrderNotFound is returned when updating a missing order.
var ErrOrderNotFound = errors.New("order not found")

type orderRepositoryImpl struct {
	store *repoStore
}

// NewOrderRepositoryImpl returns a new inmemory OrderRepository
// implementation.
func NewOrderRepositoryImpl(store *repoStore) domain.OrderRepository {
	return &orderRepositoryImpl{store}
}

func (r *orderRepositoryImpl) AddOrder(
	_ context.Context, order *domain.Order,
) (uint64, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	r.store.state.NextOrderId++
	order.Id = r.store.state.NextOrderId

	stored := domain.Order{}
	if err := clone(order, &stored); err != nil {
		return 0, err
	}
	r.store.state.Orders[order.Id] = stored
	return order.Id, nil
}

func (r *orderRepositoryImpl) GetOrder(
	_ context.Context, id uint64,
) (*domain.Order, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	return r.getOrder(id)
}

func (r *orderRepositoryImpl) GetAllOrders(_ context.Context) ([]domain.Order, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	orders := make([]domain.Order, 0, len(r.store.state.Orders))
	for id := range r.store.state.Orders {
		order, err := r.getOrder(id)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].Id < orders[j].Id })
	return orders, nil
}

func (r *orderRepositoryImpl) GetOrdersForUser(
	_ context.Context, user string,
) ([]domain.Order, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	orders := make([]domain.Order, 0)
	for id, order := range r.store.state.Orders {
		if order.User != user {
			continue
		}
		cp, err := r.getOrder(id)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *cp)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].Id < orders[j].Id })
	return orders, nil
}

func (r *orderRepositoryImpl) UpdateOrder(
	_ context.Context, id uint64,
	updateFn func(o *domain.Order) (*domain.Order, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	current, err := r.getOrder(id)
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
	r.store.state.Orders[id] = *updated
	return nil
}

func (r *orderRepositoryImpl) getOrder(id uint64) (*domain.Order, error) {
	order, ok := r.store.state.Orders[id]
	if !ok {
		return nil, nil
	}
	cp := &domain.Order{}
	if err := clone(order, cp); err != nil {
		return nil, err
	}
	return cp, nil
}
