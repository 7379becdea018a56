package domain

import "context"

// OrderRepository is the abstraction for any kind of database intended to
// persist Orders.
type OrderRepository interface {
	// AddOrder inserts the order assigning it the next monotonic id, which
	// is set on the entity and returned.
	AddOrder(ctx context.Context, order *Order) (uint64, error)
	// GetOrder returns the order with the given id, or nil if unknown.
	GetOrder(ctx context.Context, id uint64) (*Order, error)
	// GetAllOrders returns every order.
	GetAllOrders(ctx context.Context) ([]Order, error)
	// GetOrdersForUser returns the orders created by the given buyer.
	GetOrdersForUser(ctx context.Context, user string) ([]Order, error)
	// UpdateOrder commits multiple changes to the same order in a
	// transactional way.
	UpdateOrder(
		ctx context.Context, id uint64,
		updateFn func(o *Order) (*Order, error),
	) error
}
