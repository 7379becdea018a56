package domain

import "context"

// DisputeRepository is the abstraction for any kind of database intended to
// persist Disputes.
type DisputeRepository interface {
	// GetOrCreateDispute returns the dispute record for the order, creating
	// an empty one if not found.
	GetOrCreateDispute(ctx context.Context, orderId uint64) (*Dispute, error)
	// GetDispute returns the dispute for the order, or nil if none exists.
	GetDispute(ctx context.Context, orderId uint64) (*Dispute, error)
	// UpdateDispute commits multiple changes to the same dispute in a
	// transactional way.
	UpdateDispute(
		ctx context.Context, orderId uint64,
		updateFn func(d *Dispute) (*Dispute, error),
	) error
}
