package domain

import "context"

// EscrowRepository is the abstraction for any kind of database intended to
// persist EscrowLocks. Only the vault writes through it.
type EscrowRepository interface {
	// AddEscrow inserts the lock for its order id. Fails if one exists.
	AddEscrow(ctx context.Context, lock *EscrowLock) error
	// GetEscrow returns the lock for the given order, or nil if unknown.
	GetEscrow(ctx context.Context, orderId uint64) (*EscrowLock, error)
	// UpdateEscrow commits multiple changes to the same lock in a
	// transactional way.
	UpdateEscrow(
		ctx context.Context, orderId uint64,
		updateFn func(l *EscrowLock) (*EscrowLock, error),
	) error
}

// BondRepository is the abstraction for any kind of database intended to
// persist StandingBonds. Only the vault writes through it.
type BondRepository interface {
	// GetOrCreateBond returns the agent's bond, creating a zero one if not
	// found.
	GetOrCreateBond(ctx context.Context, agent string) (*StandingBond, error)
	// GetBond returns the agent's bond, or nil if the agent never deposited.
	GetBond(ctx context.Context, agent string) (*StandingBond, error)
	// UpdateBond commits multiple changes to the same bond in a
	// transactional way.
	UpdateBond(
		ctx context.Context, agent string,
		updateFn func(b *StandingBond) (*StandingBond, error),
	) error
}
