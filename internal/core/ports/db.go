package ports

import (
	"context"

	"github.com/zeta-network/zetad/internal/core/domain"
)

// RepoManager gives access to every repository and to the transaction
// boundary shared by all of them. One public service entry point maps to one
// transaction.
type RepoManager interface {
	PolicyRepository() domain.PolicyRepository
	AgentRepository() domain.AgentRepository
	OrderRepository() domain.OrderRepository
	EscrowRepository() domain.EscrowRepository
	BondRepository() domain.BondRepository
	DisputeRepository() domain.DisputeRepository
	PayoutRepository() domain.PayoutRepository

	// RunTransaction executes the handler atomically: either every write
	// performed through the repositories is committed, or none is.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}

// Transaction defines the methods to commit or discard a database
// transaction.
type Transaction interface {
	Commit() error
	Discard()
}
