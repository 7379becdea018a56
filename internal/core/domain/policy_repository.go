package domain

import "context"

// PolicyRepository is the abstraction for any kind of database intended to
// persist the Policy singleton.
type PolicyRepository interface {
	// GetPolicy returns the policy singleton, or nil if never initialized.
	GetPolicy(ctx context.Context) (*Policy, error)
	// InitPolicy stores the policy singleton if not already present.
	InitPolicy(ctx context.Context, policy *Policy) error
	// UpdatePolicy commits multiple changes to the policy in a transactional
	// way.
	UpdatePolicy(
		ctx context.Context, updateFn func(p *Policy) (*Policy, error),
	) error
}
