package domain

import "context"

// AgentRepository is the abstraction for any kind of database intended to
// persist Agents.
type AgentRepository interface {
	// GetOrCreateAgent returns the agent with the given address, creating an
	// empty unlisted record if not found.
	GetOrCreateAgent(ctx context.Context, address string) (*Agent, error)
	// GetAgent returns the agent with the given address, or nil if unknown.
	GetAgent(ctx context.Context, address string) (*Agent, error)
	// GetAllAgents returns every agent record.
	GetAllAgents(ctx context.Context) ([]Agent, error)
	// UpdateAgent commits multiple changes to the same agent in a
	// transactional way.
	UpdateAgent(
		ctx context.Context, address string,
		updateFn func(a *Agent) (*Agent, error),
	) error
}
