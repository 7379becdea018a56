package application

// Topics published on the pubsub service, one per state transition, so the
// external read mirror can replay the full lifecycle.
const (
	OrderCreated = iota
	QuoteCommitted
	QuoteRevealed
	AgentSelected
	OrderAccepted
	UserFunded
	OrderPaid
	HoldbackReleased
	Slashed
	OrderCancelled
	ClaimOpened
	PoDSubmitted
	DisputeResolved
	AgentWhitelisted
	AgentUnlisted
	BondDeposited
	BondWithdrawn
)
