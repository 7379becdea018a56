package domain

import "errors"

var (
	// ErrUnauthorized is thrown when the caller lacks the role or identity
	// required by the operation.
	ErrUnauthorized = errors.New("caller is not authorized for this operation")
	// ErrPaused is thrown by any state-changing operation while the global
	// pause switch is on.
	ErrPaused = errors.New("protocol is paused")
	// ErrBannedActor is thrown when the acting user or agent is banned.
	ErrBannedActor = errors.New("actor is banned")
	// ErrAgentNotEligible is thrown when the agent is not whitelisted or its
	// bond does not cover the operation.
	ErrAgentNotEligible = errors.New("agent is not eligible")
	// ErrInvalidState is thrown when an operation is attempted outside the
	// lifecycle state that permits it.
	ErrInvalidState = errors.New("operation not allowed in current state")
	// ErrCommitMismatch is thrown when a revealed quote does not hash to the
	// stored commitment.
	ErrCommitMismatch = errors.New("revealed quote does not match commitment")
	// ErrCommitExpired is thrown when revealing after the commitment ttl.
	ErrCommitExpired = errors.New("commitment ttl has elapsed")
	// ErrWindowNotElapsed is thrown when a time-gated operation is attempted
	// before its window has closed.
	ErrWindowNotElapsed = errors.New("time window has not elapsed yet")
	// ErrWindowExpired is thrown when a time-boxed operation is attempted
	// after its window has closed.
	ErrWindowExpired = errors.New("time window has expired")
	// ErrInsufficientFunds ...
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrAmountMismatch is thrown when a provided amount does not equal the
	// expected obligation.
	ErrAmountMismatch = errors.New("amount does not match expected total")
	// ErrAlreadyFinalized guards against double payouts.
	ErrAlreadyFinalized = errors.New("funds have already been finalized")
	// ErrInsufficientUnlockedBond is thrown when a bond withdrawal exceeds
	// the unlocked portion of the standing bond.
	ErrInsufficientUnlockedBond = errors.New("amount exceeds unlocked standing bond")
	// ErrInvalidBps is thrown when a basis-point parameter is out of range or
	// the fee split would exceed the whole.
	ErrInvalidBps = errors.New("basis points out of range")
	// ErrInvalidEvidence is thrown when evidence hashes and kinds are
	// malformed or mismatched.
	ErrInvalidEvidence = errors.New("invalid evidence records")
	// ErrInvalidSalt ...
	ErrInvalidSalt = errors.New("salt must be 32 bytes hex encoded")
)
