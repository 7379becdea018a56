package application

import "errors"

var (
	// ErrPolicyNotInitialized is returned when the policy singleton is
	// missing from storage.
	ErrPolicyNotInitialized = errors.New("policy is not initialized")
	// ErrOrderNotFound ...
	ErrOrderNotFound = errors.New("order does not exist")
	// ErrEscrowNotFound ...
	ErrEscrowNotFound = errors.New("no escrow lock for order")
	// ErrNoQuotes is returned by auto-selection when no eligible revealed
	// quote exists.
	ErrNoQuotes = errors.New("no eligible revealed quotes")
	// ErrServiceUnavailable is returned in case of internal errors.
	ErrServiceUnavailable = errors.New("service is unavailable, try again later")
)
