package domain

// Order status codes, in lifecycle order.
const (
	OrderStatusCodeCreated = iota
	OrderStatusCodeSelected
	OrderStatusCodeAccepted
	OrderStatusCodeFunded
	OrderStatusCodeCompleted
	OrderStatusCodeCancelled
)

// Dispute states. Transitions are monotonic, no regression.
const (
	DisputeStateNone = iota
	DisputeStateOpen
	DisputeStateResolved
)

// Evidence kinds for PoD and claim records. The core never decodes the
// evidence itself, only its hash and kind are stored.
const (
	EvidenceKindOTP = iota
	EvidenceKindQR
	EvidenceKindWaybill
	EvidenceKindPhoto
)

// Roles of the capability set checked by every mutating operation.
const (
	RoleDefaultAdmin = iota
	RolePolicyAdmin
	RoleOperator
	RoleListing
)

// BpsDenominator is the denominator of every basis-point parameter.
const BpsDenominator = 10000

// SaltLen is the byte length of a quote commitment salt.
const SaltLen = 32
