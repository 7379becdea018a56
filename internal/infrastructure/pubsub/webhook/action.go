package webhookpubsub

// webhook action types, one per protocol state transition.
const (
	OrderCreated ZetaAction = iota
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
	AllActions
)

var (
	actionToString = map[ZetaAction]string{
		OrderCreated:     "ORDER_CREATED",
		QuoteCommitted:   "QUOTE_COMMITTED",
		QuoteRevealed:    "QUOTE_REVEALED",
		AgentSelected:    "AGENT_SELECTED",
		OrderAccepted:    "ORDER_ACCEPTED",
		UserFunded:       "USER_FUNDED",
		OrderPaid:        "ORDER_PAID",
		HoldbackReleased: "HOLDBACK_RELEASED",
		Slashed:          "SLASHED",
		OrderCancelled:   "ORDER_CANCELLED",
		ClaimOpened:      "CLAIM_OPENED",
		PoDSubmitted:     "POD_SUBMITTED",
		DisputeResolved:  "DISPUTE_RESOLVED",
		AgentWhitelisted: "AGENT_WHITELISTED",
		AgentUnlisted:    "AGENT_UNLISTED",
		BondDeposited:    "BOND_DEPOSITED",
		BondWithdrawn:    "BOND_WITHDRAWN",
		AllActions:       "*",
	}
	stringToAction = func() map[string]ZetaAction {
		actions := make(map[string]ZetaAction, len(actionToString))
		for action, label := range actionToString {
			actions[label] = action
		}
		return actions
	}()
)

type ZetaAction int

func ZetaActionFromString(actionStr string) (ZetaAction, bool) {
	action, ok := stringToAction[actionStr]
	return action, ok
}

func (a ZetaAction) String() string {
	actionStr, ok := actionToString[a]
	if !ok {
		actionStr = "UNKNOWN"
	}
	return actionStr
}

func (a ZetaAction) Code() int {
	return int(a)
}

func (a ZetaAction) Label() string {
	return a.String()
}
