package domain

// Agent is the data structure representing a delivery agent listing.
// The standing bond is custodied by the vault and survives unlisting.
type Agent struct {
	Address        string
	Whitelisted    bool
	RiskScoreBps   uint16
	FeeScheduleCid string
	WhitelistedAt  int64
}

// Whitelist marks the agent as eligible for quoting.
func (a *Agent) Whitelist(now int64) {
	a.Whitelisted = true
	a.WhitelistedAt = now
}

// Unlist clears the listing. Risk score and fee anchor are wiped, the
// historical bond is left to the vault.
func (a *Agent) Unlist() {
	a.Whitelisted = false
	a.RiskScoreBps = 0
	a.FeeScheduleCid = ""
	a.WhitelistedAt = 0
}

// SetRisk updates the agent risk score.
func (a *Agent) SetRisk(bps uint16) error {
	if bps > BpsDenominator {
		return ErrInvalidBps
	}
	a.RiskScoreBps = bps
	return nil
}

// SetFeeAnchor sets the content id anchoring the agent's fee schedule.
func (a *Agent) SetFeeAnchor(cid string) {
	a.FeeScheduleCid = cid
}
