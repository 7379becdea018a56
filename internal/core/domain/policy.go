package domain

// PolicyParams holds the global protocol parameters. It is a singleton
// mutated only by identities with the PolicyAdmin role.
type PolicyParams struct {
	// Address accruing the treasury share of every order fee.
	Treasury string
	// The only asset accepted for escrow deposits.
	SettlementAsset string
	// Treasury share of an order fee.
	TreasuryBps uint16
	// Holdback suggested to agents when quoting.
	DefaultHoldbackBps uint16
	// Microbond suggested to agents when quoting.
	DefaultMicrobondBps uint16
	// Upper clamps applied to revealed quotes at lock creation.
	MaxHoldbackBps  uint16
	MaxMicrobondBps uint16
	// Share of feeTotal refunded to the buyer on an upheld claim.
	FaultRefundBps uint16
	// Share of feeTotal accruing to treasury on an upheld claim.
	FaultTreasuryBps uint16
	// Auto-select scoring weights.
	WeightPriceBps uint16
	WeightEtaBps   uint16
	WeightRiskBps  uint16
	// Seconds after completion during which the buyer may file a claim.
	ClaimWindowSec int64
	// Seconds after selection within which the agent must acknowledge.
	AcceptAckWindowSec int64
	// Global kill-switch consulted before any state mutation.
	Paused bool
}

// Validate checks every bps field is in range and that the worst-case fee
// split cannot exceed the whole fee.
func (p PolicyParams) Validate() error {
	for _, bps := range []uint16{
		p.TreasuryBps, p.DefaultHoldbackBps, p.DefaultMicrobondBps,
		p.MaxHoldbackBps, p.MaxMicrobondBps,
		p.FaultRefundBps, p.FaultTreasuryBps,
		p.WeightPriceBps, p.WeightEtaBps, p.WeightRiskBps,
	} {
		if bps > BpsDenominator {
			return ErrInvalidBps
		}
	}
	if int(p.TreasuryBps)+int(p.MaxHoldbackBps)+int(p.MaxMicrobondBps) > BpsDenominator {
		return ErrInvalidBps
	}
	if int(p.FaultRefundBps)+int(p.FaultTreasuryBps) > BpsDenominator {
		return ErrInvalidBps
	}
	if p.ClaimWindowSec <= 0 || p.AcceptAckWindowSec <= 0 {
		return ErrInvalidBps
	}
	return nil
}

// Policy is the data structure holding the protocol parameters, the
// role-based capability set and the per-address ban flags.
type Policy struct {
	Params       PolicyParams
	Roles        map[int]map[string]bool
	BannedUsers  map[string]bool
	BannedAgents map[string]bool
}

// NewPolicy returns a policy granting admin every role and with the given
// parameters, after validating them.
func NewPolicy(admin string, params PolicyParams) (*Policy, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	roles := map[int]map[string]bool{}
	for _, role := range []int{RoleDefaultAdmin, RolePolicyAdmin, RoleOperator, RoleListing} {
		roles[role] = map[string]bool{admin: true}
	}
	return &Policy{
		Params:       params,
		Roles:        roles,
		BannedUsers:  map[string]bool{},
		BannedAgents: map[string]bool{},
	}, nil
}

// HasRole returns whether the identity holds the given role.
func (p *Policy) HasRole(role int, identity string) bool {
	holders, ok := p.Roles[role]
	if !ok {
		return false
	}
	return holders[identity]
}

// GrantRole grants a role to an identity. Only a DefaultAdmin may grant.
func (p *Policy) GrantRole(caller string, role int, identity string) error {
	if !p.HasRole(RoleDefaultAdmin, caller) {
		return ErrUnauthorized
	}
	if p.Roles[role] == nil {
		p.Roles[role] = map[string]bool{}
	}
	p.Roles[role][identity] = true
	return nil
}

// RevokeRole revokes a role from an identity. Only a DefaultAdmin may revoke.
func (p *Policy) RevokeRole(caller string, role int, identity string) error {
	if !p.HasRole(RoleDefaultAdmin, caller) {
		return ErrUnauthorized
	}
	delete(p.Roles[role], identity)
	return nil
}

// RenounceRole lets an identity drop one of its own roles.
func (p *Policy) RenounceRole(caller string, role int) error {
	if !p.HasRole(role, caller) {
		return ErrUnauthorized
	}
	delete(p.Roles[role], caller)
	return nil
}

// SetParams replaces the protocol parameters after validation.
func (p *Policy) SetParams(caller string, params PolicyParams) error {
	if !p.HasRole(RolePolicyAdmin, caller) {
		return ErrUnauthorized
	}
	if err := params.Validate(); err != nil {
		return err
	}
	p.Params = params
	return nil
}

// Pause flips the global kill-switch on.
func (p *Policy) Pause(caller string) error {
	if !p.HasRole(RolePolicyAdmin, caller) {
		return ErrUnauthorized
	}
	p.Params.Paused = true
	return nil
}

// Unpause flips the global kill-switch off.
func (p *Policy) Unpause(caller string) error {
	if !p.HasRole(RolePolicyAdmin, caller) {
		return ErrUnauthorized
	}
	p.Params.Paused = false
	return nil
}

// BanUser sets the ban flag for a buyer address.
func (p *Policy) BanUser(caller, user string, banned bool) error {
	if !p.HasRole(RolePolicyAdmin, caller) {
		return ErrUnauthorized
	}
	if banned {
		p.BannedUsers[user] = true
	} else {
		delete(p.BannedUsers, user)
	}
	return nil
}

// BanAgent sets the ban flag for an agent address.
func (p *Policy) BanAgent(caller, agent string, banned bool) error {
	if !p.HasRole(RolePolicyAdmin, caller) {
		return ErrUnauthorized
	}
	if banned {
		p.BannedAgents[agent] = true
	} else {
		delete(p.BannedAgents, agent)
	}
	return nil
}

// IsUserBanned returns whether the buyer address is banned.
func (p *Policy) IsUserBanned(user string) bool {
	return p.BannedUsers[user]
}

// IsAgentBanned returns whether the agent address is banned.
func (p *Policy) IsAgentBanned(agent string) bool {
	return p.BannedAgents[agent]
}

// IsPaused returns whether the global kill-switch is on.
func (p *Policy) IsPaused() bool {
	return p.Params.Paused
}
