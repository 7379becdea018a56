package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeta-network/zetad/internal/core/domain"
)

func TestNewPolicy(t *testing.T) {
	policy, err := domain.NewPolicy("admin", testParams())
	require.NoError(t, err)
	require.NotNil(t, policy)

	for _, role := range []int{
		domain.RoleDefaultAdmin, domain.RolePolicyAdmin,
		domain.RoleOperator, domain.RoleListing,
	} {
		require.True(t, policy.HasRole(role, "admin"))
	}
	require.False(t, policy.IsPaused())
}

func TestFailingPolicyParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *domain.PolicyParams)
	}{
		{"bps_out_of_range", func(p *domain.PolicyParams) { p.TreasuryBps = 10001 }},
		{"split_exceeds_whole", func(p *domain.PolicyParams) {
			p.TreasuryBps, p.MaxHoldbackBps, p.MaxMicrobondBps = 5000, 4000, 2000
		}},
		{"fault_split_exceeds_whole", func(p *domain.PolicyParams) {
			p.FaultRefundBps, p.FaultTreasuryBps = 9000, 2000
		}},
		{"zero_claim_window", func(p *domain.PolicyParams) { p.ClaimWindowSec = 0 }},
		{"zero_ack_window", func(p *domain.PolicyParams) { p.AcceptAckWindowSec = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := testParams()
			tt.mutate(&params)
			require.Error(t, params.Validate())
		})
	}
}

func TestGrantRevokeRenounceRole(t *testing.T) {
	policy, err := domain.NewPolicy("admin", testParams())
	require.NoError(t, err)

	err = policy.GrantRole("mallory", domain.RoleOperator, "mallory")
	require.EqualError(t, err, domain.ErrUnauthorized.Error())

	require.NoError(t, policy.GrantRole("admin", domain.RoleOperator, "op"))
	require.True(t, policy.HasRole(domain.RoleOperator, "op"))

	// Holding Operator does not imply any other role.
	require.False(t, policy.HasRole(domain.RolePolicyAdmin, "op"))

	require.NoError(t, policy.RevokeRole("admin", domain.RoleOperator, "op"))
	require.False(t, policy.HasRole(domain.RoleOperator, "op"))

	require.NoError(t, policy.RenounceRole("admin", domain.RoleListing))
	require.False(t, policy.HasRole(domain.RoleListing, "admin"))

	err = policy.RenounceRole("admin", domain.RoleListing)
	require.EqualError(t, err, domain.ErrUnauthorized.Error())
}

func TestPauseUnpause(t *testing.T) {
	policy, err := domain.NewPolicy("admin", testParams())
	require.NoError(t, err)

	err = policy.Pause("mallory")
	require.EqualError(t, err, domain.ErrUnauthorized.Error())

	require.NoError(t, policy.Pause("admin"))
	require.True(t, policy.IsPaused())
	require.NoError(t, policy.Unpause("admin"))
	require.False(t, policy.IsPaused())
}

func TestBans(t *testing.T) {
	policy, err := domain.NewPolicy("admin", testParams())
	require.NoError(t, err)

	require.NoError(t, policy.BanUser("admin", "user", true))
	require.True(t, policy.IsUserBanned("user"))
	require.NoError(t, policy.BanUser("admin", "user", false))
	require.False(t, policy.IsUserBanned("user"))

	require.NoError(t, policy.BanAgent("admin", "agent", true))
	require.True(t, policy.IsAgentBanned("agent"))
}

func TestSetParams(t *testing.T) {
	policy, err := domain.NewPolicy("admin", testParams())
	require.NoError(t, err)

	params := testParams()
	params.TreasuryBps = 10001
	err = policy.SetParams("admin", params)
	require.EqualError(t, err, domain.ErrInvalidBps.Error())

	params = testParams()
	params.TreasuryBps = 750
	require.NoError(t, policy.SetParams("admin", params))
	require.Equal(t, uint16(750), policy.Params.TreasuryBps)
}

func testParams() domain.PolicyParams {
	return domain.PolicyParams{
		Treasury:            "treasury",
		SettlementAsset:     "zusd",
		TreasuryBps:         500,
		DefaultHoldbackBps:  500,
		DefaultMicrobondBps: 500,
		MaxHoldbackBps:      2000,
		MaxMicrobondBps:     2000,
		FaultRefundBps:      10000,
		FaultTreasuryBps:    0,
		WeightPriceBps:      6000,
		WeightEtaBps:        2500,
		WeightRiskBps:       1500,
		ClaimWindowSec:      259200,
		AcceptAckWindowSec:  86400,
	}
}
