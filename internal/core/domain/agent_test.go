package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeta-network/zetad/internal/core/domain"
)

func TestAgentListing(t *testing.T) {
	agent := &domain.Agent{Address: "agent"}

	agent.Whitelist(1000)
	require.True(t, agent.Whitelisted)
	require.Equal(t, int64(1000), agent.WhitelistedAt)

	require.NoError(t, agent.SetRisk(1500))
	agent.SetFeeAnchor("bafy-fee-schedule")

	err := agent.SetRisk(10001)
	require.EqualError(t, err, domain.ErrInvalidBps.Error())

	// Unlisting wipes the listing data.
	agent.Unlist()
	require.False(t, agent.Whitelisted)
	require.Zero(t, agent.RiskScoreBps)
	require.Empty(t, agent.FeeScheduleCid)
}
