package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thanhpk/randstr"
	"github.com/zeta-network/zetad/internal/core/application"
	"github.com/zeta-network/zetad/internal/core/domain"
	"github.com/zeta-network/zetad/internal/core/ports"
	"github.com/zeta-network/zetad/internal/infrastructure/selection"
	dbinmemory "github.com/zeta-network/zetad/internal/infrastructure/storage/db/inmemory"
)

const (
	adminAddr    = "admin"
	treasuryAddr = "treasury"
	userAddr     = "user"
	agentAddr    = "agent"
)

var ctx = context.Background()

// mockClock is a manually advanced protocol time source.
type mockClock struct {
	now int64
}

func (c *mockClock) Now() int64 {
	return c.now
}

func (c *mockClock) tick(seconds int64) {
	c.now += seconds
}

// testServices wires every service against a fresh in memory storage.
type testServices struct {
	repoManager ports.RepoManager
	clock       *mockClock
	policy      application.PolicyService
	vault       application.VaultService
	registry    application.RegistryService
	orders      application.OrderBookService
	disputes    application.DisputeService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	repoManager := dbinmemory.NewRepoManager()
	clock := &mockClock{now: 1000000}

	policySvc, err := application.NewPolicyService(
		repoManager, adminAddr, testPolicyParams(),
	)
	require.NoError(t, err)

	vaultSvc := application.NewVaultService(repoManager, nil, clock)
	registrySvc := application.NewRegistryService(repoManager, vaultSvc, nil, clock)
	orderSvc := application.NewOrderBookService(
		repoManager, nil, clock, selection.NewWeightedStrategy(),
	)
	disputeSvc := application.NewDisputeService(repoManager, nil, clock)

	return &testServices{
		repoManager: repoManager,
		clock:       clock,
		policy:      policySvc,
		vault:       vaultSvc,
		registry:    registrySvc,
		orders:      orderSvc,
		disputes:    disputeSvc,
	}
}

func testPolicyParams() domain.PolicyParams {
	return domain.PolicyParams{
		Treasury:            treasuryAddr,
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

// listAgent whitelists the agent and funds its standing bond.
func (s *testServices) listAgent(t *testing.T, agent string, bond uint64) {
	t.Helper()
	require.NoError(t, s.registry.Whitelist(ctx, adminAddr, agent))
	if bond > 0 {
		_, err := s.registry.BondDeposit(ctx, agent, bond)
		require.NoError(t, err)
	}
}

// createOrder submits a default order intent for the buyer.
func (s *testServices) createOrder(t *testing.T) uint64 {
	t.Helper()
	info, err := s.orders.CreateOrderIntent(ctx, userAddr, application.OrderIntent{
		Token:       "zusd",
		MaxTotal:    100000,
		OriginId:    "WH-1",
		DestRegion:  "EU-WEST",
		CommodityId: "SKU-42",
		Qty:         10,
		Expiry:      s.clock.Now() + 3600,
	})
	require.NoError(t, err)
	return info.Id
}

// quote runs the commit-reveal round for the agent with the given terms.
func (s *testServices) quote(
	t *testing.T, agent string, orderId, feeTotal uint64, etaHours uint32,
) {
	t.Helper()
	saltHex := randstr.Hex(domain.SaltLen)
	salt, err := domain.ParseSalt(saltHex)
	require.NoError(t, err)

	hash := domain.ComputeQuoteCommitment(orderId, feeTotal, 500, 500, etaHours, salt)
	require.NoError(t, s.orders.CommitQuote(
		ctx, agent, orderId, hash, s.clock.Now()+600,
	))
	require.NoError(t, s.orders.RevealQuote(
		ctx, agent, orderId, feeTotal, 500, 500, etaHours, saltHex,
	))
}

// settleOrder runs a full lifecycle up to completion with a single agent
// quoting the given fee.
func (s *testServices) settleOrder(t *testing.T, feeTotal uint64) uint64 {
	t.Helper()
	orderId := s.createOrder(t)
	s.quote(t, agentAddr, orderId, feeTotal, 48)

	winner, err := s.orders.AutoSelect(ctx, adminAddr, orderId)
	require.NoError(t, err)
	require.Equal(t, agentAddr, winner)

	require.NoError(t, s.orders.AckSelect(ctx, agentAddr, orderId))
	require.NoError(t, s.orders.UserFund(ctx, userAddr, orderId, feeTotal))
	require.NoError(t, s.orders.MarkCompleted(ctx, adminAddr, orderId))
	return orderId
}
