package application_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zeta-network/zetad/internal/core/application"
	"github.com/zeta-network/zetad/internal/core/domain"
)

func TestOrderLifecycle(t *testing.T) {
	svc := newTestServices(t)
	svc.listAgent(t, agentAddr, 10000)

	orderId := svc.createOrder(t)
	require.Equal(t, uint64(1), orderId)

	svc.quote(t, agentAddr, orderId, 80000, 48)

	winner, err := svc.orders.AutoSelect(ctx, adminAddr, orderId)
	require.NoError(t, err)
	require.Equal(t, agentAddr, winner)

	require.NoError(t, svc.orders.AckSelect(ctx, agentAddr, orderId))

	escrow, err := svc.vault.GetEscrow(ctx, orderId)
	require.NoError(t, err)
	require.Equal(t, uint64(80000), escrow.FeeTotal)
	require.Equal(t, uint64(72000), escrow.AgentDue)
	require.Equal(t, uint64(4000), escrow.Holdback)
	require.Equal(t, uint64(4000), escrow.Microbond)
	require.Equal(t, uint64(4000), escrow.TreasuryAmount)

	// The microbond is locked against the standing bond on acceptance.
	amount, locked, err := svc.vault.GetStandingBond(ctx, agentAddr)
	require.NoError(t, err)
	require.Equal(t, uint64(10000), amount)
	require.Equal(t, uint64(4000), locked)

	require.NoError(t, svc.orders.UserFund(ctx, userAddr, orderId, 80000))
	require.NoError(t, svc.orders.MarkCompleted(ctx, adminAddr, orderId))

	payouts, err := svc.vault.GetPayouts(ctx, orderId)
	require.NoError(t, err)
	require.Len(t, payouts, 2)
	require.Equal(t, agentAddr, payouts[0].To)
	require.Equal(t, uint64(72000), payouts[0].Amount)
	require.Equal(t, treasuryAddr, payouts[1].To)
	require.Equal(t, uint64(4000), payouts[1].Amount)

	// The holdback stays escrowed throughout the claim window.
	_, err = svc.vault.ReleaseHoldback(ctx, orderId)
	require.EqualError(t, err, domain.ErrWindowNotElapsed.Error())

	svc.clock.tick(testPolicyParams().ClaimWindowSec + 1)
	released, err := svc.vault.ReleaseHoldback(ctx, orderId)
	require.NoError(t, err)
	require.Equal(t, uint64(4000), released)

	// The release unlocks the microbond.
	amount, locked, err = svc.vault.GetStandingBond(ctx, agentAddr)
	require.NoError(t, err)
	require.Equal(t, uint64(10000), amount)
	require.Zero(t, locked)

	_, err = svc.vault.ReleaseHoldback(ctx, orderId)
	require.EqualError(t, err, domain.ErrAlreadyFinalized.Error())
}

func TestAutoSelectPicksBestQuote(t *testing.T) {
	svc := newTestServices(t)
	svc.listAgent(t, "agent1", 10000)
	svc.listAgent(t, "agent2", 10000)
	svc.listAgent(t, "agent3", 10000)
	require.NoError(t, svc.registry.SetRisk(ctx, adminAddr, "agent3", 9000))

	orderId := svc.createOrder(t)
	svc.quote(t, "agent1", orderId, 80000, 48)
	svc.quote(t, "agent2", orderId, 90000, 48)
	// Slightly cheaper than agent1, but the risk score outweighs the edge.
	svc.quote(t, "agent3", orderId, 78000, 48)

	winner, err := svc.orders.AutoSelect(ctx, adminAddr, orderId)
	require.NoError(t, err)
	require.Equal(t, "agent1", winner)
}

func TestAutoSelectOpenToAnyone(t *testing.T) {
	svc := newTestServices(t)
	svc.listAgent(t, agentAddr, 10000)

	// Without a single reveal there is nothing to rank.
	emptyOrder := svc.createOrder(t)
	_, err := svc.orders.AutoSelect(ctx, "stranger", emptyOrder)
	require.EqualError(t, err, application.ErrNoQuotes.Error())

	orderId := svc.createOrder(t)
	svc.quote(t, agentAddr, orderId, 80000, 48)

	// Any caller may crank the selection once a reveal exists.
	winner, err := svc.orders.AutoSelect(ctx, "stranger", orderId)
	require.NoError(t, err)
	require.Equal(t, agentAddr, winner)

	_, err = svc.orders.AutoSelect(ctx, adminAddr, 99)
	require.EqualError(t, err, application.ErrOrderNotFound.Error())
}

func TestAutoSelectDoesNotBlockOnRegistry(t *testing.T) {
	svc := newTestServices(t)
	svc.listAgent(t, agentAddr, 10000)
	orderId := svc.createOrder(t)
	svc.quote(t, agentAddr, orderId, 80000, 48)

	// Selection consults the registry for risk scores mid-flight; it must
	// return instead of waiting on the storage lock it already holds.
	done := make(chan struct{})
	var winner string
	var err error
	go func() {
		winner, err = svc.orders.AutoSelect(ctx, userAddr, orderId)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("auto selection did not return")
	}
	require.NoError(t, err)
	require.Equal(t, agentAddr, winner)
}

func TestAutoSelectPassesOverExpiredSelection(t *testing.T) {
	svc := newTestServices(t)
	svc.listAgent(t, "agent1", 10000)
	svc.listAgent(t, "agent2", 10000)

	orderId := svc.createOrder(t)
	svc.quote(t, "agent1", orderId, 70000, 48)
	svc.quote(t, "agent2", orderId, 80000, 48)

	winner, err := svc.orders.AutoSelect(ctx, adminAddr, orderId)
	require.NoError(t, err)
	require.Equal(t, "agent1", winner)

	// Reselecting while the ack window is still running is rejected.
	_, err = svc.orders.AutoSelect(ctx, adminAddr, orderId)
	require.EqualError(t, err, domain.ErrWindowNotElapsed.Error())

	svc.clock.tick(testPolicyParams().AcceptAckWindowSec + 1)
	winner, err = svc.orders.AutoSelect(ctx, adminAddr, orderId)
	require.NoError(t, err)
	require.Equal(t, "agent2", winner)

	// The passed-over agent can no longer acknowledge.
	err = svc.orders.AckSelect(ctx, "agent1", orderId)
	require.EqualError(t, err, domain.ErrUnauthorized.Error())
	require.NoError(t, svc.orders.AckSelect(ctx, "agent2", orderId))
}

func TestAckSelectRequiresBondCoverage(t *testing.T) {
	svc := newTestServices(t)
	// Bond too small to cover the 4000 microbond of an 80000 quote.
	svc.listAgent(t, agentAddr, 1000)

	orderId := svc.createOrder(t)
	svc.quote(t, agentAddr, orderId, 80000, 48)
	_, err := svc.orders.AutoSelect(ctx, adminAddr, orderId)
	require.NoError(t, err)

	err = svc.orders.AckSelect(ctx, agentAddr, orderId)
	require.EqualError(t, err, domain.ErrAgentNotEligible.Error())

	// A failed acceptance leaves no partial state behind.
	info, err := svc.orders.GetOrder(ctx, orderId)
	require.NoError(t, err)
	require.Equal(t, "selected", info.Status)
	_, err = svc.vault.GetEscrow(ctx, orderId)
	require.EqualError(t, err, application.ErrEscrowNotFound.Error())
}

func TestQuoteRequiresEligibleAgent(t *testing.T) {
	svc := newTestServices(t)
	orderId := svc.createOrder(t)

	err := svc.orders.CommitQuote(ctx, "stranger", orderId, "deadbeef", svc.clock.Now()+600)
	require.EqualError(t, err, domain.ErrAgentNotEligible.Error())

	svc.listAgent(t, agentAddr, 10000)
	require.NoError(t, svc.policy.BanAgent(ctx, adminAddr, agentAddr, true))
	err = svc.orders.CommitQuote(ctx, agentAddr, orderId, "deadbeef", svc.clock.Now()+600)
	require.EqualError(t, err, domain.ErrBannedActor.Error())
}

func TestUserFundChecks(t *testing.T) {
	svc := newTestServices(t)
	svc.listAgent(t, agentAddr, 10000)

	orderId := svc.createOrder(t)
	svc.quote(t, agentAddr, orderId, 80000, 48)
	_, err := svc.orders.AutoSelect(ctx, adminAddr, orderId)
	require.NoError(t, err)
	require.NoError(t, svc.orders.AckSelect(ctx, agentAddr, orderId))

	err = svc.orders.UserFund(ctx, "stranger", orderId, 80000)
	require.EqualError(t, err, domain.ErrUnauthorized.Error())

	err = svc.orders.UserFund(ctx, userAddr, orderId, 79999)
	require.EqualError(t, err, domain.ErrAmountMismatch.Error())

	require.NoError(t, svc.orders.UserFund(ctx, userAddr, orderId, 80000))
	err = svc.orders.UserFund(ctx, userAddr, orderId, 80000)
	require.EqualError(t, err, domain.ErrInvalidState.Error())
}

func TestMarkCompletedPermissions(t *testing.T) {
	svc := newTestServices(t)
	svc.listAgent(t, agentAddr, 10000)

	orderId := svc.createOrder(t)
	svc.quote(t, agentAddr, orderId, 80000, 48)
	_, err := svc.orders.AutoSelect(ctx, adminAddr, orderId)
	require.NoError(t, err)
	require.NoError(t, svc.orders.AckSelect(ctx, agentAddr, orderId))
	require.NoError(t, svc.orders.UserFund(ctx, userAddr, orderId, 80000))

	err = svc.orders.MarkCompleted(ctx, "stranger", orderId)
	require.EqualError(t, err, domain.ErrUnauthorized.Error())

	// The agent cannot trigger its own payout.
	err = svc.orders.MarkCompleted(ctx, agentAddr, orderId)
	require.EqualError(t, err, domain.ErrUnauthorized.Error())

	require.NoError(t, svc.orders.MarkCompleted(ctx, adminAddr, orderId))

	err = svc.orders.MarkCompleted(ctx, adminAddr, orderId)
	require.EqualError(t, err, domain.ErrInvalidState.Error())
}

func TestCancelOrderService(t *testing.T) {
	svc := newTestServices(t)
	orderId := svc.createOrder(t)

	err := svc.orders.Cancel(ctx, "stranger", orderId)
	require.EqualError(t, err, domain.ErrUnauthorized.Error())

	require.NoError(t, svc.orders.Cancel(ctx, userAddr, orderId))

	info, err := svc.orders.GetOrder(ctx, orderId)
	require.NoError(t, err)
	require.Equal(t, "cancelled", info.Status)
}

func TestPausedBlocksMutations(t *testing.T) {
	svc := newTestServices(t)
	svc.listAgent(t, agentAddr, 10000)
	require.NoError(t, svc.policy.Pause(ctx, adminAddr))

	_, err := svc.orders.CreateOrderIntent(ctx, userAddr, application.OrderIntent{
		Token: "zusd", MaxTotal: 100000, OriginId: "WH-1", DestRegion: "EU-WEST",
		CommodityId: "SKU-42", Qty: 10, Expiry: svc.clock.Now() + 3600,
	})
	require.EqualError(t, err, domain.ErrPaused.Error())

	_, err = svc.registry.BondDeposit(ctx, agentAddr, 1000)
	require.EqualError(t, err, domain.ErrPaused.Error())

	require.NoError(t, svc.policy.Unpause(ctx, adminAddr))
	_, err = svc.registry.BondDeposit(ctx, agentAddr, 1000)
	require.NoError(t, err)
}

func TestBannedUserCannotCreateOrders(t *testing.T) {
	svc := newTestServices(t)
	require.NoError(t, svc.policy.BanUser(ctx, adminAddr, userAddr, true))

	_, err := svc.orders.CreateOrderIntent(ctx, userAddr, application.OrderIntent{
		Token: "zusd", MaxTotal: 100000, OriginId: "WH-1", DestRegion: "EU-WEST",
		CommodityId: "SKU-42", Qty: 10, Expiry: svc.clock.Now() + 3600,
	})
	require.EqualError(t, err, domain.ErrBannedActor.Error())
}

func TestListOrders(t *testing.T) {
	svc := newTestServices(t)
	svc.createOrder(t)
	svc.createOrder(t)

	infos, err := svc.orders.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	require.Equal(t, uint64(1), infos[0].Id)
	require.Equal(t, uint64(2), infos[1].Id)

	infos, err = svc.orders.ListOrdersForUser(ctx, userAddr)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	infos, err = svc.orders.ListOrdersForUser(ctx, "stranger")
	require.NoError(t, err)
	require.Empty(t, infos)
}
