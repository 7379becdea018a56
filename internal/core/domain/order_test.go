package domain_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeta-network/zetad/internal/core/domain"
)

var testSalt = make([]byte, domain.SaltLen)

func TestNewOrderIntent(t *testing.T) {
	order, err := domain.NewOrderIntent(
		"user", "zusd", 100000, "WH-1", "EU-WEST", "SKU-42", 10, 5000, 1000,
	)
	require.NoError(t, err)
	require.NotNil(t, order)
	require.Equal(t, "created", order.StatusString())
	require.Empty(t, order.SelectedAgent())
}

func TestFailingNewOrderIntent(t *testing.T) {
	tests := []struct {
		name          string
		maxTotal      uint64
		qty           uint64
		expiry        int64
		expectedError error
	}{
		{"expiry_in_past", 100000, 10, 999, domain.ErrWindowExpired},
		{"zero_max_total", 0, 10, 5000, domain.ErrAmountMismatch},
		{"zero_qty", 100000, 0, 5000, domain.ErrAmountMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewOrderIntent(
				"user", "zusd", tt.maxTotal, "WH-1", "EU-WEST", "SKU-42",
				tt.qty, tt.expiry, 1000,
			)
			require.EqualError(t, err, tt.expectedError.Error())
		})
	}
}

func TestCommitAndRevealQuote(t *testing.T) {
	order := newTestOrder(t)

	hash := domain.ComputeQuoteCommitment(order.Id, 80000, 500, 500, 48, testSalt)
	require.NoError(t, order.CommitQuote("agent", hash, 4000, 1100))

	// A second commit before reveal overwrites the first.
	hash2 := domain.ComputeQuoteCommitment(order.Id, 70000, 500, 500, 48, testSalt)
	require.NoError(t, order.CommitQuote("agent", hash2, 4000, 1200))

	err := order.RevealQuote("agent", 80000, 500, 500, 48, testSalt, 1300)
	require.EqualError(t, err, domain.ErrCommitMismatch.Error())

	require.NoError(t, order.RevealQuote("agent", 70000, 500, 500, 48, testSalt, 1300))
	require.Len(t, order.EligibleQuotes(), 1)

	// A revealed commit cannot be revealed twice.
	err = order.RevealQuote("agent", 70000, 500, 500, 48, testSalt, 1400)
	require.EqualError(t, err, domain.ErrInvalidState.Error())
}

func TestRecommitAfterRevealRejected(t *testing.T) {
	order := newTestOrder(t)
	commitAndReveal(t, order, "agent", 90000, 1100)

	// Revealed terms are final: the agent cannot re-enter the auction with
	// a fresh commitment after seeing the field.
	hash := domain.ComputeQuoteCommitment(order.Id, 50000, 500, 500, 48, testSalt)
	err := order.CommitQuote("agent", hash, 4000, 1200)
	require.EqualError(t, err, domain.ErrInvalidState.Error())

	err = order.RevealQuote("agent", 50000, 500, 500, 48, testSalt, 1300)
	require.EqualError(t, err, domain.ErrInvalidState.Error())

	require.Equal(t, uint64(90000), order.Reveals["agent"].FeeTotal)
	require.Len(t, order.RevealOrder, 1)
}

func TestRevealQuoteWindows(t *testing.T) {
	order := newTestOrder(t)

	// Commits stop at order expiry.
	hash := domain.ComputeQuoteCommitment(order.Id, 80000, 500, 500, 48, testSalt)
	err := order.CommitQuote("agent", hash, 6000, 5000)
	require.EqualError(t, err, domain.ErrWindowExpired.Error())

	require.NoError(t, order.CommitQuote("agent", hash, 2000, 1100))
	err = order.RevealQuote("agent", 80000, 500, 500, 48, testSalt, 2001)
	require.EqualError(t, err, domain.ErrCommitExpired.Error())

	// The ttl edge itself is still revealable.
	require.NoError(t, order.RevealQuote("agent", 80000, 500, 500, 48, testSalt, 2000))
}

func TestRevealQuoteBounds(t *testing.T) {
	order := newTestOrder(t)

	hash := domain.ComputeQuoteCommitment(order.Id, 200000, 500, 500, 48, testSalt)
	require.NoError(t, order.CommitQuote("agent", hash, 4000, 1100))

	// A revealed fee above the buyer cap is rejected even when it matches
	// the commitment.
	err := order.RevealQuote("agent", 200000, 500, 500, 48, testSalt, 1200)
	require.EqualError(t, err, domain.ErrAmountMismatch.Error())
}

func TestSelectAckLifecycle(t *testing.T) {
	order := newTestOrder(t)
	commitAndReveal(t, order, "agent", 80000, 1100)

	require.NoError(t, order.Select("agent", 1500))
	require.True(t, order.IsSelected())
	require.Equal(t, "agent", order.SelectedAgent())

	err := order.Ack("other", 600, 1600)
	require.EqualError(t, err, domain.ErrUnauthorized.Error())

	// The ack window edge is inclusive.
	require.False(t, order.SelectionExpired(600, 2100))
	require.NoError(t, order.Ack("agent", 600, 2100))
	require.True(t, order.IsAccepted())
	require.Equal(t, uint64(80000), order.AcceptedQuote.FeeTotal)

	require.NoError(t, order.Fund(80000, 2200))
	require.True(t, order.IsFunded())
	require.NoError(t, order.Complete(2300))
	require.True(t, order.IsCompleted())
}

func TestAckAfterWindow(t *testing.T) {
	order := newTestOrder(t)
	commitAndReveal(t, order, "agent", 80000, 1100)
	require.NoError(t, order.Select("agent", 1500))

	require.True(t, order.SelectionExpired(600, 2101))
	err := order.Ack("agent", 600, 2101)
	require.EqualError(t, err, domain.ErrWindowExpired.Error())
}

func TestPassOverSelection(t *testing.T) {
	order := newTestOrder(t)
	commitAndReveal(t, order, "agent1", 80000, 1100)
	commitAndReveal(t, order, "agent2", 90000, 1200)

	require.NoError(t, order.Select("agent1", 1500))
	require.NoError(t, order.PassOverSelection())
	require.Equal(t, "created", order.StatusString())

	// The passed-over agent is excluded from the running.
	quotes := order.EligibleQuotes()
	require.Len(t, quotes, 1)
	require.Equal(t, "agent2", quotes[0].Agent)

	require.NoError(t, order.Select("agent2", 1600))
}

func TestCancelOrder(t *testing.T) {
	order := newTestOrder(t)
	require.NoError(t, order.Cancel(1100))
	require.True(t, order.IsCancelled())

	accepted := newTestOrder(t)
	commitAndReveal(t, accepted, "agent", 80000, 1100)
	require.NoError(t, accepted.Select("agent", 1500))
	require.NoError(t, accepted.Ack("agent", 600, 1600))
	err := accepted.Cancel(1700)
	require.EqualError(t, err, domain.ErrInvalidState.Error())
}

func TestComputeQuoteCommitment(t *testing.T) {
	hash := domain.ComputeQuoteCommitment(1, 80000, 500, 500, 48, testSalt)
	require.Len(t, hash, 64)

	// The commitment binds every term and the salt.
	require.NotEqual(t, hash, domain.ComputeQuoteCommitment(2, 80000, 500, 500, 48, testSalt))
	require.NotEqual(t, hash, domain.ComputeQuoteCommitment(1, 80001, 500, 500, 48, testSalt))
	require.NotEqual(t, hash, domain.ComputeQuoteCommitment(1, 80000, 501, 500, 48, testSalt))
	require.NotEqual(t, hash, domain.ComputeQuoteCommitment(1, 80000, 500, 501, 48, testSalt))
	require.NotEqual(t, hash, domain.ComputeQuoteCommitment(1, 80000, 500, 500, 49, testSalt))

	otherSalt := make([]byte, domain.SaltLen)
	otherSalt[0] = 1
	require.NotEqual(t, hash, domain.ComputeQuoteCommitment(1, 80000, 500, 500, 48, otherSalt))
}

func TestParseSalt(t *testing.T) {
	salt, err := domain.ParseSalt(hex.EncodeToString(testSalt))
	require.NoError(t, err)
	require.Equal(t, testSalt, salt)

	_, err = domain.ParseSalt("abcd")
	require.EqualError(t, err, domain.ErrInvalidSalt.Error())

	_, err = domain.ParseSalt("not hex")
	require.EqualError(t, err, domain.ErrInvalidSalt.Error())
}

func newTestOrder(t *testing.T) *domain.Order {
	t.Helper()
	order, err := domain.NewOrderIntent(
		"user", "zusd", 100000, "WH-1", "EU-WEST", "SKU-42", 10, 4000, 1000,
	)
	require.NoError(t, err)
	order.Id = 1
	return order
}

func commitAndReveal(
	t *testing.T, order *domain.Order, agent string, feeTotal uint64, now int64,
) {
	t.Helper()
	hash := domain.ComputeQuoteCommitment(order.Id, feeTotal, 500, 500, 48, testSalt)
	require.NoError(t, order.CommitQuote(agent, hash, now+1000, now))
	require.NoError(t, order.RevealQuote(agent, feeTotal, 500, 500, 48, testSalt, now+1))
}
