package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeta-network/zetad/internal/core/domain"
)

func TestSubmitPoD(t *testing.T) {
	dispute := domain.NewDispute(1)
	require.False(t, dispute.HasPoD())

	err := dispute.SubmitPoD(
		[]string{"hash1", "hash2"},
		[]int{domain.EvidenceKindOTP, domain.EvidenceKindPhoto},
		1000,
	)
	require.NoError(t, err)
	require.True(t, dispute.HasPoD())
	require.Len(t, dispute.PoDs, 2)
	// PoD anchoring alone never opens a claim.
	require.False(t, dispute.IsOpen())
}

func TestFailingSubmitPoD(t *testing.T) {
	tests := []struct {
		name   string
		hashes []string
		kinds  []int
	}{
		{"no_evidence", nil, nil},
		{"length_mismatch", []string{"hash"}, []int{0, 1}},
		{"empty_hash", []string{""}, []int{0}},
		{"unknown_kind", []string{"hash"}, []int{42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispute := domain.NewDispute(1)
			err := dispute.SubmitPoD(tt.hashes, tt.kinds, 1000)
			require.EqualError(t, err, domain.ErrInvalidEvidence.Error())
		})
	}
}

func TestOpenClaim(t *testing.T) {
	completedAt := int64(1000)
	claimWindow := int64(3600)

	dispute := domain.NewDispute(1)
	// The claim window edge is inclusive.
	err := dispute.OpenClaim(
		[]string{"hash"}, []int{domain.EvidenceKindWaybill},
		completedAt, claimWindow, completedAt+claimWindow,
	)
	require.NoError(t, err)
	require.True(t, dispute.IsOpen())

	// Claims cannot be filed twice.
	err = dispute.OpenClaim(
		[]string{"hash"}, []int{domain.EvidenceKindWaybill},
		completedAt, claimWindow, completedAt+claimWindow,
	)
	require.EqualError(t, err, domain.ErrInvalidState.Error())

	late := domain.NewDispute(2)
	err = late.OpenClaim(
		[]string{"hash"}, []int{domain.EvidenceKindWaybill},
		completedAt, claimWindow, completedAt+claimWindow+1,
	)
	require.EqualError(t, err, domain.ErrWindowExpired.Error())
}

func TestResolve(t *testing.T) {
	dispute := domain.NewDispute(1)

	err := dispute.Resolve(true, 2000)
	require.EqualError(t, err, domain.ErrInvalidState.Error())

	require.NoError(t, dispute.OpenClaim(
		[]string{"hash"}, []int{domain.EvidenceKindOTP}, 1000, 3600, 1500,
	))
	require.NoError(t, dispute.Resolve(true, 2000))
	require.True(t, dispute.IsResolved())
	require.True(t, dispute.Upheld)
	require.Equal(t, "resolved", dispute.StateString())

	// Resolution is terminal, no further evidence or verdicts.
	err = dispute.Resolve(false, 2100)
	require.EqualError(t, err, domain.ErrInvalidState.Error())
	err = dispute.SubmitPoD([]string{"hash"}, []int{domain.EvidenceKindOTP}, 2100)
	require.EqualError(t, err, domain.ErrInvalidState.Error())
}
