package application_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeta-network/zetad/internal/core/application"
	"github.com/zeta-network/zetad/internal/core/domain"
)

func TestPolicyBootstrap(t *testing.T) {
	svc := newTestServices(t)

	params, err := svc.policy.GetParams(ctx)
	require.NoError(t, err)
	require.Equal(t, testPolicyParams(), params)

	for _, role := range []int{
		domain.RoleDefaultAdmin, domain.RolePolicyAdmin,
		domain.RoleOperator, domain.RoleListing,
	} {
		ok, err := svc.policy.HasRole(ctx, role, adminAddr)
		require.NoError(t, err)
		require.True(t, ok)
	}

	// Bootstrapping again over an initialized storage must not reset roles.
	granted := "op"
	require.NoError(t, svc.policy.GrantRole(ctx, adminAddr, domain.RoleOperator, granted))
	_, err = application.NewPolicyService(svc.repoManager, "other-admin", testPolicyParams())
	require.NoError(t, err)
	ok, err := svc.policy.HasRole(ctx, domain.RoleOperator, granted)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = svc.policy.HasRole(ctx, domain.RoleDefaultAdmin, "other-admin")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRoleManagement(t *testing.T) {
	svc := newTestServices(t)

	err := svc.policy.GrantRole(ctx, userAddr, domain.RoleOperator, userAddr)
	require.EqualError(t, err, domain.ErrUnauthorized.Error())

	require.NoError(t, svc.policy.GrantRole(ctx, adminAddr, domain.RoleOperator, "op"))

	// The freshly granted operator can settle deliveries.
	svc.listAgent(t, agentAddr, 10000)
	fundOrder := func() uint64 {
		orderId := svc.createOrder(t)
		svc.quote(t, agentAddr, orderId, 80000, 48)
		_, err := svc.orders.AutoSelect(ctx, adminAddr, orderId)
		require.NoError(t, err)
		require.NoError(t, svc.orders.AckSelect(ctx, agentAddr, orderId))
		require.NoError(t, svc.orders.UserFund(ctx, userAddr, orderId, 80000))
		return orderId
	}
	require.NoError(t, svc.orders.MarkCompleted(ctx, "op", fundOrder()))

	require.NoError(t, svc.policy.RevokeRole(ctx, adminAddr, domain.RoleOperator, "op"))
	err = svc.orders.MarkCompleted(ctx, "op", fundOrder())
	require.EqualError(t, err, domain.ErrUnauthorized.Error())
}

func TestSetParamsService(t *testing.T) {
	svc := newTestServices(t)

	params := testPolicyParams()
	params.TreasuryBps = 750
	require.NoError(t, svc.policy.SetParams(ctx, adminAddr, params))

	stored, err := svc.policy.GetParams(ctx)
	require.NoError(t, err)
	require.Equal(t, uint16(750), stored.TreasuryBps)

	params.MaxHoldbackBps = 10001
	err = svc.policy.SetParams(ctx, adminAddr, params)
	require.EqualError(t, err, domain.ErrInvalidBps.Error())
}
