package inmemory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeta-network/zetad/internal/core/domain"
	"github.com/zeta-network/zetad/internal/infrastructure/storage/db/inmemory"
)

var ctx = context.Background()

func TestOrderRepository(t *testing.T) {
	repoManager := inmemory.NewRepoManager()
	repo := repoManager.OrderRepository()

	order := newTestOrder(t, "user")
	id, err := repo.AddOrder(ctx, order)
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)

	id, err = repo.AddOrder(ctx, newTestOrder(t, "other"))
	require.NoError(t, err)
	require.Equal(t, uint64(2), id)

	stored, err := repo.GetOrder(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "user", stored.User)

	// The stored order is a deep copy, not an alias.
	stored.User = "tampered"
	again, err := repo.GetOrder(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "user", again.User)

	missing, err := repo.GetOrder(ctx, 99)
	require.NoError(t, err)
	require.Nil(t, missing)

	err = repo.UpdateOrder(ctx, 99,
		func(o *domain.Order) (*domain.Order, error) { return o, nil },
	)
	require.EqualError(t, err, inmemory.ErrOrderNotFound.Error())

	require.NoError(t, repo.UpdateOrder(ctx, 1,
		func(o *domain.Order) (*domain.Order, error) {
			if err := o.Cancel(2000); err != nil {
				return nil, err
			}
			return o, nil
		},
	))

	all, err := repo.GetAllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, uint64(1), all[0].Id)

	forUser, err := repo.GetOrdersForUser(ctx, "other")
	require.NoError(t, err)
	require.Len(t, forUser, 1)
}

func TestEscrowRepository(t *testing.T) {
	repoManager := inmemory.NewRepoManager()
	repo := repoManager.EscrowRepository()

	lock, err := domain.NewEscrowLock(1, "user", "agent", 100000, 500, 500, 500, 1000)
	require.NoError(t, err)
	require.NoError(t, repo.AddEscrow(ctx, lock))

	err = repo.AddEscrow(ctx, lock)
	require.EqualError(t, err, inmemory.ErrEscrowAlreadyExists.Error())

	err = repo.UpdateEscrow(ctx, 99,
		func(l *domain.EscrowLock) (*domain.EscrowLock, error) { return l, nil },
	)
	require.EqualError(t, err, inmemory.ErrEscrowNotFound.Error())

	require.NoError(t, repo.UpdateEscrow(ctx, 1,
		func(l *domain.EscrowLock) (*domain.EscrowLock, error) {
			if err := l.Fund(100000, 1500); err != nil {
				return nil, err
			}
			return l, nil
		},
	))
	stored, err := repo.GetEscrow(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(100000), stored.UserLock)
}

func TestBondRepository(t *testing.T) {
	repoManager := inmemory.NewRepoManager()
	repo := repoManager.BondRepository()

	missing, err := repo.GetBond(ctx, "agent")
	require.NoError(t, err)
	require.Nil(t, missing)

	// Updating a missing bond starts from an empty one.
	require.NoError(t, repo.UpdateBond(ctx, "agent",
		func(b *domain.StandingBond) (*domain.StandingBond, error) {
			if err := b.Deposit(10000); err != nil {
				return nil, err
			}
			return b, nil
		},
	))

	bond, err := repo.GetBond(ctx, "agent")
	require.NoError(t, err)
	require.Equal(t, uint64(10000), bond.Amount)
}

func TestRunTransactionRollback(t *testing.T) {
	repoManager := inmemory.NewRepoManager()
	errBoom := errors.New("boom")

	_, err := repoManager.RunTransaction(ctx, false,
		func(ctx context.Context) (interface{}, error) {
			if _, err := repoManager.OrderRepository().AddOrder(
				ctx, newTestOrder(t, "user"),
			); err != nil {
				return nil, err
			}
			if err := repoManager.BondRepository().UpdateBond(ctx, "agent",
				func(b *domain.StandingBond) (*domain.StandingBond, error) {
					if err := b.Deposit(10000); err != nil {
						return nil, err
					}
					return b, nil
				},
			); err != nil {
				return nil, err
			}
			return nil, errBoom
		},
	)
	require.EqualError(t, err, errBoom.Error())

	// Every write of the failed transaction is rolled back, including the
	// order id sequence.
	order, err := repoManager.OrderRepository().GetOrder(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, order)
	bond, err := repoManager.BondRepository().GetBond(ctx, "agent")
	require.NoError(t, err)
	require.Nil(t, bond)

	id, err := repoManager.OrderRepository().AddOrder(ctx, newTestOrder(t, "user"))
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)
}

func TestRunTransactionCommit(t *testing.T) {
	repoManager := inmemory.NewRepoManager()

	res, err := repoManager.RunTransaction(ctx, false,
		func(ctx context.Context) (interface{}, error) {
			return repoManager.OrderRepository().AddOrder(ctx, newTestOrder(t, "user"))
		},
	)
	require.NoError(t, err)
	require.Equal(t, uint64(1), res.(uint64))

	order, err := repoManager.OrderRepository().GetOrder(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, order)
}

func newTestOrder(t *testing.T, user string) *domain.Order {
	t.Helper()
	order, err := domain.NewOrderIntent(
		user, "zusd", 100000, "WH-1", "EU-WEST", "SKU-42", 10, 5000, 1000,
	)
	require.NoError(t, err)
	return order
}
