package dbbadger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
	"github.com/zeta-network/zetad/internal/core/domain"
)

const policyKey = "policy"

// ErrPolicyAlreadyInitialized is returned when initializing the policy
// singleton twice.
var ErrPolicyAlreadyInitialized = errors.New("policy is already initialized")

type policyRepositoryImpl struct {
	db *repoManager
}

// NewPolicyRepositoryImpl returns a new badger PolicyRepository
// implementation.
func NewPolicyRepositoryImpl(db *repoManager) domain.PolicyRepository {
	return policyRepositoryImpl{db}
}

func (r policyRepositoryImpl) GetPolicy(ctx context.Context) (*domain.Policy, error) {
	var policy domain.Policy
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.db.store.TxGet(tx, policyKey, &policy)
	} else {
		err = r.db.store.Get(policyKey, &policy)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &policy, nil
}

func (r policyRepositoryImpl) InitPolicy(
	ctx context.Context, policy *domain.Policy,
) error {
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.db.store.TxInsert(tx, policyKey, *policy)
	} else {
		err = r.db.store.Insert(policyKey, *policy)
	}
	if errors.Is(err, badgerhold.ErrKeyExists) {
		return ErrPolicyAlreadyInitialized
	}
	return err
}

func (r policyRepositoryImpl) UpdatePolicy(
	ctx context.Context, updateFn func(p *domain.Policy) (*domain.Policy, error),
) error {
	current, err := r.GetPolicy(ctx)
	if err != nil {
		return err
	}
	if current == nil {
		return badgerhold.ErrNotFound
	}
	updated, err := updateFn(current)
	if err != nil {
		return err
	}

	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return r.db.store.TxUpdate(tx, policyKey, *updated)
	}
	return r.db.store.Update(policyKey, *updated)
}
