package dbbadger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
	"github.com/zeta-network/zetad/internal/core/domain"
	"github.com/zeta-network/zetad/internal/core/ports"
)

type repoManager struct {
	store    *badgerhold.Store
	orderSeq *badger.Sequence

	policyRepository  domain.PolicyRepository
	agentRepository   domain.AgentRepository
	orderRepository   domain.OrderRepository
	escrowRepository  domain.EscrowRepository
	bondRepository    domain.BondRepository
	disputeRepository domain.DisputeRepository
	payoutRepository  domain.PayoutRepository
}

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// It expects a base data dir and an optional logger.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	store, err := createDb(baseDbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	orderSeq, err := store.Badger().GetSequence([]byte("order_id"), 100)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("opening order sequence: %w", err)
	}

	d := &repoManager{store: store, orderSeq: orderSeq}
	d.policyRepository = NewPolicyRepositoryImpl(d)
	d.agentRepository = NewAgentRepositoryImpl(d)
	d.orderRepository = NewOrderRepositoryImpl(d)
	d.escrowRepository = NewEscrowRepositoryImpl(d)
	d.bondRepository = NewBondRepositoryImpl(d)
	d.disputeRepository = NewDisputeRepositoryImpl(d)
	d.payoutRepository = NewPayoutRepositoryImpl(d)
	return d, nil
}

func (d *repoManager) PolicyRepository() domain.PolicyRepository {
	return d.policyRepository
}

func (d *repoManager) AgentRepository() domain.AgentRepository {
	return d.agentRepository
}

func (d *repoManager) OrderRepository() domain.OrderRepository {
	return d.orderRepository
}

func (d *repoManager) EscrowRepository() domain.EscrowRepository {
	return d.escrowRepository
}

func (d *repoManager) BondRepository() domain.BondRepository {
	return d.bondRepository
}

func (d *repoManager) DisputeRepository() domain.DisputeRepository {
	return d.disputeRepository
}

func (d *repoManager) PayoutRepository() domain.PayoutRepository {
	return d.payoutRepository
}

// RunTransaction runs the handler against a single badger transaction,
// propagated to the repositories through the context.
func (d *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	tx := d.store.Badger().NewTransaction(!readOnly)
	defer tx.Discard()

	res, err := handler(context.WithValue(ctx, "tx", tx))
	if err != nil {
		return nil, err
	}

	if !readOnly {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (d *repoManager) Close() {
	d.orderSeq.Release()
	d.store.Close()
}

func (d *repoManager) nextOrderId() (uint64, error) {
	next, err := d.orderSeq.Next()
	if err != nil {
		return 0, err
	}
	// Ids are 1-based, the zero sequence value is skipped.
	if next == 0 {
		return d.orderSeq.Next()
	}
	return next, nil
}

// JSONEncode is a custom JSON based encoder for badger.
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer

	en := json.NewEncoder(&buff)

	if err := en.Encode(value); err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger.
func JSONDecode(data []byte, value interface{}) error {
	de := json.NewDecoder(bytes.NewReader(data))
	return de.Decode(value)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	return badgerhold.Open(badgerhold.Options{
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
