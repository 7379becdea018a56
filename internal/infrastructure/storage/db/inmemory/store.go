package inmemory

import (
	"encoding/json"
	"sync"

	"github.com/zeta-network/zetad/internal/core/domain"
)

// storeState is the whole dataset held in memory. Kept in a single
// json-serializable struct so a transaction can snapshot and restore it.
type storeState struct {
	Policy      *domain.Policy
	Agents      map[string]domain.Agent
	NextOrderId uint64
	Orders      map[uint64]domain.Order
	Escrows     map[uint64]domain.EscrowLock
	Bonds       map[string]domain.StandingBond
	Disputes    map[uint64]domain.Dispute
	Payouts     map[uint64][]domain.Payout
}

type repoStore struct {
	locker sync.Mutex
	state  storeState
}

func newRepoStore() *repoStore {
	return &repoStore{
		state: storeState{
			Agents:   map[string]domain.Agent{},
			Orders:   map[uint64]domain.Order{},
			Escrows:  map[uint64]domain.EscrowLock{},
			Bonds:    map[string]domain.StandingBond{},
			Disputes: map[uint64]domain.Dispute{},
			Payouts:  map[uint64][]domain.Payout{},
		},
	}
}

func (s *repoStore) snapshot() ([]byte, error) {
	s.locker.Lock()
	defer s.locker.Unlock()

	return json.Marshal(s.state)
}

func (s *repoStore) restore(snap []byte) error {
	s.locker.Lock()
	defer s.locker.Unlock()

	var state storeState
	if err := json.Unmarshal(snap, &state); err != nil {
		return err
	}
	s.state = state
	return nil
}

// clone deep-copies an entity through its json encoding so callers never
// alias the stored maps and slices.
func clone(src, dst interface{}) error {
	buf, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, dst)
}
