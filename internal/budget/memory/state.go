package memory

import (
	"sync"

	"github.com/frahmantamala/monthly-budget/internal/budget"
)

// StateRepository keeps snapshots in process memory; nothing survives a
// restart.
type StateRepository struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewStateRepository() *StateRepository {
	return &StateRepository{values: make(map[string][]byte)}
}

var _ budget.RepositoryAPI = (*StateRepository)(nil)

func (r *StateRepository) Get(key string) ([]byte, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (r *StateRepository) Put(key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.values[key] = append([]byte(nil), value...)
	return nil
}
