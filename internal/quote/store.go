package quote

import (
	"sync"
	"time"

	"github.com/sells-group/deal-desk/internal/apperr"
	"github.com/sells-group/deal-desk/internal/metrics"
	"github.com/sells-group/deal-desk/internal/model"
)

// Store holds the latest DealState per deal id in memory. Writes to the
// same id are last-writer-wins; only the latest revision is kept.
type Store struct {
	mu    sync.RWMutex
	deals map[string]model.DealState
	now   func() time.Time
}

// NewStore creates an empty deal store.
func NewStore() *Store {
	return &Store{deals: make(map[string]model.DealState), now: time.Now}
}

// Put stores state under its deal id, replacing any earlier state, and
// returns it with the revision and timestamp filled in.
func (s *Store) Put(state model.DealState) model.DealState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state.Revision = s.deals[state.DealID].Revision + 1
	state.UpdatedAt = s.now().UTC()
	s.deals[state.DealID] = state
	metrics.DealsStored.Set(float64(len(s.deals)))
	return state
}

// Get returns the stored state for dealID.
func (s *Store) Get(dealID string) (model.DealState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.deals[dealID]
	if !ok {
		return model.DealState{}, apperr.NotFound("quote: no deal found for deal_id %q", dealID)
	}
	return state, nil
}

// Len returns the number of stored deals.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.deals)
}
