package store

import (
	"sync"

	"github.com/councilos/councilos/internal/models"
)

// RunStateStore holds the live state of in-flight runs. It backs the status
// endpoint and the websocket stream while a run executes; the durable record
// lives in RunStore. Entries for finished runs are kept until evicted so
// late websocket subscribers still see the terminal event.
type RunStateStore struct {
	mu     sync.RWMutex
	states map[string]*models.RunState
}

// NewRunStateStore creates an empty run state table.
func NewRunStateStore() *RunStateStore {
	return &RunStateStore{states: make(map[string]*models.RunState)}
}

// Put stores the initial state for a run.
func (s *RunStateStore) Put(state *models.RunState) {
	s.mu.Lock()
	s.states[state.RunID] = state
	s.mu.Unlock()
}

// Get returns a copy of the run's live state.
func (s *RunStateStore) Get(runID string) (*models.RunState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[runID]
	if !ok {
		return nil, false
	}
	copied := *state
	return &copied, true
}

// Update applies fn to the run's state under the lock. Unknown run ids are
// ignored.
func (s *RunStateStore) Update(runID string, fn func(*models.RunState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.states[runID]; ok {
		fn(state)
	}
}

// Delete evicts a run's live state.
func (s *RunStateStore) Delete(runID string) {
	s.mu.Lock()
	delete(s.states, runID)
	s.mu.Unlock()
}
