package council

import (
	"context"
	"sync"
)

// Checkpoint is the queryable snapshot of a paused supervised run.
type Checkpoint struct {
	RunID        string   `json:"run_id"`
	Paused       bool     `json:"paused"`
	NextNodes    []string `json:"next_nodes"`
	CurrentState *State   `json:"current_state"`
}

// Decision actions an operator can take on a paused run.
const (
	actionApprove = "approve"
	actionModify  = "modify"
	actionReject  = "reject"
)

type decision struct {
	action string
	update *Update
}

// session is the per-run checkpoint record. Ownership is exclusive to the
// run: the executor goroutine blocks on decisions; operator calls go
// through the manager, which serializes them.
type session struct {
	runID string

	mu        sync.Mutex
	paused    bool
	resuming  bool
	nextNodes []string
	snapshot  *State

	decisions chan decision
}

// SessionManager is the checkpoint/interrupt controller for supervised
// runs. It is constructed once at process start and injected into the
// executors and the transport layer.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

// NewSessionManager returns an empty session table.
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*session)}
}

// checkpoint suspends the calling executor before a node executes. It
// snapshots the state, publishes the pause, and blocks until an operator
// decision or context cancellation. A modify decision is merged into the
// live state before resuming. There is no timeout: the contract is to wait
// indefinitely for a decision.
func (m *SessionManager) checkpoint(ctx context.Context, state *State, nextNode string, listener EventListener) error {
	sess := m.getOrCreate(state.RunID)

	sess.mu.Lock()
	sess.paused = true
	sess.resuming = false
	sess.nextNodes = []string{nextNode}
	sess.snapshot = state.Clone()
	sess.mu.Unlock()

	listener.RunPaused(state.RunID, []string{nextNode}, state)

	select {
	case d := <-sess.decisions:
		if d.action == actionReject {
			return ErrRunRejected
		}
		if d.action == actionModify && d.update != nil {
			state.Apply(*d.update)
		}
		sess.mu.Lock()
		sess.paused = false
		sess.mu.Unlock()
		listener.RunResumed(state.RunID)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the current checkpoint of a run for inspection.
func (m *SessionManager) Snapshot(runID string) (*Checkpoint, error) {
	m.mu.RLock()
	sess, ok := m.sessions[runID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	cp := &Checkpoint{
		RunID:     runID,
		Paused:    sess.paused,
		NextNodes: append([]string(nil), sess.nextNodes...),
	}
	if sess.snapshot != nil {
		cp.CurrentState = sess.snapshot.Clone()
	}
	return cp, nil
}

// Approve resumes a paused run with no state mutation.
func (m *SessionManager) Approve(runID string) error {
	return m.resume(runID, decision{action: actionApprove})
}

// Modify merges a partial state update into the paused run, then resumes.
func (m *SessionManager) Modify(runID string, update Update) error {
	return m.resume(runID, decision{action: actionModify, update: &update})
}

// Reject terminates a paused run and discards its session. The action is
// one-way; rejecting an unknown run id reports not-found. Like resume, it
// only acts on a run that is actually blocked at a checkpoint: rejecting
// while a step executes fails with ErrNotPaused and leaves the session
// intact, so the run can be rejected again once it re-pauses.
func (m *SessionManager) Reject(runID string) error {
	m.mu.Lock()
	sess, ok := m.sessions[runID]
	if !ok {
		m.mu.Unlock()
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	if !sess.paused || sess.resuming {
		sess.mu.Unlock()
		m.mu.Unlock()
		return ErrNotPaused
	}
	sess.resuming = true
	sess.mu.Unlock()
	delete(m.sessions, runID)
	m.mu.Unlock()

	sess.decisions <- decision{action: actionReject}
	return nil
}

// resume delivers an approve/modify decision to the executor blocked at the
// checkpoint. Calls against the same run are serialized: a second call
// while one is being applied fails with ErrResumeConflict instead of
// touching the snapshot.
func (m *SessionManager) resume(runID string, d decision) error {
	m.mu.RLock()
	sess, ok := m.sessions[runID]
	m.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	if !sess.paused {
		sess.mu.Unlock()
		return ErrNotPaused
	}
	if sess.resuming {
		sess.mu.Unlock()
		return ErrResumeConflict
	}
	sess.resuming = true
	sess.mu.Unlock()

	sess.decisions <- d
	return nil
}

func (m *SessionManager) getOrCreate(runID string) *session {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[runID]
	if !ok {
		sess = &session{
			runID:     runID,
			decisions: make(chan decision),
		}
		m.sessions[runID] = sess
	}
	return sess
}

// remove discards a run's session when its traversal ends.
func (m *SessionManager) remove(runID string) {
	m.mu.Lock()
	delete(m.sessions, runID)
	m.mu.Unlock()
}
