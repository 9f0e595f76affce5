package council

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/councilos/councilos/internal/models"
)

func supervisedGraph(t *testing.T, inv *scriptedInvoker) *Graph {
	t.Helper()
	bp := &models.Blueprint{
		Name:  "supervised",
		Nodes: []models.BlueprintNode{node("writer", "You write.")},
	}
	graph, err := Compile(bp, Deps{Models: registryWith(inv)})
	require.NoError(t, err)
	return graph
}

func waitPaused(t *testing.T, sm *SessionManager, runID string) *Checkpoint {
	t.Helper()
	var cp *Checkpoint
	require.Eventually(t, func() bool {
		snapshot, err := sm.Snapshot(runID)
		if err != nil || !snapshot.Paused {
			return false
		}
		cp = snapshot
		return true
	}, 2*time.Second, 5*time.Millisecond)
	return cp
}

func TestSupervisedRun_Approve(t *testing.T) {
	inv := &scriptedInvoker{queue: textResponses("approved draft")}
	sm := NewSessionManager()
	listener := &recordingListener{}
	executor := NewExecutor(supervisedGraph(t, inv), WithListener(listener), WithCheckpoints(sm))

	done := make(chan *State, 1)
	go func() {
		state, _ := executor.Run(context.Background(), NewState("run-1", "tides"))
		done <- state
	}()

	cp := waitPaused(t, sm, "run-1")
	assert.Equal(t, []string{"writer"}, cp.NextNodes)
	require.NotNil(t, cp.CurrentState)
	assert.Equal(t, "tides", cp.CurrentState.Topic)
	assert.Empty(t, cp.CurrentState.Draft)
	// The step has not run yet.
	assert.Equal(t, 0, inv.callCount())

	require.NoError(t, sm.Approve("run-1"))

	select {
	case state := <-done:
		assert.Equal(t, "approved draft", state.Draft)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not finish after approval")
	}

	assert.Equal(t, 1, listener.paused)
	assert.Equal(t, 1, listener.resumed)
	assert.Equal(t, 1, listener.completed)

	// The session is discarded once the traversal ends.
	_, err := sm.Snapshot("run-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSupervisedRun_ModifySeedsState(t *testing.T) {
	inv := &scriptedInvoker{queue: textResponses("revised draft")}
	sm := NewSessionManager()
	executor := NewExecutor(supervisedGraph(t, inv), WithCheckpoints(sm))

	done := make(chan *State, 1)
	go func() {
		state, _ := executor.Run(context.Background(), NewState("run-2", "tides"))
		done <- state
	}()

	waitPaused(t, sm, "run-2")
	require.NoError(t, sm.Modify("run-2", Update{Draft: ptr("operator seeded text")}))

	var state *State
	select {
	case state = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not finish after modify")
	}

	assert.Equal(t, "revised draft", state.Draft)
	// The seeded draft changed the prompt the writer saw.
	assert.Contains(t, inv.call(0).Messages[1].Content, "operator seeded text")
}

func TestSupervisedRun_Reject(t *testing.T) {
	inv := &scriptedInvoker{}
	sm := NewSessionManager()
	listener := &recordingListener{}
	executor := NewExecutor(supervisedGraph(t, inv), WithListener(listener), WithCheckpoints(sm))

	errs := make(chan error, 1)
	go func() {
		_, err := executor.Run(context.Background(), NewState("run-3", "tides"))
		errs <- err
	}()

	waitPaused(t, sm, "run-3")
	require.NoError(t, sm.Reject("run-3"))

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrRunRejected)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not end after rejection")
	}

	assert.Equal(t, 0, inv.callCount())
	require.Len(t, listener.failed, 1)
	assert.ErrorIs(t, listener.failed[0], ErrRunRejected)

	// Rejection is one-way.
	assert.ErrorIs(t, sm.Approve("run-3"), ErrSessionNotFound)
}

func TestSupervisedRun_RejectDuringStep(t *testing.T) {
	inv := newBlockingInvoker()
	bp := &models.Blueprint{
		Name:  "supervised",
		Nodes: []models.BlueprintNode{node("writer", "You write."), node("editor", "You edit.")},
		Edges: []models.BlueprintEdge{linearEdge("e1", "writer", "editor")},
	}
	graph, err := Compile(bp, Deps{Models: registryWith(inv)})
	require.NoError(t, err)

	sm := NewSessionManager()
	executor := NewExecutor(graph, WithCheckpoints(sm))

	errs := make(chan error, 1)
	go func() {
		_, err := executor.Run(context.Background(), NewState("run-5", "tides"))
		errs <- err
	}()

	cp := waitPaused(t, sm, "run-5")
	assert.Equal(t, []string{"writer"}, cp.NextNodes)
	require.NoError(t, sm.Approve("run-5"))

	// The traversal is parked inside the writer step; a reject here has no
	// checkpoint to deliver to and must not tear down the session.
	<-inv.started
	assert.ErrorIs(t, sm.Reject("run-5"), ErrNotPaused)

	cp, err = sm.Snapshot("run-5")
	require.NoError(t, err)
	assert.False(t, cp.Paused)

	close(inv.release)

	// The run re-pauses before the editor; a reject now terminates it.
	cp = waitPaused(t, sm, "run-5")
	assert.Equal(t, []string{"editor"}, cp.NextNodes)
	require.NoError(t, sm.Reject("run-5"))

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrRunRejected)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not end after rejection")
	}
}

func TestSupervisedRun_ContextCancellation(t *testing.T) {
	inv := &scriptedInvoker{}
	sm := NewSessionManager()
	executor := NewExecutor(supervisedGraph(t, inv), WithCheckpoints(sm))

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		_, err := executor.Run(ctx, NewState("run-4", "tides"))
		errs <- err
	}()

	waitPaused(t, sm, "run-4")
	cancel()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not end after cancellation")
	}
}

func TestSessionManager_DecisionErrors(t *testing.T) {
	sm := NewSessionManager()

	t.Run("unknown run", func(t *testing.T) {
		assert.ErrorIs(t, sm.Approve("missing"), ErrSessionNotFound)
		assert.ErrorIs(t, sm.Modify("missing", Update{}), ErrSessionNotFound)
		assert.ErrorIs(t, sm.Reject("missing"), ErrSessionNotFound)
		_, err := sm.Snapshot("missing")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("not paused", func(t *testing.T) {
		sess := sm.getOrCreate("run-x")
		sess.paused = false
		assert.ErrorIs(t, sm.Approve("run-x"), ErrNotPaused)
	})

	t.Run("concurrent resume conflicts", func(t *testing.T) {
		sess := sm.getOrCreate("run-y")
		sess.paused = true
		sess.resuming = true
		assert.ErrorIs(t, sm.Approve("run-y"), ErrResumeConflict)
		assert.ErrorIs(t, sm.Modify("run-y", Update{}), ErrResumeConflict)
	})
}
