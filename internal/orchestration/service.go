// Package orchestration owns the run lifecycle: it compiles blueprints,
// launches traversals on a worker pool, bridges approval decisions to
// paused runs, and mirrors engine events into the stores the API surface
// reads from.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/councilos/councilos/internal/council"
	"github.com/councilos/councilos/internal/llm"
	"github.com/councilos/councilos/internal/logging"
	"github.com/councilos/councilos/internal/metrics"
	"github.com/councilos/councilos/internal/models"
	"github.com/councilos/councilos/internal/store"
	"github.com/councilos/councilos/internal/tools"
)

// ErrInvalidMode rejects run requests with an unknown execution mode.
var ErrInvalidMode = errors.New("invalid execution mode")

// Service handles council run orchestration logic.
type Service struct {
	blueprints *store.BlueprintStore
	runs       *store.RunStore
	liveStates *store.RunStateStore
	documents  tools.ChunkStore
	registry   *llm.Registry
	resolver   *tools.Resolver
	sessions   *council.SessionManager
	metrics    *metrics.RunMetrics
	workers    *ants.Pool
}

// Config collects the collaborators a Service needs.
type Config struct {
	Blueprints *store.BlueprintStore
	Runs       *store.RunStore
	LiveStates *store.RunStateStore
	Documents  tools.ChunkStore
	Registry   *llm.Registry
	Resolver   *tools.Resolver
	Sessions   *council.SessionManager
	Metrics    *metrics.RunMetrics
	// Workers caps concurrent traversals; defaults to 16.
	Workers int
}

// NewService creates the orchestration service and its worker pool.
func NewService(cfg Config) (*Service, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 16
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	return &Service{
		blueprints: cfg.Blueprints,
		runs:       cfg.Runs,
		liveStates: cfg.LiveStates,
		documents:  cfg.Documents,
		registry:   cfg.Registry,
		resolver:   cfg.Resolver,
		sessions:   cfg.Sessions,
		metrics:    cfg.Metrics,
		workers:    pool,
	}, nil
}

// Close releases the worker pool. In-flight traversals finish on their own.
func (s *Service) Close() {
	s.workers.Release()
}

// StartRun compiles the blueprint, records the run, and hands the traversal
// to the worker pool. It returns the run id immediately; progress is
// observable through RunStatus and the websocket stream.
func (s *Service) StartRun(ctx context.Context, blueprintID, topic, mode string) (string, error) {
	if mode != models.ModeAutoPilot && mode != models.ModeSupervised {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	bp, err := s.blueprints.Get(ctx, blueprintID)
	if err != nil {
		return "", err
	}

	graph, err := council.Compile(bp, council.Deps{Models: s.registry, Tools: s.resolver})
	if err != nil {
		return "", err
	}

	runID := uuid.New().String()
	run := &models.CouncilRun{
		ID:            runID,
		BlueprintID:   &bp.ID,
		InputTopic:    topic,
		Status:        models.RunStatusPending,
		ExecutionMode: mode,
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return "", err
	}

	s.liveStates.Put(&models.RunState{
		RunID:      runID,
		InputTopic: topic,
		Status:     models.RunStatusPending,
	})

	listener := &runListener{
		service:       s,
		blueprintName: bp.Name,
		mode:          mode,
		startedAt:     time.Now(),
		lastEventAt:   time.Now(),
		visited:       make(map[string]bool),
	}

	opts := []council.ExecutorOption{council.WithListener(listener)}
	if mode == models.ModeSupervised {
		opts = append(opts, council.WithCheckpoints(s.sessions))
	}
	executor := council.NewExecutor(graph, opts...)

	err = s.workers.Submit(func() {
		// The traversal outlives the HTTP request that started it.
		runCtx := context.Background()
		s.liveStates.Update(runID, func(st *models.RunState) {
			st.Status = models.RunStatusRunning
		})
		s.metrics.RecordRunStarted(runCtx, bp.Name, mode)

		state := council.NewState(runID, topic)
		if _, err := executor.Run(runCtx, state); err != nil {
			logging.L.Warnw("run ended with error", "run_id", runID, "error", err)
		}
	})
	if err != nil {
		s.liveStates.Delete(runID)
		return "", fmt.Errorf("failed to schedule run: %w", err)
	}

	return runID, nil
}

// Decision actions accepted by Resume.
const (
	DecisionApprove = "approve"
	DecisionModify  = "modify"
	DecisionReject  = "reject"
)

// ErrInvalidDecision rejects Resume calls with an unknown action.
var ErrInvalidDecision = errors.New("invalid decision")

// Resume delivers an operator decision to a paused supervised run. Modify
// carries a partial state update that is merged before the run continues.
func (s *Service) Resume(ctx context.Context, runID, decision string, update *council.Update) error {
	switch decision {
	case DecisionApprove:
		return s.sessions.Approve(runID)
	case DecisionModify:
		if update == nil {
			update = &council.Update{}
		}
		return s.sessions.Modify(runID, *update)
	case DecisionReject:
		return s.sessions.Reject(runID)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDecision, decision)
	}
}

// RunStatus returns the live state of a run, falling back to the persisted
// row once the in-memory entry is gone.
func (s *Service) RunStatus(ctx context.Context, runID string) (*models.RunState, error) {
	if state, ok := s.liveStates.Get(runID); ok {
		return state, nil
	}

	run, err := s.runs.Get(ctx, runID)
	if err != nil {
		return nil, err
	}
	return &models.RunState{
		RunID:           run.ID,
		InputTopic:      run.InputTopic,
		Status:          run.Status,
		FinalDraft:      run.FinalDraft,
		EvaluationScore: run.EvaluationScore,
		IterationCount:  run.IterationCount,
		ActiveNode:      run.ActiveNode,
		Error:           run.Error,
	}, nil
}

// Snapshot returns the checkpoint of a paused run for inspection.
func (s *Service) Snapshot(runID string) (*council.Checkpoint, error) {
	return s.sessions.Snapshot(runID)
}

// IngestPDF parses and chunks an uploaded PDF into the document store.
// Returns the number of chunks ingested.
func (s *Service) IngestPDF(ctx context.Context, filename string, r io.Reader) (int, error) {
	return tools.IngestPDF(ctx, s.documents, filename, r)
}

// runListener mirrors one run's engine events into the live state table,
// the history row, and metrics.
type runListener struct {
	service       *Service
	blueprintName string
	mode          string
	startedAt     time.Time

	// Touched only from the single executor goroutine of the run.
	lastEventAt time.Time
	visited     map[string]bool
}

func (l *runListener) NodeActive(runID, nodeID string, iteration int) {
	l.service.liveStates.Update(runID, func(st *models.RunState) {
		st.Status = models.RunStatusRunning
		st.ActiveNode = &nodeID
		st.IterationCount = &iteration
	})

	ctx := context.Background()
	l.service.metrics.RecordStepDuration(ctx, nodeID, time.Since(l.lastEventAt))
	l.lastEventAt = time.Now()
	if l.visited[nodeID] {
		// A second visit to the same node means the council looped back
		// for rework.
		l.service.metrics.RecordRework(ctx, nodeID)
	}
	l.visited[nodeID] = true

	if err := l.service.runs.UpdateProgress(ctx, runID, models.RunStatusRunning, &nodeID, &iteration); err != nil {
		logging.L.Warnw("failed to persist run progress", "run_id", runID, "error", err)
	}
}

func (l *runListener) RunPaused(runID string, nextNodes []string, snapshot *council.State) {
	l.service.liveStates.Update(runID, func(st *models.RunState) {
		st.Status = models.RunStatusPaused
	})

	ctx := context.Background()
	var node *string
	if len(nextNodes) > 0 {
		node = &nextNodes[0]
	}
	iteration := snapshot.IterationCount
	if err := l.service.runs.UpdateProgress(ctx, runID, models.RunStatusPaused, node, &iteration); err != nil {
		logging.L.Warnw("failed to persist pause", "run_id", runID, "error", err)
	}
}

func (l *runListener) RunResumed(runID string) {
	l.service.liveStates.Update(runID, func(st *models.RunState) {
		st.Status = models.RunStatusRunning
	})
	// Time spent waiting for the operator is not step time.
	l.lastEventAt = time.Now()
}

func (l *runListener) RunCompleted(runID string, final *council.State) {
	draft := final.Draft
	iteration := final.IterationCount

	l.service.liveStates.Update(runID, func(st *models.RunState) {
		st.Status = models.RunStatusCompleted
		st.FinalDraft = &draft
		st.EvaluationScore = final.EvaluationScore
		st.IterationCount = &iteration
		st.ActiveNode = nil
	})

	ctx := context.Background()
	if err := l.service.runs.Complete(ctx, runID, models.RunStatusCompleted, &draft, final.EvaluationScore, &iteration, nil); err != nil {
		logging.L.Warnw("failed to persist run completion", "run_id", runID, "error", err)
	}
	l.service.metrics.RecordRunCompleted(ctx, l.blueprintName, l.mode, time.Since(l.startedAt))
	logging.L.Infow("run completed", "run_id", runID, "iterations", iteration)
}

func (l *runListener) RunFailed(runID string, err error) {
	status := models.RunStatusFailed
	errorType := "step_error"
	if errors.Is(err, council.ErrRunRejected) {
		status = models.RunStatusRejected
		errorType = "rejected"
	}
	msg := err.Error()

	l.service.liveStates.Update(runID, func(st *models.RunState) {
		st.Status = status
		st.Error = &msg
		st.ActiveNode = nil
	})

	ctx := context.Background()
	if err := l.service.runs.Complete(ctx, runID, status, nil, nil, nil, &msg); err != nil {
		logging.L.Warnw("failed to persist run failure", "run_id", runID, "error", err)
	}
	l.service.metrics.RecordRunFailed(ctx, l.blueprintName, l.mode, errorType, time.Since(l.startedAt))
	logging.L.Warnw("run failed", "run_id", runID, "status", status, "error", msg)
}
