package gateway

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/councilos/councilos/internal/logging"
	"github.com/councilos/councilos/internal/models"
	"github.com/councilos/councilos/internal/orchestration"
	"github.com/councilos/councilos/internal/store"
)

var wsTracer = otel.Tracer("council-stream")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking for production
		return true
	},
}

// pollInterval is how often the stream samples the run's live state.
const pollInterval = 500 * time.Millisecond

// CouncilStream pushes run lifecycle events to websocket clients. It
// observes the live run-state table the orchestration listener writes to,
// so any number of clients can follow the same run.
type CouncilStream struct {
	states  *store.RunStateStore
	service *orchestration.Service
	tracer  trace.Tracer
}

// NewCouncilStream creates a stream handler over the live state table.
func NewCouncilStream(states *store.RunStateStore, service *orchestration.Service) *CouncilStream {
	return &CouncilStream{
		states:  states,
		service: service,
		tracer:  wsTracer,
	}
}

// StreamRun handles WebSocket /api/ws/council/:run_id
// @Summary Stream council run progress
// @Description WebSocket endpoint streaming node_active / run_paused / run_complete events
// @Tags runs
// @Param run_id path string true "Run ID"
// @Success 101 "Switching Protocols"
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /ws/council/{run_id} [get]
func (s *CouncilStream) StreamRun(c *gin.Context) {
	ctx, span := s.tracer.Start(c.Request.Context(), "council_stream.stream_run")
	defer span.End()

	runID := c.Param("run_id")
	span.SetAttributes(attribute.String("run.id", runID))

	state, ok := s.states.Get(runID)
	if !ok {
		// Fall back to history so finished runs still answer with their
		// terminal event instead of a 404.
		fallback, err := s.service.RunStatus(ctx, runID)
		if err != nil {
			span.RecordError(err)
			respondError(c, http.StatusNotFound, models.ErrCodeNotFound, "Run not found")
			return
		}
		state = fallback
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		span.RecordError(err)
		logging.L.Warnw("websocket upgrade failed", "run_id", runID, "error", err)
		return
	}
	defer conn.Close()

	logging.L.Infow("websocket client connected", "run_id", runID)

	// The stream is one-way; the read loop only detects client departure.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(models.RunEvent{
		Event:  models.EventConnected,
		RunID:  runID,
		Status: state.Status,
	}); err != nil {
		return
	}

	if s.emitTransition(conn, runID, &models.RunState{RunID: runID}, state) {
		return
	}

	last := state
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			logging.L.Infow("websocket client disconnected", "run_id", runID)
			return
		case <-ticker.C:
			current, ok := s.states.Get(runID)
			if !ok {
				// Live entry evicted mid-stream; report what history has.
				current, err = s.service.RunStatus(c.Request.Context(), runID)
				if err != nil {
					conn.WriteJSON(models.RunEvent{
						Event:   models.EventError,
						RunID:   runID,
						Message: "Run state no longer available",
					})
					return
				}
			}
			if s.emitTransition(conn, runID, last, current) {
				return
			}
			last = current
		}
	}
}

// emitTransition sends the events implied by the change from prev to cur.
// Returns true when the run reached a terminal status and the stream is
// done.
func (s *CouncilStream) emitTransition(conn *websocket.Conn, runID string, prev, cur *models.RunState) bool {
	nodeChanged := stringPtrValue(cur.ActiveNode) != stringPtrValue(prev.ActiveNode) ||
		intPtrValue(cur.IterationCount) != intPtrValue(prev.IterationCount)
	if cur.Status == models.RunStatusRunning && cur.ActiveNode != nil && nodeChanged {
		if err := conn.WriteJSON(models.RunEvent{
			Event:     models.EventNodeActive,
			RunID:     runID,
			Status:    cur.Status,
			Node:      *cur.ActiveNode,
			Iteration: cur.IterationCount,
		}); err != nil {
			return true
		}
	}

	if cur.Status == prev.Status {
		return false
	}

	switch cur.Status {
	case models.RunStatusPaused:
		event := models.RunEvent{
			Event:  models.EventRunPaused,
			RunID:  runID,
			Status: cur.Status,
		}
		if cp, err := s.service.Snapshot(runID); err == nil {
			event.NextNodes = cp.NextNodes
			if cp.CurrentState != nil {
				event.CurrentDraft = cp.CurrentState.Draft
			}
		}
		conn.WriteJSON(event)
	case models.RunStatusRunning:
		if prev.Status == models.RunStatusPaused {
			conn.WriteJSON(models.RunEvent{
				Event:  models.EventRunResumed,
				RunID:  runID,
				Status: cur.Status,
			})
		}
	case models.RunStatusCompleted:
		conn.WriteJSON(models.RunEvent{
			Event:           models.EventRunComplete,
			RunID:           runID,
			Status:          cur.Status,
			FinalDraft:      cur.FinalDraft,
			EvaluationScore: cur.EvaluationScore,
			IterationCount:  cur.IterationCount,
		})
		return true
	case models.RunStatusFailed, models.RunStatusRejected:
		conn.WriteJSON(models.RunEvent{
			Event:  models.EventRunFailed,
			RunID:  runID,
			Status: cur.Status,
			Error:  cur.Error,
		})
		return true
	}

	return false
}

func stringPtrValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intPtrValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
