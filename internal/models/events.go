package models

// Websocket event names emitted over /api/ws/council/:run_id.
const (
	EventConnected   = "connected"
	EventNodeActive  = "node_active"
	EventRunPaused   = "run_paused"
	EventRunResumed  = "run_resumed"
	EventRunComplete = "run_complete"
	EventRunFailed   = "run_failed"
	EventError       = "error"
)

// RunEvent is the wire format for run lifecycle events.
type RunEvent struct {
	Event           string   `json:"event"`
	RunID           string   `json:"run_id"`
	Status          string   `json:"status,omitempty"`
	Node            string   `json:"node,omitempty"`
	Iteration       *int     `json:"iteration,omitempty"`
	NextNodes       []string `json:"next_nodes,omitempty"`
	CurrentDraft    string   `json:"current_draft,omitempty"`
	FinalDraft      *string  `json:"final_draft,omitempty"`
	EvaluationScore *float64 `json:"evaluation_score,omitempty"`
	IterationCount  *int     `json:"iteration_count,omitempty"`
	Error           *string  `json:"error,omitempty"`
	Message         string   `json:"message,omitempty"`
}
