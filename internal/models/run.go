package models

import (
	"time"
)

// Run statuses cover the full lifecycle: pending → running → completed or
// failed, with paused interleaved while a supervised run waits for approval.
// Rejected is the terminal status of a paused run the operator shut down.
const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusPaused    = "paused"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
	RunStatusRejected  = "rejected"
)

// Execution modes.
const (
	ModeAutoPilot  = "auto-pilot"
	ModeSupervised = "supervised"
)

// CouncilRun is a persisted run record in the council_runs table.
type CouncilRun struct {
	ID              string     `json:"id" db:"id"`
	BlueprintID     *string    `json:"blueprint_id,omitempty" db:"blueprint_id"`
	InputTopic      string     `json:"input_topic" db:"input_topic"`
	Status          string     `json:"status" db:"status"`
	ExecutionMode   string     `json:"execution_mode" db:"execution_mode"`
	FinalDraft      *string    `json:"final_draft,omitempty" db:"final_draft"`
	EvaluationScore *float64   `json:"evaluation_score,omitempty" db:"evaluation_score"`
	IterationCount  *int       `json:"iteration_count,omitempty" db:"iteration_count"`
	ActiveNode      *string    `json:"active_node,omitempty" db:"active_node"`
	Error           *string    `json:"error,omitempty" db:"error"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// RunState is the live, in-memory view of a run consumed by the status
// endpoint and the websocket stream while the run executes.
type RunState struct {
	RunID           string   `json:"run_id"`
	InputTopic      string   `json:"input_topic"`
	Status          string   `json:"status"`
	FinalDraft      *string  `json:"final_draft,omitempty"`
	EvaluationScore *float64 `json:"evaluation_score,omitempty"`
	IterationCount  *int     `json:"iteration_count,omitempty"`
	ActiveNode      *string  `json:"active_node,omitempty"`
	Error           *string  `json:"error,omitempty"`
}
