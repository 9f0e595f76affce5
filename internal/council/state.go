// Package council compiles council blueprints into executable agent graphs
// and drives their traversal. A run threads a single mutable State through
// every step; supervised runs pause before each step for human approval.
package council

import (
	"github.com/councilos/councilos/internal/llm"
)

// ApprovalThreshold is the evaluator score at or above which the draft is
// approved and the rework loop exits.
const ApprovalThreshold = 8.0

// MaxIterations is the rework ceiling. Once a run's iteration count reaches
// it, the next evaluator step forces approval without invoking any model.
const MaxIterations = 5

// State is the shared execution context of one council run. It is owned by
// the executor for the run's lifetime and mutated only by the single
// in-flight step. FeedbackLog and History are append-only; IterationCount
// never decreases.
type State struct {
	Topic           string        `json:"input_topic"`
	Draft           string        `json:"current_draft"`
	FeedbackLog     []string      `json:"feedback_history"`
	RoutingSignal   string        `json:"route_decision"`
	History         []llm.Message `json:"messages"`
	IterationCount  int           `json:"iteration_count"`
	EvaluationScore *float64      `json:"evaluation_score"`
	RunID           string        `json:"run_id"`
	ActiveNode      string        `json:"active_node"`
}

// NewState builds the initial state of a run.
func NewState(runID, topic string) *State {
	return &State{
		Topic:       topic,
		RunID:       runID,
		FeedbackLog: []string{},
		History:     []llm.Message{},
	}
}

// Update is the partial state a step returns. Scalar fields overwrite when
// non-nil; FeedbackLog and History are concatenated onto the existing
// sequences. Topic and RunID are immutable and have no update field.
type Update struct {
	Draft           *string       `json:"current_draft,omitempty"`
	RoutingSignal   *string       `json:"route_decision,omitempty"`
	FeedbackLog     []string      `json:"feedback_history,omitempty"`
	History         []llm.Message `json:"messages,omitempty"`
	IterationCount  *int          `json:"iteration_count,omitempty"`
	EvaluationScore *float64      `json:"evaluation_score,omitempty"`
	ActiveNode      *string       `json:"active_node,omitempty"`
}

// Apply merges an update into the state.
func (s *State) Apply(u Update) {
	if u.Draft != nil {
		s.Draft = *u.Draft
	}
	if u.RoutingSignal != nil {
		s.RoutingSignal = *u.RoutingSignal
	}
	s.FeedbackLog = append(s.FeedbackLog, u.FeedbackLog...)
	s.History = append(s.History, u.History...)
	if u.IterationCount != nil {
		s.IterationCount = *u.IterationCount
	}
	if u.EvaluationScore != nil {
		s.EvaluationScore = u.EvaluationScore
	}
	if u.ActiveNode != nil {
		s.ActiveNode = *u.ActiveNode
	}
}

// Clone returns a deep copy, used for checkpoint snapshots so callers can
// inspect a paused run without racing the executor.
func (s *State) Clone() *State {
	c := *s
	c.FeedbackLog = append([]string(nil), s.FeedbackLog...)
	c.History = append([]llm.Message(nil), s.History...)
	if s.EvaluationScore != nil {
		score := *s.EvaluationScore
		c.EvaluationScore = &score
	}
	return &c
}

func ptr[T any](v T) *T { return &v }
