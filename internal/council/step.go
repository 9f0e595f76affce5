package council

import (
	"context"
	"fmt"
	"strings"

	"github.com/councilos/councilos/internal/llm"
	"github.com/councilos/councilos/internal/models"
	"github.com/councilos/councilos/internal/tools"
)

// Routing signals the evaluator emits and blueprint conditions match on.
const (
	SignalApprove = "approve"
	SignalRework  = "rework"
)

// Step is one executable node of a compiled graph.
type Step interface {
	// Execute runs the node against the current state and returns the
	// partial update to merge. It must not mutate the state directly.
	Execute(ctx context.Context, s *State) (Update, error)
}

// Deps are the capabilities steps are compiled against.
type Deps struct {
	Models *llm.Registry
	Tools  *tools.Resolver
}

// NodeConfig is the compiled configuration of one blueprint node.
type NodeConfig struct {
	ID           string
	Label        string
	Instructions string
	Model        string
	Tools        []tools.Tool
}

// evaluatorVocabulary marks nodes whose instructions imply a critique or
// scoring role. Role inference from free text is a compatibility fallback
// for blueprints without an explicit role field; a prompt that merely
// mentions one of these terms will be misclassified.
var evaluatorVocabulary = []string{"critic", "kritik", "bewert", "evaluat", "review", "score"}

func isEvaluatorLike(instructions string) bool {
	lower := strings.ToLower(instructions)
	for _, kw := range evaluatorVocabulary {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// CompileStep turns a blueprint node into an executable step, binding its
// model choice and tool capabilities. The evaluator variant is selected when
// the node's instructions match the evaluator vocabulary.
func CompileStep(node models.BlueprintNode, deps Deps) Step {
	instructions := node.SystemPrompt
	if instructions == "" {
		label := node.Label
		if label == "" {
			label = node.ID
		}
		instructions = fmt.Sprintf("You are %s.", label)
	}

	var bound []tools.Tool
	if deps.Tools != nil {
		bound = deps.Tools.Resolve(node.Tools)
	}

	cfg := NodeConfig{
		ID:           node.ID,
		Label:        node.Label,
		Instructions: instructions,
		Model:        node.Model,
		Tools:        bound,
	}

	if isEvaluatorLike(instructions) {
		return &evaluatorStep{cfg: cfg, deps: deps}
	}
	return &genericStep{cfg: cfg, deps: deps}
}

// genericStep produces or revises the work product.
type genericStep struct {
	cfg  NodeConfig
	deps Deps
}

func (g *genericStep) Execute(ctx context.Context, s *State) (Update, error) {
	invoker, err := g.deps.Models.Resolve(g.cfg.Model)
	if err != nil {
		return Update{}, err
	}

	userContent := buildWorkPrompt(s)
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: g.cfg.Instructions},
		{Role: llm.RoleUser, Content: userContent},
	}

	resp, err := invokeWithTools(ctx, invoker, messages, g.cfg.Tools)
	if err != nil {
		return Update{}, fmt.Errorf("node %q: %w", g.cfg.ID, err)
	}

	return Update{
		Draft: ptr(resp.Content),
		History: append(messages, llm.Message{
			Role:    llm.RoleAssistant,
			Content: resp.Content,
		}),
		ActiveNode:     ptr(g.cfg.ID),
		IterationCount: ptr(s.IterationCount + 1),
	}, nil
}

// buildWorkPrompt derives the user prompt for a generic step from the
// topic, current draft and accumulated feedback.
func buildWorkPrompt(s *State) string {
	if s.Draft == "" {
		return fmt.Sprintf("Please work on the following topic:\n\n%s", s.Topic)
	}

	if len(s.FeedbackLog) == 0 {
		return fmt.Sprintf(
			"Topic: %s\n\nCurrent draft:\n%s\n\nPlease review and improve this draft.",
			s.Topic, s.Draft,
		)
	}

	var feedback strings.Builder
	for i, fb := range s.FeedbackLog {
		if i > 0 {
			feedback.WriteString("\n\n---\n")
		}
		fmt.Fprintf(&feedback, "Feedback round %d:\n%s", i+1, fb)
	}
	return fmt.Sprintf(
		"Topic: %s\n\nCurrent draft:\n%s\n\nFeedback (%d round(s)):\n\n%s\n\nPlease produce an improved version.",
		s.Topic, s.Draft, len(s.FeedbackLog), feedback.String(),
	)
}
