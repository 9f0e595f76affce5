package council

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/councilos/councilos/internal/llm"
)

const evaluatorContract = "\n\n" +
	"IMPORTANT: You must respond in EXACTLY this format:\n\n" +
	"SCORE: <integer 0-10>\n" +
	"VERDICT: <\"approve\" if score >= 8, otherwise \"rework\">\n" +
	"FEEDBACK:\n" +
	"<detailed, actionable feedback>\n\n" +
	"Scoring: 0-3 poor, 4-6 adequate, 7 good, 8-9 high quality, 10 exceptional."

// evaluatorStep scores the draft and steers the rework/approval loop.
type evaluatorStep struct {
	cfg  NodeConfig
	deps Deps
}

func (e *evaluatorStep) Execute(ctx context.Context, s *State) (Update, error) {
	// Safety valve: once the rework ceiling is hit, approve without asking
	// any model so a strict evaluator cannot loop the council forever.
	if s.IterationCount >= MaxIterations {
		return Update{
			RoutingSignal:   ptr(SignalApprove),
			EvaluationScore: ptr(float64(ApprovalThreshold)),
			FeedbackLog:     []string{fmt.Sprintf("[Auto-approved after %d iterations]", MaxIterations)},
			ActiveNode:      ptr(e.cfg.ID),
		}, nil
	}

	invoker, err := e.deps.Models.Resolve(e.cfg.Model)
	if err != nil {
		return Update{}, err
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: e.cfg.Instructions + evaluatorContract},
		{Role: llm.RoleUser, Content: fmt.Sprintf(
			"Evaluate this draft on the topic '%s':\n\n%s", s.Topic, s.Draft,
		)},
	}

	resp, err := invokeWithTools(ctx, invoker, messages, e.cfg.Tools)
	if err != nil {
		return Update{}, fmt.Errorf("node %q: %w", e.cfg.ID, err)
	}

	score, feedback := parseEvaluation(resp.Content)

	signal := SignalRework
	if score >= ApprovalThreshold {
		signal = SignalApprove
	}

	update := Update{
		RoutingSignal:   ptr(signal),
		EvaluationScore: ptr(score),
		History: append(messages, llm.Message{
			Role:    llm.RoleAssistant,
			Content: resp.Content,
		}),
		ActiveNode: ptr(e.cfg.ID),
	}
	if signal == SignalRework {
		update.FeedbackLog = []string{fmt.Sprintf("Score: %.1f/10\n%s", score, feedback)}
	}
	return update, nil
}

var (
	scorePattern    = regexp.MustCompile(`SCORE:\s*(\d+(?:\.\d+)?)`)
	feedbackPattern = regexp.MustCompile(`(?s)FEEDBACK:\s*(.*)`)
)

// parseEvaluation extracts the score and feedback from an evaluator
// response. A response missing the expected structure is not fatal: it
// yields score 0 with the raw text as feedback, which routes to rework.
func parseEvaluation(content string) (float64, string) {
	score := 0.0
	if m := scorePattern.FindStringSubmatch(content); m != nil {
		if parsed, err := strconv.ParseFloat(m[1], 64); err == nil {
			score = parsed
		}
	}
	score = clamp(score, 0, 10)

	feedback := strings.TrimSpace(content)
	if m := feedbackPattern.FindStringSubmatch(content); m != nil {
		feedback = strings.TrimSpace(m[1])
	}
	return score, feedback
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
