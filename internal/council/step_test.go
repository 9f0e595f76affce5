package council

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/councilos/councilos/internal/llm"
)

func TestCompileStep_Selection(t *testing.T) {
	deps := Deps{Models: llm.NewRegistry()}

	tests := []struct {
		name      string
		prompt    string
		evaluator bool
	}{
		{"plain drafting prompt", "You write engaging blog posts.", false},
		{"critic keyword", "You are a harsh critic of technical writing.", true},
		{"german kritik", "Du übst Kritik an Texten.", true},
		{"german bewerten", "Bewerte den Entwurf streng.", true},
		{"evaluate keyword", "Evaluate drafts for accuracy.", true},
		{"review keyword", "Review the draft and respond.", true},
		{"score keyword", "Score each submission.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step := CompileStep(node("n", tt.prompt), deps)
			if tt.evaluator {
				assert.IsType(t, &evaluatorStep{}, step)
			} else {
				assert.IsType(t, &genericStep{}, step)
			}
		})
	}
}

func TestCompileStep_DefaultInstructions(t *testing.T) {
	t.Run("from label", func(t *testing.T) {
		n := node("writer-1", "")
		n.Label = "Senior Writer"
		step := CompileStep(n, Deps{Models: llm.NewRegistry()}).(*genericStep)
		assert.Equal(t, "You are Senior Writer.", step.cfg.Instructions)
	})

	t.Run("from id when label missing", func(t *testing.T) {
		n := node("writer-1", "")
		n.Label = ""
		step := CompileStep(n, Deps{Models: llm.NewRegistry()}).(*genericStep)
		assert.Equal(t, "You are writer-1.", step.cfg.Instructions)
	})
}

func TestBuildWorkPrompt(t *testing.T) {
	t.Run("fresh topic", func(t *testing.T) {
		s := NewState("r", "write about tides")
		got := buildWorkPrompt(s)
		assert.Equal(t, "Please work on the following topic:\n\nwrite about tides", got)
	})

	t.Run("draft without feedback", func(t *testing.T) {
		s := NewState("r", "tides")
		s.Draft = "The moon pulls water."
		got := buildWorkPrompt(s)
		assert.Contains(t, got, "Current draft:\nThe moon pulls water.")
		assert.Contains(t, got, "Please review and improve this draft.")
	})

	t.Run("draft with feedback rounds", func(t *testing.T) {
		s := NewState("r", "tides")
		s.Draft = "The moon pulls water."
		s.FeedbackLog = []string{"Score: 4.0/10\nToo short.", "Score: 6.0/10\nCite sources."}
		got := buildWorkPrompt(s)
		assert.Contains(t, got, "Feedback (2 round(s)):")
		assert.Contains(t, got, "Feedback round 1:\nScore: 4.0/10\nToo short.")
		assert.Contains(t, got, "Feedback round 2:\nScore: 6.0/10\nCite sources.")
		assert.Contains(t, got, "Please produce an improved version.")
	})
}

func TestGenericStep_Execute(t *testing.T) {
	inv := &scriptedInvoker{queue: textResponses("A first draft about tides.")}
	step := CompileStep(node("writer", "You write essays."), Deps{Models: registryWith(inv)})

	state := NewState("run-1", "tides")
	update, err := step.Execute(context.Background(), state)
	require.NoError(t, err)

	require.NotNil(t, update.Draft)
	assert.Equal(t, "A first draft about tides.", *update.Draft)
	require.NotNil(t, update.IterationCount)
	assert.Equal(t, 1, *update.IterationCount)
	require.NotNil(t, update.ActiveNode)
	assert.Equal(t, "writer", *update.ActiveNode)

	// System, user and assistant turns land in the history.
	require.Len(t, update.History, 3)
	assert.Equal(t, llm.RoleSystem, update.History[0].Role)
	assert.Equal(t, "You write essays.", update.History[0].Content)
	assert.Equal(t, llm.RoleUser, update.History[1].Role)
	assert.Equal(t, llm.RoleAssistant, update.History[2].Role)
}

func TestStateApply(t *testing.T) {
	s := NewState("run-1", "topic")
	s.Draft = "old"
	s.FeedbackLog = []string{"first"}
	s.IterationCount = 2

	s.Apply(Update{
		Draft:          ptr("new"),
		FeedbackLog:    []string{"second"},
		IterationCount: ptr(3),
		RoutingSignal:  ptr(SignalRework),
	})

	assert.Equal(t, "new", s.Draft)
	assert.Equal(t, []string{"first", "second"}, s.FeedbackLog)
	assert.Equal(t, 3, s.IterationCount)
	assert.Equal(t, SignalRework, s.RoutingSignal)
	// Untouched fields survive an empty update.
	s.Apply(Update{})
	assert.Equal(t, "new", s.Draft)
	assert.Equal(t, 3, s.IterationCount)
}

func TestStateClone(t *testing.T) {
	s := NewState("run-1", "topic")
	s.FeedbackLog = []string{"a"}
	s.EvaluationScore = ptr(6.0)

	c := s.Clone()
	c.FeedbackLog = append(c.FeedbackLog, "b")
	*c.EvaluationScore = 9.0
	c.Draft = "changed"

	assert.Equal(t, []string{"a"}, s.FeedbackLog)
	assert.Equal(t, 6.0, *s.EvaluationScore)
	assert.Empty(t, s.Draft)
}
