package llm

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
)

// ErrUnknownModel is returned when a blueprint names a model choice no
// invoker has been registered for. It is fatal to the step that hits it.
var ErrUnknownModel = errors.New("unknown model")

// Registry maps blueprint model-choice strings to configured invokers.
type Registry struct {
	mu       sync.RWMutex
	invokers map[string]Invoker
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{invokers: make(map[string]Invoker)}
}

// Register binds an invoker to a model-choice name, replacing any previous
// binding.
func (r *Registry) Register(name string, inv Invoker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invokers[name] = inv
}

// Resolve returns the invoker for a model choice or ErrUnknownModel.
func (r *Registry) Resolve(name string) (Invoker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.invokers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %v)", ErrUnknownModel, name, r.namesLocked())
	}
	return inv, nil
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.invokers))
	for name := range r.invokers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry wires the model choices the blueprint editor offers.
// claude-3-5-sonnet goes through an OpenAI-compatible endpoint so both
// choices share the same client; base URLs and keys come from the
// environment.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("gpt-4o", NewChatModel("gpt-4o",
		WithAPIKey(os.Getenv("OPENAI_API_KEY")),
	))
	r.Register("claude-3-5-sonnet", NewChatModel("claude-3-5-sonnet-20241022",
		WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
		WithBaseURL(envOr("ANTHROPIC_BASE_URL", "https://api.anthropic.com/v1")),
	))
	return r
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
