package council

import (
	"context"
	"sync"

	"github.com/councilos/councilos/internal/llm"
	"github.com/councilos/councilos/internal/models"
)

// scriptedInvoker replays queued responses and records every request it
// sees. When the queue runs dry it answers with a fixed response so linear
// scenarios don't need exhaustive scripts.
type scriptedInvoker struct {
	mu       sync.Mutex
	calls    []llm.Request
	queue    []*llm.Response
	fallback string
	err      error
}

func (f *scriptedInvoker) Invoke(_ context.Context, req llm.Request) (*llm.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.queue) > 0 {
		resp := f.queue[0]
		f.queue = f.queue[1:]
		return resp, nil
	}
	content := f.fallback
	if content == "" {
		content = "scripted output"
	}
	return &llm.Response{Content: content}, nil
}

func (f *scriptedInvoker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *scriptedInvoker) call(i int) llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[i]
}

// blockingInvoker parks the calling executor inside a step: Invoke signals
// on started, then waits for release before answering.
type blockingInvoker struct {
	started chan struct{}
	release chan struct{}
}

func newBlockingInvoker() *blockingInvoker {
	return &blockingInvoker{started: make(chan struct{}), release: make(chan struct{})}
}

func (b *blockingInvoker) Invoke(_ context.Context, _ llm.Request) (*llm.Response, error) {
	b.started <- struct{}{}
	<-b.release
	return &llm.Response{Content: "step output"}, nil
}

func textResponses(contents ...string) []*llm.Response {
	resps := make([]*llm.Response, len(contents))
	for i, c := range contents {
		resps[i] = &llm.Response{Content: c}
	}
	return resps
}

// recordingListener captures lifecycle events in order.
type recordingListener struct {
	mu        sync.Mutex
	active    []string
	paused    int
	resumed   int
	completed int
	failed    []error
}

func (r *recordingListener) NodeActive(_, nodeID string, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = append(r.active, nodeID)
}

func (r *recordingListener) RunPaused(string, []string, *State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused++
}

func (r *recordingListener) RunResumed(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resumed++
}

func (r *recordingListener) RunCompleted(string, *State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
}

func (r *recordingListener) RunFailed(_ string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, err)
}

func (r *recordingListener) activeNodes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.active...)
}

func node(id, prompt string) models.BlueprintNode {
	return models.BlueprintNode{ID: id, Label: id, SystemPrompt: prompt, Model: "fake"}
}

func linearEdge(id, source, target string) models.BlueprintEdge {
	return models.BlueprintEdge{ID: id, Source: source, Target: target, Type: models.EdgeLinear}
}

func conditionalEdge(id, source, target, condition string) models.BlueprintEdge {
	return models.BlueprintEdge{ID: id, Source: source, Target: target, Type: models.EdgeConditional, Condition: condition}
}

func registryWith(inv llm.Invoker) *llm.Registry {
	r := llm.NewRegistry()
	r.Register("fake", inv)
	return r
}
