package council

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/councilos/councilos/internal/logging"
)

var tracer = otel.Tracer("council-executor")

// Executor drives the traversal of a compiled graph. Each run is strictly
// sequential: one step executes at a time and the state is mutated only
// between steps. Termination relies on the evaluator's safety valve routing
// toward a terminal node; a blueprint whose "approve" condition leads back
// into the loop can still run forever, which is an authoring hazard the
// engine does not guard against.
type Executor struct {
	graph    *Graph
	listener EventListener
	sessions *SessionManager
	tracer   trace.Tracer
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithListener sets the lifecycle event listener.
func WithListener(l EventListener) ExecutorOption {
	return func(x *Executor) { x.listener = l }
}

// WithCheckpoints enables supervised mode: the executor suspends at the
// pre-step boundary of every node and waits for a decision through the
// session manager.
func WithCheckpoints(sm *SessionManager) ExecutorOption {
	return func(x *Executor) { x.sessions = sm }
}

// NewExecutor builds an executor for one compiled graph.
func NewExecutor(graph *Graph, opts ...ExecutorOption) *Executor {
	x := &Executor{
		graph:    graph,
		listener: NopListener{},
		tracer:   tracer,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Run traverses the graph from its entry node, mutating the given state,
// until a terminal node is passed or the traversal fails. The returned
// state is the same pointer, final at return.
func (x *Executor) Run(ctx context.Context, state *State) (*State, error) {
	ctx, span := x.tracer.Start(ctx, "council.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("run.id", state.RunID),
		attribute.String("graph.name", x.graph.Name),
	)

	if x.sessions != nil {
		defer x.sessions.remove(state.RunID)
	}

	current := x.graph.Entry()
	for current != EndMarker {
		if x.sessions != nil {
			if err := x.sessions.checkpoint(ctx, state, current, x.listener); err != nil {
				span.RecordError(err)
				x.listener.RunFailed(state.RunID, err)
				return state, err
			}
		}

		update, err := x.executeStep(ctx, current, state)
		if err != nil {
			span.RecordError(err)
			x.listener.RunFailed(state.RunID, err)
			return state, err
		}
		state.Apply(update)
		x.listener.NodeActive(state.RunID, current, state.IterationCount)

		current = routeNext(state.RoutingSignal, x.graph.topology.EdgesBySource[current])
		// The routing signal is transient: consumed by the router, cleared
		// before the next step runs.
		state.RoutingSignal = ""
	}

	span.SetAttributes(attribute.Int("run.iterations", state.IterationCount))
	x.listener.RunCompleted(state.RunID, state)
	return state, nil
}

func (x *Executor) executeStep(ctx context.Context, nodeID string, state *State) (Update, error) {
	step, ok := x.graph.steps[nodeID]
	if !ok {
		return Update{}, fmt.Errorf("no compiled step for node %q", nodeID)
	}

	ctx, span := x.tracer.Start(ctx, "council.step")
	defer span.End()
	span.SetAttributes(
		attribute.String("run.id", state.RunID),
		attribute.String("node.id", nodeID),
		attribute.Int("run.iteration", state.IterationCount),
	)

	logging.L.Debugw("executing node", "run_id", state.RunID, "node", nodeID)
	return step.Execute(ctx, state)
}
