// Package tools implements the tool capabilities blueprint nodes may bind:
// web search and search over ingested PDF documents. Tool failures are
// reported as inline error strings so the model can react to them; they are
// never propagated as errors across the engine boundary.
package tools

import (
	"context"

	"github.com/councilos/councilos/internal/llm"
	"github.com/councilos/councilos/internal/models"
)

// Tool is a capability an agent node can call during the tool sub-loop.
type Tool interface {
	Name() string
	Description() string
	// Schema returns the JSON schema of the tool's arguments object.
	Schema() map[string]any
	Invoke(ctx context.Context, args map[string]any) (string, error)
}

// Definition converts a tool into the shape the model invoker advertises.
func Definition(t Tool) llm.ToolDefinition {
	return llm.ToolDefinition{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters:  t.Schema(),
	}
}

// Resolver maps blueprint tool flags to bound tool instances.
type Resolver struct {
	webSearch Tool
	docSearch Tool
}

// NewResolver builds a resolver over the process-wide tool instances.
// Either tool may be nil when its backend is not configured.
func NewResolver(webSearch, docSearch Tool) *Resolver {
	return &Resolver{webSearch: webSearch, docSearch: docSearch}
}

// Resolve returns the tools enabled by a node's blueprint flags.
func (r *Resolver) Resolve(enabled models.AgentTools) []Tool {
	var resolved []Tool
	if enabled.WebSearch && r.webSearch != nil {
		resolved = append(resolved, r.webSearch)
	}
	if enabled.PDFReader && r.docSearch != nil {
		resolved = append(resolved, r.docSearch)
	}
	return resolved
}
