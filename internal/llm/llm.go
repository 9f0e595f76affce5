// Package llm resolves blueprint model choices to chat-completion backends
// and defines the invocation contract the engine consumes.
package llm

import (
	"context"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// Message is one entry in a model conversation.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

// ToolDefinition describes a callable tool to the model. Parameters is a
// JSON schema object.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Request is a single chat-completion invocation.
type Request struct {
	Messages []Message
	Tools    []ToolDefinition
}

// Response is the model's reply. ToolCalls is non-empty when the model
// requests tool executions instead of (or alongside) a final answer.
type Response struct {
	Content   string
	ToolCalls []ToolCall
}

// Invoker is a chat-completion backend bound to one concrete model.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (*Response, error)
}
