package council

import (
	"context"
	"fmt"

	"github.com/councilos/councilos/internal/llm"
	"github.com/councilos/councilos/internal/tools"
)

// invokeWithTools runs a step's model invocation, executing any tool calls
// the model requests and feeding their results back for a final answer.
//
// Tool failures never abort the loop: an unregistered tool name or a tool
// execution error becomes an inline error string standing in for that
// tool's result, visible to the model on its follow-up turn. The follow-up
// response is always treated as final; there is no deeper recursion.
func invokeWithTools(ctx context.Context, invoker llm.Invoker, messages []llm.Message, bound []tools.Tool) (*llm.Response, error) {
	if len(bound) == 0 {
		return invoker.Invoke(ctx, llm.Request{Messages: messages})
	}

	defs := make([]llm.ToolDefinition, 0, len(bound))
	byName := make(map[string]tools.Tool, len(bound))
	for _, t := range bound {
		defs = append(defs, tools.Definition(t))
		byName[t.Name()] = t
	}

	resp, err := invoker.Invoke(ctx, llm.Request{Messages: messages, Tools: defs})
	if err != nil {
		return nil, err
	}
	if len(resp.ToolCalls) == 0 {
		return resp, nil
	}

	followup := append(append([]llm.Message(nil), messages...), llm.Message{
		Role:      llm.RoleAssistant,
		Content:   resp.Content,
		ToolCalls: resp.ToolCalls,
	})
	for _, call := range resp.ToolCalls {
		followup = append(followup, llm.Message{
			Role:       llm.RoleTool,
			ToolCallID: call.ID,
			Content:    runTool(ctx, byName, call),
		})
	}

	return invoker.Invoke(ctx, llm.Request{Messages: followup, Tools: defs})
}

func runTool(ctx context.Context, byName map[string]tools.Tool, call llm.ToolCall) string {
	t, ok := byName[call.Name]
	if !ok {
		return fmt.Sprintf("[Tool Error] Unknown tool: %s", call.Name)
	}
	result, err := t.Invoke(ctx, call.Args)
	if err != nil {
		return fmt.Sprintf("[Tool Error] %v", err)
	}
	return result
}
