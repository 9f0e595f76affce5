package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("llm")

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 4096
)

// ChatModel is an Invoker backed by an OpenAI-compatible chat-completions
// endpoint.
type ChatModel struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int64
	tracer      trace.Tracer
}

// Option configures a ChatModel.
type Option func(*chatOptions)

type chatOptions struct {
	apiKey      string
	baseURL     string
	temperature float64
	maxTokens   int64
}

// WithAPIKey sets the API key sent to the endpoint.
func WithAPIKey(key string) Option {
	return func(o *chatOptions) { o.apiKey = key }
}

// WithBaseURL overrides the endpoint base URL.
func WithBaseURL(url string) Option {
	return func(o *chatOptions) { o.baseURL = url }
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float64) Option {
	return func(o *chatOptions) { o.temperature = t }
}

// WithMaxTokens overrides the completion token limit.
func WithMaxTokens(n int64) Option {
	return func(o *chatOptions) { o.maxTokens = n }
}

// NewChatModel builds an invoker for one concrete upstream model name.
func NewChatModel(model string, opts ...Option) *ChatModel {
	o := &chatOptions{
		temperature: defaultTemperature,
		maxTokens:   defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(o)
	}

	var clientOpts []openaiopt.RequestOption
	if o.apiKey != "" {
		clientOpts = append(clientOpts, openaiopt.WithAPIKey(o.apiKey))
	}
	if o.baseURL != "" {
		clientOpts = append(clientOpts, openaiopt.WithBaseURL(o.baseURL))
	}

	return &ChatModel{
		client:      openai.NewClient(clientOpts...),
		model:       model,
		temperature: o.temperature,
		maxTokens:   o.maxTokens,
		tracer:      tracer,
	}
}

// Invoke implements Invoker.
func (m *ChatModel) Invoke(ctx context.Context, req Request) (*Response, error) {
	ctx, span := m.tracer.Start(ctx, "llm.invoke")
	defer span.End()

	span.SetAttributes(
		attribute.String("llm.model", m.model),
		attribute.Int("llm.messages", len(req.Messages)),
		attribute.Int("llm.tools", len(req.Tools)),
	)

	params := openai.ChatCompletionNewParams{
		Model:               shared.ChatModel(m.model),
		Messages:            convertMessages(req.Messages),
		Temperature:         openai.Float(m.temperature),
		MaxCompletionTokens: openai.Int(m.maxTokens),
	}
	if len(req.Tools) > 0 {
		params.Tools = convertTools(req.Tools)
	}

	completion, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("chat completion failed for %s: %w", m.model, err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("chat completion for %s returned no choices", m.model)
	}

	choice := completion.Choices[0]
	resp := &Response{Content: choice.Message.Content}
	for i, tc := range choice.Message.ToolCalls {
		id := tc.ID
		if id == "" {
			id = fmt.Sprintf("call_%d", i)
		}
		args := map[string]any{}
		if tc.Function.Arguments != "" {
			// Malformed arguments are passed through as an empty map; the
			// tool sub-loop reports the failure inline to the model.
			_ = json.Unmarshal([]byte(tc.Function.Arguments), &args)
		}
		resp.ToolCalls = append(resp.ToolCalls, ToolCall{
			ID:   id,
			Name: tc.Function.Name,
			Args: args,
		})
	}

	span.SetAttributes(attribute.Int("llm.tool_calls", len(resp.ToolCalls)))
	return resp, nil
}

func convertMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			result = append(result, openai.ChatCompletionMessageParamUnion{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
				},
			})
		case RoleAssistant:
			assistant := &openai.ChatCompletionAssistantMessageParam{
				Content: openai.ChatCompletionAssistantMessageParamContentUnion{
					OfString: openai.String(msg.Content),
				},
			}
			for _, tc := range msg.ToolCalls {
				argsJSON, _ := json.Marshal(tc.Args)
				assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallParam{
					ID: tc.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Name,
						Arguments: string(argsJSON),
					},
				})
			}
			result = append(result, openai.ChatCompletionMessageParamUnion{OfAssistant: assistant})
		case RoleTool:
			result = append(result, openai.ChatCompletionMessageParamUnion{
				OfTool: &openai.ChatCompletionToolMessageParam{
					Content: openai.ChatCompletionToolMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
					ToolCallID: msg.ToolCallID,
				},
			})
		default:
			result = append(result, openai.ChatCompletionMessageParamUnion{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
				},
			})
		}
	}
	return result
}

func convertTools(tools []ToolDefinition) []openai.ChatCompletionToolParam {
	result := make([]openai.ChatCompletionToolParam, 0, len(tools))
	for _, t := range tools {
		result = append(result, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  shared.FunctionParameters(t.Parameters),
			},
		})
	}
	return result
}
