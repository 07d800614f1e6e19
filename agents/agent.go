package agents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bububa/pdf-agent/components"
	"github.com/bububa/pdf-agent/components/llm"
	"github.com/bububa/pdf-agent/components/systemprompt"
	"github.com/bububa/pdf-agent/components/systemprompt/simple"
	"github.com/bububa/pdf-agent/pkg/logging"
	"github.com/bububa/pdf-agent/tools"
)

// DefaultMaxIter is the default number of tool calling rounds before the agent must answer
const DefaultMaxIter = 5

var (
	// ErrEmptyAnswer is returned when the model gives no final text
	ErrEmptyAnswer = errors.New("agent returned an empty answer")
	ErrNoClient    = errors.New("agent has no llm client")
)

const finalAnswerInstruction = "You have reached the maximum number of tool calls. Do not call any tool, give your best final answer now."

// Config represents general agents configuration
type Config struct {
	// client for interacting with the language model
	client llm.Client
	// memory stores the chat history of the current run
	memory *components.Memory
	// systemPromptGenerator generates the system prompt
	systemPromptGenerator systemprompt.Generator
	tools                 []tools.Tool
	// maxIter bounds the tool calling rounds
	maxIter int
	// model overrides the client model
	model string
	// name is Agent name presentation
	name string
}

// Agent answers a prompt with a language model, running the tools the model asks for
type Agent struct {
	Config
	startHook func(context.Context, *Agent, string)
	endHook   func(context.Context, *Agent, string, string, *components.LLMResponse)
	errorHook func(context.Context, *Agent, string, error)
}

// NewAgent initializes the Agent
func NewAgent(options ...Option) *Agent {
	ret := new(Agent)
	for _, opt := range options {
		opt(&ret.Config)
	}
	if ret.memory == nil {
		ret.memory = components.NewMemory(0)
	}
	if ret.systemPromptGenerator == nil {
		ret.systemPromptGenerator = simple.New("You are a helpful assistant.")
	}
	if ret.maxIter <= 0 {
		ret.maxIter = DefaultMaxIter
	}
	return ret
}

// ResetMemory clears the chat history
func (a *Agent) ResetMemory() {
	a.memory.Reset()
}

func (a *Agent) Name() string {
	return a.name
}

func (a *Agent) Memory() *components.Memory {
	return a.memory
}

func (a *Agent) Tools() []tools.Tool {
	return a.tools
}

func (a *Agent) MaxIter() int {
	return a.maxIter
}

func (a *Agent) SetStartHook(fn func(context.Context, *Agent, string)) {
	a.startHook = fn
}

func (a *Agent) SetEndHook(fn func(context.Context, *Agent, string, string, *components.LLMResponse)) {
	a.endHook = fn
}

func (a *Agent) SetErrorHook(fn func(context.Context, *Agent, string, error)) {
	a.errorHook = fn
}

// Run sends input to the model and returns its final answer. Tool calls are executed
// and fed back until the model answers with text or maxIter rounds are used.
// apiResp, when not nil, receives the last response with the usage of every round.
func (a *Agent) Run(ctx context.Context, input string, apiResp *components.LLMResponse) (string, error) {
	if fn := a.startHook; fn != nil {
		fn(ctx, a, input)
	}
	answer, err := a.run(ctx, input, apiResp)
	if err != nil {
		if fn := a.errorHook; fn != nil {
			fn(ctx, a, input, err)
		}
		return "", err
	}
	if fn := a.endHook; fn != nil {
		fn(ctx, a, input, answer, apiResp)
	}
	return answer, nil
}

func (a *Agent) run(ctx context.Context, input string, apiResp *components.LLMResponse) (string, error) {
	if a.client == nil {
		return "", ErrNoClient
	}
	logger := logging.FromContext(ctx).With(slog.String("agent", a.name))
	a.memory.NewTurn()
	a.memory.NewMessage(components.UserRole, input)
	usage := new(components.LLMUsage)
	definitions := a.toolDefinitions()
	for iter := 0; ; iter++ {
		final := iter >= a.maxIter || len(definitions) == 0
		system := a.systemPromptGenerator.Generate()
		if final && len(definitions) > 0 {
			system += "\n\n" + finalAnswerInstruction
		}
		req := &llm.Request{
			Model:        a.model,
			System:       system,
			Messages:     a.memory.History(),
			Tools:        definitions,
			DisableTools: final,
		}
		resp := new(components.LLMResponse)
		msg, err := a.client.Chat(ctx, req, resp)
		usage.Merge(resp.Usage)
		if apiResp != nil {
			total := *usage
			*apiResp = *resp
			apiResp.Usage = &total
		}
		if err != nil {
			return "", fmt.Errorf("llm request failed: %w", err)
		}
		calls := msg.ToolCalls()
		if final || len(calls) == 0 {
			answer := strings.TrimSpace(msg.Content())
			if answer == "" {
				return "", ErrEmptyAnswer
			}
			a.memory.NewMessage(components.AssistantRole, answer)
			return answer, nil
		}
		a.memory.Append(msg)
		callbacks := make([]components.ToolCallback, 0, len(calls))
		for _, call := range calls {
			logger.DebugContext(ctx, "tool call", slog.String("tool", call.Name), slog.Int("iter", iter))
			callbacks = append(callbacks, a.callTool(ctx, call))
		}
		a.memory.Append(components.NewToolMessage(callbacks...))
	}
}

func (a *Agent) callTool(ctx context.Context, call components.ToolCall) components.ToolCallback {
	ret := components.ToolCallback{
		ID:   call.ID,
		Name: call.Name,
	}
	var tool tools.Tool
	for _, t := range a.tools {
		if t.Name() == call.Name {
			tool = t
			break
		}
	}
	if tool == nil {
		ret.Content = fmt.Sprintf("unknown tool %q", call.Name)
		ret.IsError = true
		return ret
	}
	out, err := tool.Call(ctx, call.Arguments)
	if err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "tool failed", slog.String("tool", call.Name), slog.Any("error", err))
		ret.Content = err.Error()
		ret.IsError = true
		return ret
	}
	ret.Content = out
	return ret
}

func (a *Agent) toolDefinitions() []llm.ToolDefinition {
	if len(a.tools) == 0 {
		return nil
	}
	ret := make([]llm.ToolDefinition, 0, len(a.tools))
	for _, t := range a.tools {
		ret = append(ret, llm.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return ret
}

// SystemPromptContextProvider returns agent systemPromptGenerator's context provider
func (a *Agent) SystemPromptContextProvider(title string) (systemprompt.ContextProvider, error) {
	return a.systemPromptGenerator.ContextProvider(title)
}

// RegisterSystemPromptContextProvider registers a new context provider
func (a *Agent) RegisterSystemPromptContextProvider(provider systemprompt.ContextProvider) {
	a.systemPromptGenerator.AddContextProviders(provider)
}

// UnregisterSystemPromptContextProvider Unregisters an existing context provider.
func (a *Agent) UnregisterSystemPromptContextProvider(title string) {
	a.systemPromptGenerator.RemoveContextProviders(title)
}

// SystemPrompt returns the system prompt
func (a *Agent) SystemPrompt() string {
	return a.systemPromptGenerator.Generate()
}
