package agents

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bububa/pdf-agent/components"
	"github.com/bububa/pdf-agent/components/llm"
	"github.com/bububa/pdf-agent/components/systemprompt"
	"github.com/bububa/pdf-agent/tools"
)

type scriptedClient struct {
	replies  []*components.Message
	requests []llm.Request
}

func (c *scriptedClient) Chat(_ context.Context, req *llm.Request, resp *components.LLMResponse) (*components.Message, error) {
	c.requests = append(c.requests, *req)
	resp.Usage = &components.LLMUsage{InputTokens: 10, OutputTokens: 2}
	if len(c.replies) == 0 {
		return nil, llm.ErrEmptyResponse
	}
	msg := c.replies[0]
	c.replies = c.replies[1:]
	return msg, nil
}

func toolCallMessage(name, args string) *components.Message {
	return components.NewMessage(components.AssistantRole, "").SetToolCalls(components.ToolCall{
		ID:        "call_" + name,
		Name:      name,
		Arguments: args,
	})
}

type upperInput struct {
	Text string `json:"text" validate:"required"`
}

func newUpperTool() tools.Tool {
	return tools.NewFunction(func(_ context.Context, in *upperInput) (string, error) {
		return strings.ToUpper(in.Text), nil
	}, tools.WithTitle("upper"), tools.WithDescription("upper cases text"))
}

func TestRunPlainAnswer(t *testing.T) {
	clt := &scriptedClient{replies: []*components.Message{
		components.NewMessage(components.AssistantRole, "  forty two \n"),
	}}
	agent := NewAgent(WithClient(clt), WithName("tester"))
	resp := new(components.LLMResponse)
	answer, err := agent.Run(context.Background(), "question", resp)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if answer != "forty two" {
		t.Errorf("answer = %q", answer)
	}
	if resp.Usage == nil || resp.Usage.InputTokens != 10 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if n := agent.Memory().MessageCount(); n != 2 {
		t.Errorf("memory holds %d messages, want 2", n)
	}
	if !clt.requests[0].DisableTools {
		t.Error("a request without tools should disable tools")
	}
}

func TestRunToolLoop(t *testing.T) {
	clt := &scriptedClient{replies: []*components.Message{
		toolCallMessage("upper", `{"text":"abc"}`),
		components.NewMessage(components.AssistantRole, "ABC"),
	}}
	agent := NewAgent(WithClient(clt), WithTools(newUpperTool()))
	resp := new(components.LLMResponse)
	answer, err := agent.Run(context.Background(), "upper case abc", resp)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if answer != "ABC" {
		t.Errorf("answer = %q", answer)
	}
	if len(clt.requests) != 2 {
		t.Fatalf("requests = %d, want 2", len(clt.requests))
	}
	if got := len(clt.requests[0].Tools); got != 1 {
		t.Errorf("tool definitions = %d", got)
	}
	history := clt.requests[1].Messages
	last := history[len(history)-1]
	if last.Role() != components.ToolRole {
		t.Fatalf("last message role = %s", last.Role())
	}
	cb := last.ToolCallbacks()
	if len(cb) != 1 || cb[0].Content != "ABC" || cb[0].IsError {
		t.Errorf("callbacks = %+v", cb)
	}
	if resp.Usage.InputTokens != 20 || resp.Usage.OutputTokens != 4 {
		t.Errorf("usage = %+v", resp.Usage)
	}
}

func TestRunToolErrorsAreFedBack(t *testing.T) {
	clt := &scriptedClient{replies: []*components.Message{
		toolCallMessage("missing", `{}`),
		toolCallMessage("upper", `{}`),
		components.NewMessage(components.AssistantRole, "done"),
	}}
	agent := NewAgent(WithClient(clt), WithTools(newUpperTool()))
	if _, err := agent.Run(context.Background(), "go", nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, req := range clt.requests[1:] {
		msgs := req.Messages
		cb := msgs[len(msgs)-1].ToolCallbacks()
		if len(cb) != 1 || !cb[0].IsError {
			t.Errorf("request %d: callbacks = %+v", i+1, cb)
		}
	}
}

func TestRunMaxIter(t *testing.T) {
	clt := &scriptedClient{replies: []*components.Message{
		toolCallMessage("upper", `{"text":"a"}`),
		toolCallMessage("upper", `{"text":"b"}`),
		components.NewMessage(components.AssistantRole, "final").SetToolCalls(components.ToolCall{ID: "x", Name: "upper"}),
	}}
	agent := NewAgent(WithClient(clt), WithTools(newUpperTool()), WithMaxIter(2))
	answer, err := agent.Run(context.Background(), "loop", nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if answer != "final" {
		t.Errorf("answer = %q", answer)
	}
	if len(clt.requests) != 3 {
		t.Fatalf("requests = %d, want 3", len(clt.requests))
	}
	last := clt.requests[2]
	if !last.DisableTools {
		t.Error("last request should disable tools")
	}
	if !strings.Contains(last.System, finalAnswerInstruction) {
		t.Error("last system prompt should ask for a final answer")
	}
}

func TestRunEmptyAnswer(t *testing.T) {
	clt := &scriptedClient{replies: []*components.Message{
		components.NewMessage(components.AssistantRole, "   "),
	}}
	var hooked error
	agent := NewAgent(WithClient(clt))
	agent.SetErrorHook(func(_ context.Context, _ *Agent, _ string, err error) {
		hooked = err
	})
	if _, err := agent.Run(context.Background(), "hi", nil); !errors.Is(err, ErrEmptyAnswer) {
		t.Fatalf("err = %v, want ErrEmptyAnswer", err)
	}
	if !errors.Is(hooked, ErrEmptyAnswer) {
		t.Errorf("error hook got %v", hooked)
	}
}

func TestRunNoClient(t *testing.T) {
	if _, err := NewAgent().Run(context.Background(), "hi", nil); !errors.Is(err, ErrNoClient) {
		t.Errorf("err = %v, want ErrNoClient", err)
	}
}

func TestContextProviders(t *testing.T) {
	agent := NewAgent()
	agent.RegisterSystemPromptContextProvider(systemprompt.NewStaticProvider("Feedback", "be brief"))
	if !strings.Contains(agent.SystemPrompt(), "be brief") {
		t.Errorf("system prompt misses context: %q", agent.SystemPrompt())
	}
	if _, err := agent.SystemPromptContextProvider("Feedback"); err != nil {
		t.Errorf("provider lookup: %v", err)
	}
	agent.UnregisterSystemPromptContextProvider("Feedback")
	if strings.Contains(agent.SystemPrompt(), "be brief") {
		t.Error("provider should be removed")
	}
}
