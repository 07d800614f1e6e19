package components

import (
	"encoding/json"
	"testing"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/sashabaranov/go-openai"
)

func TestMessageToOpenAI(t *testing.T) {
	msg := NewMessage(AssistantRole, "").SetToolCalls(ToolCall{ID: "call_1", Name: "query", Arguments: `{"query":"x"}`})
	list := msg.ToOpenAI()
	if len(list) != 1 {
		t.Fatalf("expected 1 message, got %d", len(list))
	}
	if list[0].Role != openai.ChatMessageRoleAssistant || len(list[0].ToolCalls) != 1 {
		t.Fatalf("unexpected message %+v", list[0])
	}
	if call := list[0].ToolCalls[0]; call.ID != "call_1" || call.Function.Name != "query" || call.Type != openai.ToolTypeFunction {
		t.Errorf("unexpected tool call %+v", call)
	}

	tool := NewToolMessage(
		ToolCallback{ID: "call_1", Name: "query", Content: "a"},
		ToolCallback{ID: "call_2", Name: "query", Content: "b"},
	)
	list = tool.ToOpenAI()
	if len(list) != 2 {
		t.Fatalf("expected 2 tool messages, got %d", len(list))
	}
	if list[1].Role != openai.ChatMessageRoleTool || list[1].ToolCallID != "call_2" || list[1].Content != "b" {
		t.Errorf("unexpected tool message %+v", list[1])
	}
}

func TestMessageToAnthropic(t *testing.T) {
	var dist anthropic.Message
	NewMessage(AssistantRole, "thinking").SetToolCalls(ToolCall{ID: "tu_1", Name: "query"}).ToAnthropic(&dist)
	if dist.Role != anthropic.RoleAssistant || len(dist.Content) != 2 {
		t.Fatalf("unexpected message %+v", dist)
	}
	if dist.Content[0].GetText() != "thinking" {
		t.Errorf("text = %q", dist.Content[0].GetText())
	}
	use := dist.Content[1].MessageContentToolUse
	if use == nil || use.ID != "tu_1" || string(use.Input) != "{}" {
		t.Errorf("unexpected tool use %+v", use)
	}

	NewToolMessage(ToolCallback{ID: "tu_1", Content: "result", IsError: true}).ToAnthropic(&dist)
	if dist.Role != anthropic.RoleUser || len(dist.Content) != 1 || dist.Content[0].Type != anthropic.MessagesContentTypeToolResult {
		t.Errorf("unexpected tool result %+v", dist)
	}
	if _, err := json.Marshal(dist); err != nil {
		t.Errorf("marshal: %v", err)
	}
}

func TestLLMUsageMerge(t *testing.T) {
	usage := &LLMUsage{InputTokens: 1, OutputTokens: 2}
	usage.Merge(&LLMUsage{InputTokens: 3, OutputTokens: 4})
	usage.Merge(nil)
	if usage.InputTokens != 4 || usage.OutputTokens != 6 {
		t.Errorf("unexpected usage %+v", usage)
	}
}
