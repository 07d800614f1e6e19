package components

import (
	anthropic "github.com/liushuangls/go-anthropic/v2"
	"github.com/rs/xid"
	openai "github.com/sashabaranov/go-openai"
)

// NewTurnID returns a new turn ID.
func NewTurnID() string {
	return xid.New().String()
}

// MessageRole is the role of the message sender (e.g., 'user', 'system', 'tool')
type MessageRole = string

const (
	SystemRole    MessageRole = "system"
	UserRole      MessageRole = "user"
	AssistantRole MessageRole = "assistant"
	ToolRole      MessageRole = "tool"
)

// Message Represents a message in the chat history.
type Message struct {
	// role is the role of the message sender (e.g., 'user', 'system', 'tool')
	role    MessageRole
	content string
	// toolCalls are the tool invocations requested by an assistant message
	toolCalls []ToolCall
	// toolCallbacks are the results of tool invocations, carried by a tool message
	toolCallbacks []ToolCallback
	// turnID is Unique identifier for the turn this message belongs to.
	turnID string
}

// NewMessage returns a new Message
func NewMessage(role MessageRole, content string) *Message {
	return &Message{
		role:    role,
		content: content,
	}
}

// NewToolMessage returns a tool message carrying tool results
func NewToolMessage(callbacks ...ToolCallback) *Message {
	return &Message{
		role:          ToolRole,
		toolCallbacks: callbacks,
	}
}

// SetTurnID set message turnID
func (m *Message) SetTurnID(turnID string) *Message {
	m.turnID = turnID
	return m
}

// SetToolCalls set the tool calls requested by the assistant
func (m *Message) SetToolCalls(calls ...ToolCall) *Message {
	m.toolCalls = calls
	return m
}

// Role returns message role
func (m Message) Role() MessageRole {
	return m.role
}

// Content returns message content
func (m Message) Content() string {
	return m.content
}

func (m Message) ToolCalls() []ToolCall {
	return m.toolCalls
}

func (m Message) ToolCallbacks() []ToolCallback {
	return m.toolCallbacks
}

// TurnID returns message turnID
func (m Message) TurnID() string {
	return m.turnID
}

// ToOpenAI convert message to openai ChatCompletionMessages, a tool message expands to one message per result
func (m Message) ToOpenAI() []openai.ChatCompletionMessage {
	if m.role == ToolRole {
		return ToolCallbacksToOpenAI(m.toolCallbacks)
	}
	msg := openai.ChatCompletionMessage{
		Role:    m.role,
		Content: m.content,
	}
	if len(m.toolCalls) > 0 {
		msg.ToolCalls = ToolCallsToOpenAI(m.toolCalls)
	}
	return []openai.ChatCompletionMessage{msg}
}

// ToAnthropic convert message to anthropic Message
func (m Message) ToAnthropic(dist *anthropic.Message) {
	if m.role == ToolRole {
		ToolCallbacksToAnthropic(m.toolCallbacks, dist)
		return
	}
	if m.role == AssistantRole {
		dist.Role = anthropic.RoleAssistant
	} else {
		dist.Role = anthropic.RoleUser
	}
	dist.Content = make([]anthropic.MessageContent, 0, len(m.toolCalls)+1)
	if m.content != "" {
		dist.Content = append(dist.Content, anthropic.NewTextMessageContent(m.content))
	}
	dist.Content = append(dist.Content, ToolCallsToAnthropic(m.toolCalls)...)
}
