package llm

import (
	"context"
	"strings"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/bububa/pdf-agent/components"
)

// Anthropic is a chat client for the Anthropic messages API
type Anthropic struct {
	clt *anthropic.Client
	Config
}

var _ Client = (*Anthropic)(nil)

func NewAnthropic(clt *anthropic.Client, opts ...Option) *Anthropic {
	return &Anthropic{
		clt:    clt,
		Config: newConfig(opts),
	}
}

func (a *Anthropic) Chat(ctx context.Context, req *Request, resp *components.LLMResponse) (*components.Message, error) {
	temperature := a.temperature
	chatReq := anthropic.MessagesRequest{
		Model:       anthropic.Model(a.modelFor(req)),
		System:      req.System,
		MaxTokens:   a.maxTokens,
		Temperature: &temperature,
		Messages:    make([]anthropic.Message, 0, len(req.Messages)),
	}
	for _, msg := range req.Messages {
		v := new(anthropic.Message)
		msg.ToAnthropic(v)
		chatReq.Messages = append(chatReq.Messages, *v)
	}
	for _, tool := range req.Tools {
		chatReq.Tools = append(chatReq.Tools, anthropic.ToolDefinition{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.Parameters,
		})
	}
	if req.DisableTools && len(chatReq.Tools) > 0 {
		chatReq.ToolChoice = &anthropic.ToolChoice{Type: "none"}
	}
	res, err := a.clt.CreateMessages(ctx, chatReq)
	if err != nil {
		return nil, err
	}
	if resp != nil {
		resp.FromAnthropic(&res)
	}
	if len(res.Content) == 0 {
		return nil, ErrEmptyResponse
	}
	var (
		texts []string
		calls []components.ToolCall
	)
	for _, content := range res.Content {
		switch content.Type {
		case anthropic.MessagesContentTypeText:
			texts = append(texts, content.GetText())
		case anthropic.MessagesContentTypeToolUse:
			if use := content.MessageContentToolUse; use != nil {
				calls = append(calls, components.ToolCall{
					ID:        use.ID,
					Name:      use.Name,
					Arguments: string(use.Input),
				})
			}
		}
	}
	msg := components.NewMessage(components.AssistantRole, strings.Join(texts, "\n"))
	if len(calls) > 0 {
		msg.SetToolCalls(calls...)
	}
	return msg, nil
}
