package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/bububa/pdf-agent/components"
)

// OpenAI is a chat client for OpenAI compatible APIs
type OpenAI struct {
	clt *openai.Client
	Config
}

var _ Client = (*OpenAI)(nil)

func NewOpenAI(clt *openai.Client, opts ...Option) *OpenAI {
	return &OpenAI{
		clt:    clt,
		Config: newConfig(opts),
	}
}

func (o *OpenAI) Chat(ctx context.Context, req *Request, resp *components.LLMResponse) (*components.Message, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:               o.modelFor(req),
		Temperature:         o.temperature,
		MaxCompletionTokens: o.maxTokens,
		Messages:            make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1),
	}
	if req.System != "" {
		chatReq.Messages = append(chatReq.Messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, msg := range req.Messages {
		chatReq.Messages = append(chatReq.Messages, msg.ToOpenAI()...)
	}
	for _, tool := range req.Tools {
		chatReq.Tools = append(chatReq.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}
	if req.DisableTools && len(chatReq.Tools) > 0 {
		chatReq.ToolChoice = "none"
	}
	res, err := o.clt.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, err
	}
	if resp != nil {
		resp.FromOpenAI(&res)
	}
	if len(res.Choices) == 0 {
		return nil, ErrEmptyResponse
	}
	choice := res.Choices[0].Message
	msg := components.NewMessage(components.AssistantRole, choice.Content)
	if len(choice.ToolCalls) > 0 {
		msg.SetToolCalls(components.ToolCallsFromOpenAI(choice.ToolCalls)...)
	}
	return msg, nil
}
