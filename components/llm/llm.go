package llm

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/bububa/pdf-agent/components"
)

// ErrEmptyResponse is returned when the provider answers with no choice
var ErrEmptyResponse = errors.New("llm returned an empty response")

// ToolDefinition describes a function the model may call. Parameters is a JSON schema object.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters"`
}

// Request is a single chat completion request
type Request struct {
	// Model overrides the client model when not empty
	Model    string
	System   string
	Messages []components.Message
	Tools    []ToolDefinition

	// DisableTools asks the model to answer without calling tools
	DisableTools bool
}

// Client sends a chat request and returns the assistant message.
// resp, when not nil, receives provider metadata and token usage.
type Client interface {
	Chat(ctx context.Context, req *Request, resp *components.LLMResponse) (*components.Message, error)
}

// Config represents common chat client configuration
type Config struct {
	model       string
	temperature float32
	maxTokens   int
}

type Option func(*Config)

func WithModel(model string) Option {
	return func(c *Config) {
		c.model = model
	}
}

func WithTemperature(temperature float32) Option {
	return func(c *Config) {
		c.temperature = temperature
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(c *Config) {
		c.maxTokens = maxTokens
	}
}

func (c Config) Model() string {
	return c.model
}

func (c Config) modelFor(req *Request) string {
	if req.Model != "" {
		return req.Model
	}
	return c.model
}

func newConfig(opts []Option) Config {
	cfg := Config{maxTokens: 4096}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
