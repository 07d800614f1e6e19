package agents

import (
	"github.com/bububa/pdf-agent/components"
	"github.com/bububa/pdf-agent/components/llm"
	"github.com/bububa/pdf-agent/components/systemprompt"
	"github.com/bububa/pdf-agent/tools"
)

type Option func(a *Config)

func WithClient(clt llm.Client) Option {
	return func(c *Config) {
		c.client = clt
	}
}

func WithMemory(m *components.Memory) Option {
	return func(c *Config) {
		c.memory = m
	}
}

func WithSystemPromptGenerator(g systemprompt.Generator) Option {
	return func(c *Config) {
		c.systemPromptGenerator = g
	}
}

func WithTools(list ...tools.Tool) Option {
	return func(c *Config) {
		c.tools = append(c.tools, list...)
	}
}

func WithMaxIter(n int) Option {
	return func(c *Config) {
		c.maxIter = n
	}
}

func WithModel(model string) Option {
	return func(c *Config) {
		c.model = model
	}
}

func WithName(name string) Option {
	return func(c *Config) {
		c.name = name
	}
}
