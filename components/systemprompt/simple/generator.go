package simple

import (
	"strings"

	"github.com/bububa/pdf-agent/components/systemprompt"
)

// Generator renders a fixed instruction followed by the context providers
type Generator struct {
	systemprompt.BaseGenerator
	content string
}

var _ systemprompt.Generator = (*Generator)(nil)

// New returns a new system prompt Generator
func New(content string, options ...Option) *Generator {
	ret := &Generator{content: content}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

func (g *Generator) Generate() string {
	promptParts := []string{g.content, ""}
	promptParts = append(promptParts, g.ContextSection()...)
	return strings.TrimSpace(strings.Join(promptParts, "\n"))
}
