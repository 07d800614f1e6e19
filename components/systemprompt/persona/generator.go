package persona

import (
	"fmt"
	"strings"

	"github.com/bububa/pdf-agent/components/systemprompt"
)

// Generator renders an agent persona made of a role, a goal and a backstory
type Generator struct {
	systemprompt.BaseGenerator
	role            string
	goal            string
	backstory       string
	outputInstructs []string
}

var _ systemprompt.Generator = (*Generator)(nil)

// New returns a new persona Generator
func New(role, goal, backstory string, options ...Option) *Generator {
	ret := &Generator{
		role:      strings.TrimSpace(role),
		goal:      strings.TrimSpace(goal),
		backstory: strings.TrimSpace(backstory),
	}
	for _, opt := range options {
		opt(ret)
	}
	ret.outputInstructs = append(ret.outputInstructs, "- Use the available tools when they help, then give your final answer as plain text.")
	return ret
}

func (g *Generator) Role() string {
	return g.role
}

func (g *Generator) Generate() string {
	promptParts := []string{
		"# IDENTITY and PURPOSE",
		fmt.Sprintf("You are %s.", g.role),
		g.backstory,
		"",
		"# GOAL",
		g.goal,
		"",
		"# OUTPUT INSTRUCTIONS",
	}
	promptParts = append(promptParts, g.outputInstructs...)
	promptParts = append(promptParts, "")
	promptParts = append(promptParts, g.ContextSection()...)
	return strings.TrimSpace(strings.Join(promptParts, "\n"))
}
