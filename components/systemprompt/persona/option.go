package persona

import "github.com/bububa/pdf-agent/components/systemprompt"

type Option = func(g *Generator)

// WithOutputInstructs adds output instructions
func WithOutputInstructs(outputInstructs ...string) Option {
	return func(g *Generator) {
		g.outputInstructs = append(g.outputInstructs, outputInstructs...)
	}
}

// WithContextProviders set Generator context providers
func WithContextProviders(providers ...systemprompt.ContextProvider) Option {
	return func(g *Generator) {
		g.AddContextProviders(providers...)
	}
}
