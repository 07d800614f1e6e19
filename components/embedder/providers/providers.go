package providers

import (
	"github.com/bububa/pdf-agent/components/embedder/providers/cohere"
	"github.com/bububa/pdf-agent/components/embedder/providers/openai"
)

var (
	FromOpenAI = openai.New
	FromCohere = cohere.New
)
