package cohere

import (
	"context"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereClient "github.com/cohere-ai/cohere-go/v2/client"

	"github.com/bububa/pdf-agent/components"
	"github.com/bububa/pdf-agent/components/embedder"
)

type Embedder struct {
	*cohereClient.Client

	embedder.Options
}

var _ embedder.Embedder = (*Embedder)(nil)

func New(client *cohereClient.Client, opts ...embedder.Option) *Embedder {
	i := &Embedder{
		Client: client,
	}
	opts = append([]embedder.Option{embedder.WithProvider(embedder.ProviderCohere)}, opts...)
	for _, opt := range opts {
		opt(&i.Options)
	}
	return i
}

// Embed embeds text as a search query
func (p *Embedder) Embed(ctx context.Context, text string, embedding *embedder.Embedding, usage *components.LLMUsage) error {
	list, err := p.embed(ctx, []string{text}, cohere.EmbedInputTypeSearchQuery, usage)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return nil
	}
	*embedding = list[0]
	return nil
}

// BatchEmbed embeds parts as search documents
func (p *Embedder) BatchEmbed(ctx context.Context, parts []string, usage *components.LLMUsage) ([]embedder.Embedding, error) {
	return p.embed(ctx, parts, cohere.EmbedInputTypeSearchDocument, usage)
}

func (p *Embedder) embed(ctx context.Context, parts []string, inputType cohere.EmbedInputType, usage *components.LLMUsage) ([]embedder.Embedding, error) {
	model := p.Model()
	req := cohere.EmbedRequest{
		Texts:     parts,
		Model:     &model,
		InputType: inputType.Ptr(),
	}
	resp, err := p.Client.Embed(ctx, &req)
	if err != nil {
		return nil, err
	}
	respV := resp.GetEmbeddingsFloats()
	if respV == nil {
		return nil, nil
	}
	if usage != nil && respV.Meta != nil && respV.Meta.BilledUnits != nil {
		if v := respV.Meta.BilledUnits.InputTokens; v != nil {
			usage.InputTokens += int64(*v)
		}
	}
	ret := make([]embedder.Embedding, 0, len(respV.Embeddings))
	for idx, v := range respV.Embeddings {
		if idx >= len(parts) {
			break
		}
		ret = append(ret, embedder.Embedding{
			Object:    parts[idx],
			Embedding: v,
			Index:     idx,
		})
	}
	return ret, nil
}
