package embedder

import (
	"context"
	"fmt"

	"github.com/bububa/pdf-agent/components"
)

// BatchSize is the largest number of texts sent in one embedding request
const BatchSize = 96

type Embedder interface {
	Provider() Provider
	Model() string
	// Embed embeds a search query
	Embed(context.Context, string, *Embedding, *components.LLMUsage) error
	// BatchEmbed embeds documents, results carry the index of their part
	BatchEmbed(ctx context.Context, parts []string, usage *components.LLMUsage) ([]Embedding, error)
}

// EmbedChunks embeds chunks in batches of BatchSize and returns the embeddings in chunk order.
// meta is copied onto every embedding.
func EmbedChunks(ctx context.Context, e Embedder, chunks []string, meta map[string]string, usage *components.LLMUsage) ([]Embedding, error) {
	ret := make([]Embedding, len(chunks))
	for offset := 0; offset < len(chunks); offset += BatchSize {
		end := min(offset+BatchSize, len(chunks))
		var batchUsage components.LLMUsage
		list, err := e.BatchEmbed(ctx, chunks[offset:end], &batchUsage)
		if err != nil {
			return nil, err
		}
		if usage != nil {
			usage.Merge(&batchUsage)
		}
		if len(list) != end-offset {
			return nil, fmt.Errorf("embedder returned %d embeddings for %d chunks", len(list), end-offset)
		}
		for _, v := range list {
			if v.Index < 0 || v.Index >= end-offset {
				return nil, fmt.Errorf("embedding index %d out of range", v.Index)
			}
			v.Index += offset
			v.Meta = copyMeta(meta)
			ret[v.Index] = v
		}
	}
	return ret, nil
}

func copyMeta(meta map[string]string) map[string]string {
	if meta == nil {
		return nil
	}
	ret := make(map[string]string, len(meta))
	for k, v := range meta {
		ret[k] = v
	}
	return ret
}
