package vectordb

import "github.com/bububa/pdf-agent/components/embedder"

type SearchOptions struct {
	Collection string
	TopK       int
	Include    string
	Exclude    string
}

type SearchOption func(*SearchOptions)

func SearchWithCollection(name string) SearchOption {
	return func(r *SearchOptions) {
		r.Collection = name
	}
}

func SearchWithTopK(topK int) SearchOption {
	return func(r *SearchOptions) {
		r.TopK = topK
	}
}

// SearchWithInclude keeps documents containing v
func SearchWithInclude(v string) SearchOption {
	return func(r *SearchOptions) {
		r.Include = v
	}
}

// SearchWithExclude drops documents containing v
func SearchWithExclude(v string) SearchOption {
	return func(r *SearchOptions) {
		r.Exclude = v
	}
}

// Record represents a single result from a vector similarity search.
type Record struct {
	ID string
	// Score is the similarity score for the result
	Score     float64
	Embedding embedder.Embedding
}

// NewRecords wraps embeddings into records keyed by their UUID
func NewRecords(list []embedder.Embedding) []Record {
	ret := make([]Record, 0, len(list))
	for _, v := range list {
		ret = append(ret, Record{
			ID:        v.UUID(),
			Embedding: v,
		})
	}
	return ret
}
