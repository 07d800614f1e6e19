package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/bububa/pdf-agent/components"
	"github.com/bububa/pdf-agent/components/embedder"
	"github.com/bububa/pdf-agent/components/vectordb"
	"github.com/bububa/pdf-agent/pkg/logging"
)

// ErrEmptyContent is returned when there is nothing to index
var ErrEmptyContent = errors.New("content is empty")

type Options struct {
	collection string
	embedder   embedder.Embedder
	chunker    embedder.Chunker
	vectordb   vectordb.Engine
}

type Option func(*Options)

func WithCollection(name string) Option {
	return func(r *Options) {
		r.collection = name
	}
}

func WithChunker(chunker embedder.Chunker) Option {
	return func(r *Options) {
		r.chunker = chunker
	}
}

func WithEmbedder(e embedder.Embedder) Option {
	return func(r *Options) {
		r.embedder = e
	}
}

func WithVectorDB(v vectordb.Engine) Option {
	return func(r *Options) {
		r.vectordb = v
	}
}

// Store indexes text into a vector collection and answers similarity queries against it
type Store struct {
	Options
	mtx   sync.Mutex
	usage components.LLMUsage
}

func New(opts ...Option) (*Store, error) {
	ret := new(Store)
	for _, opt := range opts {
		opt(&ret.Options)
	}
	if ret.embedder == nil {
		return nil, errors.New("rag: embedder is required")
	}
	if ret.vectordb == nil {
		return nil, errors.New("rag: vector db is required")
	}
	if ret.collection == "" {
		ret.collection = "rag"
	}
	return ret, nil
}

// Usage returns the embedding token usage so far
func (r *Store) Usage() components.LLMUsage {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.usage
}

func (r *Store) addUsage(u *components.LLMUsage) {
	r.mtx.Lock()
	r.usage.Merge(u)
	r.mtx.Unlock()
}

// AddContent chunks content, embeds the chunks and inserts them. It returns the number of chunks stored.
func (r *Store) AddContent(ctx context.Context, content string, meta map[string]string) (int, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return 0, ErrEmptyContent
	}
	parts := []string{content}
	if r.chunker != nil {
		parts = r.chunker.SplitText(content)
	}
	if len(parts) == 0 {
		return 0, ErrEmptyContent
	}
	usage := new(components.LLMUsage)
	embeddings, err := embedder.EmbedChunks(ctx, r.embedder, parts, meta, usage)
	r.addUsage(usage)
	if err != nil {
		return 0, fmt.Errorf("embed content: %w", err)
	}
	if err := r.vectordb.Insert(ctx, r.collection, vectordb.NewRecords(embeddings)...); err != nil {
		return 0, fmt.Errorf("store content: %w", err)
	}
	logging.FromContext(ctx).DebugContext(ctx, "rag content added",
		slog.String("collection", r.collection),
		slog.Int("chunks", len(parts)),
	)
	return len(parts), nil
}

// Search embeds query and returns the closest records
func (r *Store) Search(ctx context.Context, query string, opts ...vectordb.SearchOption) ([]vectordb.Record, error) {
	embedding := new(embedder.Embedding)
	usage := new(components.LLMUsage)
	err := r.embedder.Embed(ctx, query, embedding, usage)
	r.addUsage(usage)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	searchOpts := make([]vectordb.SearchOption, 0, len(opts)+1)
	searchOpts = append(searchOpts, vectordb.SearchWithCollection(r.collection))
	searchOpts = append(searchOpts, opts...)
	return r.vectordb.Search(ctx, embedding.Embedding, searchOpts...)
}

// Query searches the store and renders the results as a context block for an agent
func (r *Store) Query(ctx context.Context, query string) (string, error) {
	records, err := r.Search(ctx, query)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "No relevant content found.", nil
	}
	return renderContext(query, records), nil
}

func renderContext(query string, records []vectordb.Record) string {
	sb := new(strings.Builder)
	sb.WriteString("Relevant content:\n\n")
	for i, record := range records {
		fmt.Fprintf(sb, "%d. %s\n", i+1, record.Embedding.Object)
		keys := make([]string, 0, len(record.Embedding.Meta))
		for k := range record.Embedding.Meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(sb, "  - %s: %s\n", k, record.Embedding.Meta[k])
		}
		fmt.Fprintf(sb, "  - score: %.3f\n", record.Score)
	}
	fmt.Fprintf(sb, "\nQuery: %s", query)
	return sb.String()
}
