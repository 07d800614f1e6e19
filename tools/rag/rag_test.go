package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/philippgille/chromem-go"

	"github.com/bububa/pdf-agent/components"
	"github.com/bububa/pdf-agent/components/embedder"
	"github.com/bububa/pdf-agent/components/embedder/splitter"
	"github.com/bububa/pdf-agent/components/vectordb"
	chromemengine "github.com/bububa/pdf-agent/components/vectordb/engines/chromem"
)

var vocabulary = []string{"cat", "dog", "fish", "pdf"}

// bagEmbedder embeds text as keyword counts over a tiny vocabulary
type bagEmbedder struct {
	embedder.Options
}

func (b *bagEmbedder) vector(text string) []float64 {
	text = strings.ToLower(text)
	v := make([]float64, len(vocabulary)+1)
	for i, w := range vocabulary {
		v[i] = float64(strings.Count(text, w))
	}
	v[len(vocabulary)] = 0.01
	return v
}

func (b *bagEmbedder) Embed(ctx context.Context, text string, e *embedder.Embedding, usage *components.LLMUsage) error {
	e.Object = text
	e.Embedding = b.vector(text)
	return nil
}

func (b *bagEmbedder) BatchEmbed(ctx context.Context, parts []string, usage *components.LLMUsage) ([]embedder.Embedding, error) {
	ret := make([]embedder.Embedding, len(parts))
	for i, p := range parts {
		ret[i] = embedder.Embedding{Object: p, Embedding: b.vector(p), Index: i}
		usage.InputTokens++
	}
	return ret, nil
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(
		WithEmbedder(new(bagEmbedder)),
		WithVectorDB(chromemengine.New(chromem.NewDB(), vectordb.WithTopK(1))),
		WithChunker(splitter.NewSentences(splitter.WithChunkSize(5))),
		WithCollection("test"),
	)
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestStoreAddAndQuery(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	n, err := store.AddContent(ctx, "The cat sleeps all day. A dog guards the house. Fish swim in the pond.", map[string]string{"source": "test.pdf"})
	if err != nil {
		t.Fatalf("AddContent: %v", err)
	}
	if n != 3 {
		t.Errorf("stored %d chunks, want 3", n)
	}
	out, err := store.Query(ctx, "Where is the dog?")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !strings.Contains(out, "A dog guards the house.") || !strings.Contains(out, "source: test.pdf") {
		t.Errorf("unexpected query result:\n%s", out)
	}
	if strings.Contains(out, "cat sleeps") {
		t.Errorf("top k not applied:\n%s", out)
	}
	if store.Usage().InputTokens != 3 {
		t.Errorf("usage = %+v", store.Usage())
	}
}

func TestStoreQueryEmpty(t *testing.T) {
	out, err := newTestStore(t).Query(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if out != "No relevant content found." {
		t.Errorf("Query = %q", out)
	}
}

func TestStoreAddEmpty(t *testing.T) {
	if _, err := newTestStore(t).AddContent(context.Background(), "  ", nil); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("error = %v", err)
	}
}

func TestTools(t *testing.T) {
	ctx := context.Background()
	list := newTestStore(t).Tools()
	if len(list) != 2 || list[0].Name() != AddContentToolName || list[1].Name() != QueryToolName {
		t.Fatalf("unexpected tools %v", list)
	}
	out, err := list[0].Call(ctx, `{"content":"The pdf talks about fish."}`)
	if err != nil || out != "Added 1 chunks to the knowledge base." {
		t.Fatalf("add_content = %q, %v", out, err)
	}
	out, err = list[1].Call(ctx, `{"query":"fish"}`)
	if err != nil || !strings.Contains(out, "The pdf talks about fish.") {
		t.Errorf("query = %q, %v", out, err)
	}
	if _, err := list[1].Call(ctx, `{}`); err == nil {
		t.Error("expected validation error")
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(WithVectorDB(chromemengine.New(chromem.NewDB()))); err == nil {
		t.Error("expected error without embedder")
	}
	if _, err := New(WithEmbedder(new(bagEmbedder))); err == nil {
		t.Error("expected error without vector db")
	}
}
