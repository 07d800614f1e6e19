package embedder

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
)

// Embedding is a vector representation of a piece of text. The distance between two
// embeddings is correlated with the semantic similarity of their texts.
type Embedding struct {
	Object    string            `json:"object"`
	Embedding []float64         `json:"embedding"`
	Index     int               `json:"index"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// UUID returns a stable id derived from the text and its metadata
func (e Embedding) UUID() string {
	sb := new(bytes.Buffer)
	sb.WriteString(e.Object)
	keys := make([]string, 0, len(e.Meta))
	for k := range e.Meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteByte('\n')
		sb.WriteString(k + ":" + e.Meta[k])
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, sb.Bytes()).String()
}
