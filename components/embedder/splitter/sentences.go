package splitter

import (
	"bytes"

	"github.com/clipperhouse/uax29/sentences"

	"github.com/bububa/pdf-agent/components/embedder"
)

// Sentences splits text on unicode sentence boundaries. A sentence longer than
// the chunk size is split further on words.
type Sentences struct {
	Options
	words *Words
}

var _ embedder.Chunker = (*Sentences)(nil)

func NewSentences(opts ...Option) *Sentences {
	ret := &Sentences{
		Options: newOptions(opts),
	}
	ret.words = NewWords(WithChunkSize(ret.chunkSize), WithTokenCounter(ret.tokenCounter))
	return ret
}

func (s *Sentences) Split(text string) []Chunk {
	var parts [][]byte
	for _, seg := range sentences.SegmentAll([]byte(text)) {
		seg = bytes.TrimSpace(seg)
		if len(seg) == 0 {
			continue
		}
		if s.tokenCounter.Count(seg) <= s.chunkSize {
			parts = append(parts, seg)
			continue
		}
		for _, c := range s.words.Split(string(seg)) {
			parts = append(parts, []byte(c.Text))
		}
	}
	return s.chunk(parts, []byte(" "))
}

func (s *Sentences) SplitText(text string) []string {
	return texts(s.Split(text))
}
