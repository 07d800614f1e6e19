package splitter

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/words"

	"github.com/bububa/pdf-agent/components/embedder"
)

// Words splits text on whitespace separated words, punctuation stays attached to its word
type Words struct {
	Options
}

var _ embedder.Chunker = (*Words)(nil)

func NewWords(opts ...Option) *Words {
	return &Words{
		Options: newOptions(opts),
	}
}

func (w *Words) Split(text string) []Chunk {
	var (
		parts   [][]byte
		current []byte
	)
	for _, seg := range words.SegmentAll([]byte(text)) {
		if isSpace(seg) {
			if len(current) > 0 {
				parts = append(parts, current)
				current = nil
			}
			continue
		}
		current = append(current, seg...)
	}
	if len(current) > 0 {
		parts = append(parts, current)
	}
	return w.chunk(parts, []byte(" "))
}

func (w *Words) SplitText(text string) []string {
	return texts(w.Split(text))
}

func isSpace(seg []byte) bool {
	return len(bytes.TrimSpace(seg)) == 0
}

func isWord(seg []byte) bool {
	for len(seg) > 0 {
		r, size := utf8.DecodeRune(seg)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
		seg = seg[size:]
	}
	return false
}
