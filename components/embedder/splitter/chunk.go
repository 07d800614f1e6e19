package splitter

import "bytes"

const DefaultChunkSize = 256

// Chunk represents a piece of text with associated metadata for tracking its position
// and size within the original document.
type Chunk struct {
	Text string
	// TokenSize represents the number of tokens in this chunk
	TokenSize int
	// Start is the index of the first part in this chunk
	Start int
	// End is the index of the last part in this chunk (exclusive)
	End int
}

// chunk groups parts into chunks of at most chunkSize tokens. A part larger than
// chunkSize becomes a chunk of its own. Each new chunk starts with the trailing
// parts of the previous one that cover the overlap.
func (o Options) chunk(parts [][]byte, delimiter []byte) []Chunk {
	counts := make([]int, len(parts))
	for i, part := range parts {
		counts[i] = o.tokenCounter.Count(part)
	}
	var (
		chunks []Chunk
		start  int
		tokens int
	)
	for i := range parts {
		if tokens > 0 && tokens+counts[i] > o.chunkSize {
			chunks = append(chunks, newChunk(parts[start:i], delimiter, start, tokens))
			start = i - o.overlapParts(counts[start:i])
			tokens = 0
			for _, c := range counts[start:i] {
				tokens += c
			}
		}
		tokens += counts[i]
	}
	if start < len(parts) {
		chunks = append(chunks, newChunk(parts[start:], delimiter, start, tokens))
	}
	return chunks
}

// overlapParts returns how many trailing parts cover the overlap, the first part is never repeated
func (o Options) overlapParts(counts []int) int {
	var tokens, n int
	for i := len(counts) - 1; i > 0 && tokens < o.overlap; i-- {
		tokens += counts[i]
		n++
	}
	return n
}

func newChunk(parts [][]byte, delimiter []byte, start int, tokens int) Chunk {
	return Chunk{
		Text:      string(bytes.Join(parts, delimiter)),
		TokenSize: tokens,
		Start:     start,
		End:       start + len(parts),
	}
}

func texts(chunks []Chunk) []string {
	ret := make([]string, len(chunks))
	for i, c := range chunks {
		ret[i] = c.Text
	}
	return ret
}
