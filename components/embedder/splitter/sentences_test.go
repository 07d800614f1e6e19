package splitter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSentences(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		chunkSize  int
		overlap    int
		wantChunks []string
	}{
		{
			name:       "one chunk",
			input:      "Basic chunking one. Chunking two? Chunking three!",
			chunkSize:  10,
			wantChunks: []string{"Basic chunking one. Chunking two? Chunking three!"},
		},
		{
			name:       "split on sentences",
			input:      "Basic chunking one. Chunking two? Chunking three!",
			chunkSize:  5,
			wantChunks: []string{"Basic chunking one. Chunking two?", "Chunking three!"},
		},
		{
			name:       "with overlap",
			input:      "Basic chunking one. Chunking two? Chunking three!",
			chunkSize:  5,
			overlap:    1,
			wantChunks: []string{"Basic chunking one. Chunking two?", "Chunking two? Chunking three!"},
		},
		{
			name:       "line breaks",
			input:      "First page ends here.\nSecond page starts.\n\n",
			chunkSize:  4,
			wantChunks: []string{"First page ends here.", "Second page starts."},
		},
		{
			name:       "long sentence falls back to words",
			input:      "one two three four five six seven. Short.",
			chunkSize:  3,
			wantChunks: []string{"one two three", "four five six", "seven. Short."},
		},
		{
			name:      "empty",
			input:     "  \n ",
			chunkSize: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splitter := NewSentences(
				WithChunkSize(tt.chunkSize),
				WithOverlap(tt.overlap),
			)
			got := splitter.SplitText(tt.input)
			if diff := cmp.Diff(tt.wantChunks, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("chunks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSentencesChunkPositions(t *testing.T) {
	chunks := NewSentences(WithChunkSize(5), WithOverlap(1)).Split("Basic chunking one. Chunking two? Chunking three!")
	want := []Chunk{
		{Text: "Basic chunking one. Chunking two?", TokenSize: 5, Start: 0, End: 2},
		{Text: "Chunking two? Chunking three!", TokenSize: 4, Start: 1, End: 3},
	}
	if diff := cmp.Diff(want, chunks); diff != "" {
		t.Errorf("chunks mismatch (-want +got):\n%s", diff)
	}
}
