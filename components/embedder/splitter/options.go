package splitter

// Options holds the chunking configuration shared by every splitter.
type Options struct {
	// chunkSize is the target size of each chunk in tokens
	chunkSize int
	// overlap is the number of tokens repeated from the end of the previous chunk
	overlap      int
	tokenCounter TokenCounter
}

// Option is a function type for configuring chunker Options.
type Option func(*Options)

func WithChunkSize(size int) Option {
	return func(o *Options) {
		o.chunkSize = size
	}
}

func WithOverlap(overlap int) Option {
	return func(o *Options) {
		o.overlap = overlap
	}
}

func WithTokenCounter(counter TokenCounter) Option {
	return func(o *Options) {
		o.tokenCounter = counter
	}
}

func newOptions(opts []Option) Options {
	ret := Options{
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(&ret)
	}
	if ret.chunkSize <= 0 {
		ret.chunkSize = DefaultChunkSize
	}
	if ret.overlap < 0 || ret.overlap >= ret.chunkSize {
		ret.overlap = 0
	}
	if ret.tokenCounter == nil {
		ret.tokenCounter = WordsTokenCounter{}
	}
	return ret
}

func (o Options) ChunkSize() int {
	return o.chunkSize
}

func (o Options) Overlap() int {
	return o.overlap
}

func (o Options) TokenCount(txt string) int {
	return o.tokenCounter.Count([]byte(txt))
}
