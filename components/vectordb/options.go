package vectordb

type Options struct {
	EngineType EngineType // Database type
	TopK       int        // Maximum number of results to return
	MinScore   float64    // Minimum similarity score threshold
}

// Option is a function type for configuring VectorDB instances.
type Option func(*Options)

func WithEngine(engine EngineType) Option {
	return func(c *Options) {
		c.EngineType = engine
	}
}

// WithTopK sets the maximum number of results to return.
// The actual number of results may be less if MinScore filtering is applied.
func WithTopK(k int) Option {
	return func(c *Options) {
		c.TopK = k
	}
}

// WithMinScore sets the minimum similarity score threshold.
func WithMinScore(score float64) Option {
	return func(c *Options) {
		c.MinScore = score
	}
}
