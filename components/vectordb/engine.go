package vectordb

import (
	"context"
)

type EngineType string

const (
	Chromem EngineType = "chromem"
)

type Engine interface {
	// Insert adds records to a collection, records with an existing ID are replaced
	Insert(ctx context.Context, collection string, records ...Record) error
	Search(ctx context.Context, vectors []float64, opts ...SearchOption) ([]Record, error)
}
