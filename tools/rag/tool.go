package rag

import (
	"context"
	"fmt"

	"github.com/bububa/pdf-agent/tools"
)

const (
	AddContentToolName = "add_content"
	QueryToolName      = "query"
)

// AddContentInput is the argument of the add_content tool
type AddContentInput struct {
	Content string `json:"content" jsonschema:"title=content,description=Text to add to the knowledge base." validate:"required"`
}

// QueryInput is the argument of the query tool
type QueryInput struct {
	Query string `json:"query" jsonschema:"title=query,description=Question to search the knowledge base for." validate:"required"`
}

// Tools returns the add_content and query tools backed by the store
func (r *Store) Tools(opts ...tools.Option) []tools.Tool {
	add := tools.NewFunction(func(ctx context.Context, in *AddContentInput) (string, error) {
		n, err := r.AddContent(ctx, in.Content, nil)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Added %d chunks to the knowledge base.", n), nil
	}, append([]tools.Option{
		tools.WithTitle(AddContentToolName),
		tools.WithDescription("Add text content to the knowledge base so it can be searched later."),
	}, opts...)...)
	query := tools.NewFunction(func(ctx context.Context, in *QueryInput) (string, error) {
		return r.Query(ctx, in.Query)
	}, append([]tools.Option{
		tools.WithTitle(QueryToolName),
		tools.WithDescription("Search the knowledge base and return the most relevant passages."),
	}, opts...)...)
	return []tools.Tool{add, query}
}
