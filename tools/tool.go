package tools

import (
	"context"
	"encoding/json"
)

// Tool is a function an agent can call through native tool calling
type Tool interface {
	Name() string
	Description() string
	// Parameters returns the JSON schema of the arguments object
	Parameters() json.RawMessage
	// Call runs the tool with JSON encoded arguments and returns its textual result
	Call(ctx context.Context, arguments string) (string, error)
}

// Function adapts a typed function into a Tool. The argument schema is reflected from I.
type Function[I any] struct {
	Config
	parameters json.RawMessage
	fn         func(context.Context, *I) (string, error)
}

var _ Tool = (*Function[struct{}])(nil)

func NewFunction[I any](fn func(context.Context, *I) (string, error), opts ...Option) *Function[I] {
	ret := &Function[I]{fn: fn}
	for _, opt := range opts {
		opt(&ret.Config)
	}
	ret.parameters = Schema(new(I))
	return ret
}

func (f *Function[I]) Name() string {
	return f.Title()
}

func (f *Function[I]) Parameters() json.RawMessage {
	return f.parameters
}

func (f *Function[I]) Call(ctx context.Context, arguments string) (string, error) {
	in := new(I)
	if err := Decode(arguments, in); err != nil {
		return "", err
	}
	if fn := f.startHook; fn != nil {
		fn(ctx, f, in)
	}
	out, err := f.fn(ctx, in)
	if err != nil {
		if fn := f.errorHook; fn != nil {
			fn(ctx, f, in, err)
		}
		return "", err
	}
	if fn := f.endHook; fn != nil {
		fn(ctx, f, in, out)
	}
	return out, nil
}
