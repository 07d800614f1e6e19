package humaninput

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/bububa/pdf-agent/tools"
)

const ToolName = "ask_human"

// Input is the argument of the ask_human tool
type Input struct {
	Question string `json:"question" jsonschema:"title=question,description=Question to ask the human user." validate:"required"`
}

// Console asks questions on a writer and reads one line answers from a reader
type Console struct {
	mtx sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// NewConsole returns a Console. An in that already is a *bufio.Reader is reused so buffered input is shared.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:  bufio.NewReader(in),
		out: out,
	}
}

type answer struct {
	text string
	err  error
}

// Ask prints question and waits for one line of input
func (c *Console) Ask(ctx context.Context, question string) (string, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if _, err := fmt.Fprintf(c.out, "\n%s\n> ", strings.TrimSpace(question)); err != nil {
		return "", err
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := c.in.ReadString('\n')
		if errors.Is(err, io.EOF) && line != "" {
			err = nil
		}
		ch <- answer{text: strings.TrimSpace(line), err: err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case a := <-ch:
		if a.err != nil {
			return "", fmt.Errorf("read human input: %w", a.err)
		}
		return a.text, nil
	}
}

// Tool returns the ask_human tool
func (c *Console) Tool(opts ...tools.Option) tools.Tool {
	return tools.NewFunction(func(ctx context.Context, in *Input) (string, error) {
		reply, err := c.Ask(ctx, in.Question)
		if err != nil {
			return "", err
		}
		if reply == "" {
			return "The human gave no answer.", nil
		}
		return reply, nil
	}, append([]tools.Option{
		tools.WithTitle(ToolName),
		tools.WithDescription("Ask the human user a question and wait for the answer."),
	}, opts...)...)
}
