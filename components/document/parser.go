package document

import (
	"bytes"
	"context"
	"io"
)

type Parser interface {
	Parse(context.Context, *bytes.Reader, io.Writer) error
}

// Page is the text of a single PDF page, Number is 1-based
type Page struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}
