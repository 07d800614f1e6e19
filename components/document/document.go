package document

import (
	"bytes"
	"errors"
)

var ErrReading = errors.New("document is reading")

type ReadStatus = int32

const (
	Unread ReadStatus = iota
	Reading
	ReadCompleted
)

// Document is a downloaded document body with metadata
type Document struct {
	buffer *bytes.Buffer
	Meta   map[string]string
}

// Reader returns a reader over the downloaded body
func (d *Document) Reader() *bytes.Reader {
	return bytes.NewReader(d.buffer.Bytes())
}

// Bytes returns the downloaded body
func (d *Document) Bytes() []byte {
	return d.buffer.Bytes()
}

// Len returns the size of the downloaded body
func (d *Document) Len() int {
	return d.buffer.Len()
}
