package document

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNetwork is returned when the PDF could not be downloaded
	ErrNetwork = errors.New("network error fetching PDF")
	// ErrParse is returned when the body is not a readable PDF
	ErrParse = errors.New("failed to extract text from PDF")
	// ErrNoText is returned when the PDF has no extractable text
	ErrNoText = errors.New("no extractable text found in PDF (image-based or non-extractable PDF)")
)

// ExtractError describes a failed extraction. Kind is one of ErrNetwork, ErrParse or ErrNoText.
type ExtractError struct {
	Kind   error
	URL    string
	Detail string
	Cause  error
}

func (e *ExtractError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *ExtractError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func networkError(link string, cause error, format string, args ...any) *ExtractError {
	return &ExtractError{Kind: ErrNetwork, URL: link, Detail: fmt.Sprintf(format, args...), Cause: cause}
}

func parseError(cause error, format string, args ...any) *ExtractError {
	return &ExtractError{Kind: ErrParse, Detail: fmt.Sprintf(format, args...), Cause: cause}
}
