package schema

import (
	"sort"
	"strings"
)

// Payload keys set by the command dispatcher
const (
	PDFContentKey  = "pdf_content"
	TopicKey       = "topic"
	CurrentYearKey = "current_year"
)

// Inputs is the payload handed to a crew. pdf_content is required, other keys are opaque.
type Inputs map[string]string

// PDFContent returns the extracted PDF text
func (in Inputs) PDFContent() string {
	return in[PDFContentKey]
}

// Keys returns the payload keys in lexical order
func (in Inputs) Keys() []string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy
func (in Inputs) Clone() Inputs {
	ret := make(Inputs, len(in))
	for k, v := range in {
		ret[k] = v
	}
	return ret
}

// Interpolate replaces {key} placeholders with payload values.
// Placeholders with no matching key are kept verbatim.
func (in Inputs) Interpolate(text string) string {
	if len(in) == 0 || !strings.Contains(text, "{") {
		return text
	}
	pairs := make([]string, 0, len(in)*2)
	for _, k := range in.Keys() {
		pairs = append(pairs, "{"+k+"}", in[k])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
