package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
)

// ErrInvalidArguments is returned when tool arguments do not decode or validate
var ErrInvalidArguments = errors.New("invalid tool arguments")

var validate = validator.New(validator.WithRequiredStructEnabled())

var objectSchema = json.RawMessage(`{"type":"object"}`)

// Schema reflects the JSON schema of v, which must be a pointer to a struct.
// Unnamed struct types are reflected without expansion, anything that cannot be reflected gives an empty object schema.
func Schema(v any) (ret json.RawMessage) {
	t := reflect.TypeOf(v)
	if t == nil {
		return objectSchema
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	defer func() {
		if recover() != nil {
			ret = objectSchema
		}
	}()
	r := jsonschema.Reflector{
		ExpandedStruct: t.Name() != "",
		DoNotReference: true,
		Anonymous:      true,
	}
	s := r.ReflectFromType(t)
	s.Version = ""
	s.ID = ""
	bs, err := json.Marshal(s)
	if err != nil {
		return objectSchema
	}
	return bs
}

// Decode unmarshals JSON arguments into v and validates it
func Decode(arguments string, v any) error {
	arguments = strings.TrimSpace(arguments)
	if arguments == "" {
		arguments = "{}"
	}
	if err := json.Unmarshal([]byte(arguments), v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}
	return nil
}
