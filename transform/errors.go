package transform

import (
	"errors"
	"fmt"
)

var (
	// ErrCoercion marks failures to convert a field to its required type.
	ErrCoercion = errors.New("coercion failed")
	// ErrShape marks payloads whose structure cannot be walked, such as an
	// "items" field that is not a list.
	ErrShape = errors.New("unexpected payload shape")
)

// singleItemIndex is the Index reported for the implicit single item.
const singleItemIndex = -1

// CoercionError reports a field whose value could not be converted.
type CoercionError struct {
	Index int
	Field string
	Value any
	Err   error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("%s: cannot convert %s to %s", location(e.Index, e.Field), describe(e.Value), targetType(e.Field))
}

func (e *CoercionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCoercion}
	}
	return []error{ErrCoercion, e.Err}
}

// ShapeError reports a structural mismatch in the payload.
type ShapeError struct {
	Index  int
	Field  string
	Expect string
	Got    any
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", location(e.Index, e.Field), e.Expect, describe(e.Got))
}

func (e *ShapeError) Unwrap() error {
	return ErrShape
}

func location(index int, field string) string {
	switch {
	case index == singleItemIndex:
		return field
	case field == "":
		return fmt.Sprintf("items[%d]", index)
	default:
		return fmt.Sprintf("items[%d].%s", index, field)
	}
}

func targetType(field string) string {
	if field == fieldName {
		return "string"
	}
	return "float"
}

// describe renders a decoded JSON value for error messages.
func describe(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("string %q", t)
	case bool:
		return fmt.Sprintf("boolean %t", t)
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Kind names the JSON type of a decoded value.
func Kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return "number"
	}
}
