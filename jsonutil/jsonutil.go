// Package jsonutil wraps sonic so callers get encoding/json compatible
// behaviour with sonic's throughput. See Example and ExampleUnmarshalNumber.
package jsonutil

import (
	"io"

	"github.com/bytedance/sonic"
)

var (
	// std mirrors encoding/json: sorted map keys and HTML escaping. Invalid
	// UTF-8 in strings is replaced with U+FFFD rather than rejected.
	std = sonic.ConfigStd

	// numbers keeps JSON numbers as json.Number so integers survive a
	// decode/encode round trip without float64 rounding.
	numbers = sonic.Config{
		EscapeHTML:       true,
		SortMapKeys:      true,
		CompactMarshaler: true,
		CopyString:       true,
		ValidateString:   true,
		UseNumber:        true,
	}.Froze()
)

// Marshal returns the JSON encoding of v.
func Marshal(v any) ([]byte, error) {
	return std.Marshal(v)
}

// MarshalIndent is like Marshal but applies the given prefix and indentation.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return std.MarshalIndent(v, prefix, indent)
}

// Unmarshal parses data into v.
func Unmarshal(data []byte, v any) error {
	return std.Unmarshal(data, v)
}

// UnmarshalNumber parses data into v, decoding numbers into json.Number
// instead of float64 when the target is an interface value.
func UnmarshalNumber(data []byte, v any) error {
	return numbers.Unmarshal(data, v)
}

// Encode writes the JSON encoding of v to w followed by a newline.
func Encode(w io.Writer, v any) error {
	return std.NewEncoder(w).Encode(v)
}

// Decode reads the next JSON value from r into v.
func Decode(r io.Reader, v any) error {
	return std.NewDecoder(r).Decode(v)
}
