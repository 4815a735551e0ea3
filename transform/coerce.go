package transform

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var (
	errNonFinite   = errors.New("value is not finite")
	errUnsupported = errors.New("unsupported type")
	errNotDecimal  = errors.New("not a decimal number")
)

// toFloat converts a decoded JSON value to float64. Numbers, numeric
// strings (surrounding whitespace ignored) and booleans are accepted.
func toFloat(v any) (float64, error) {
	var (
		f   float64
		err error
	)
	switch n := v.(type) {
	case json.Number:
		f, err = strconv.ParseFloat(n.String(), 64)
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case bool:
		if n {
			f = 1
		}
	case string:
		f, err = parseDecimal(n)
	default:
		return 0, errUnsupported
	}
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNonFinite
	}
	return f, nil
}

// parseDecimal parses a numeric string. strconv also reads hexadecimal
// floats such as "0x1p3"; those are refused.
func parseDecimal(s string) (float64, error) {
	s = trimSpace(s)
	digits := s
	if len(digits) > 0 && (digits[0] == '+' || digits[0] == '-') {
		digits = digits[1:]
	}
	if len(digits) >= 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, errNotDecimal
	}
	return strconv.ParseFloat(s, 64)
}

// trimSpace strips Unicode white space and the ASCII separators U+001C
// through U+001F from both ends of s.
func trimSpace(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
	})
}
