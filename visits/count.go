package visits

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const CountField = "count"

// Count is the value of the count field. A numeric count keeps the literal
// text it was sent with so 42 renders as 42 and 3.50 as 3.50.
type Count struct {
	text    string
	numeric bool
}

func NumericCount(literal string) Count {
	return Count{text: literal, numeric: true}
}

func TextCount(text string) Count {
	return Count{text: text}
}

func (c Count) String() string {
	return c.text
}

func (c Count) IsNumeric() bool {
	return c.numeric
}

func (c Count) MarshalJSON() ([]byte, error) {
	if c.numeric {
		return []byte(c.text), nil
	}

	return json.Marshal(c.text)
}

type CounterResponse struct {
	Count   Count
	Payload []byte
}

// DecodeCounterResponse parses a counter payload. Malformed JSON is a
// ParseError; a payload without a usable count is a ValidationError.
func DecodeCounterResponse(body []byte) (*CounterResponse, error) {
	if !json.Valid(body) {
		return nil, Malformed(errInvalidJSON)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, Malformed(err)
	}

	if fields == nil {
		return nil, Malformed(errNotAnObject)
	}

	raw, ok := fields[CountField]
	if !ok {
		return nil, Invalid(CountField, "field is missing")
	}

	count, err := countFrom(bytes.TrimSpace(raw))
	if err != nil {
		return nil, err
	}

	return &CounterResponse{Count: count, Payload: body}, nil
}

func countFrom(raw []byte) (Count, error) {
	if len(raw) == 0 {
		return Count{}, Invalid(CountField, "field is empty")
	}

	switch c := raw[0]; {
	case c == '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return Count{}, Malformed(err)
		}
		return TextCount(text), nil
	case c == '-' || (c >= '0' && c <= '9'):
		if !validNumber(raw) {
			return Count{}, Malformed(errors.Errorf("invalid number literal %q", raw))
		}
		return NumericCount(string(raw)), nil
	default:
		return Count{}, Invalid(CountField, "expected a number or a string, got "+kindOf(c))
	}
}

func kindOf(c byte) string {
	switch c {
	case 'n':
		return "null"
	case 't', 'f':
		return "boolean"
	case '{':
		return "object"
	case '[':
		return "array"
	default:
		return "unknown"
	}
}

// validNumber reports whether raw is a number as JSON defines it: an
// optional minus, an integer part without leading zeros, an optional
// fraction and an optional exponent.
func validNumber(raw []byte) bool {
	i := 0
	if i < len(raw) && raw[i] == '-' {
		i++
	}

	switch {
	case i >= len(raw):
		return false
	case raw[i] == '0':
		i++
	case isDigit(raw[i]):
		for i < len(raw) && isDigit(raw[i]) {
			i++
		}
	default:
		return false
	}

	if i < len(raw) && raw[i] == '.' {
		i++
		if i >= len(raw) || !isDigit(raw[i]) {
			return false
		}
		for i < len(raw) && isDigit(raw[i]) {
			i++
		}
	}

	if i < len(raw) && (raw[i] == 'e' || raw[i] == 'E') {
		i++
		if i < len(raw) && (raw[i] == '+' || raw[i] == '-') {
			i++
		}
		if i >= len(raw) || !isDigit(raw[i]) {
			return false
		}
		for i < len(raw) && isDigit(raw[i]) {
			i++
		}
	}

	return i == len(raw)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
