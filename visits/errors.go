package visits

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	errInvalidJSON = errors.New("response is not valid JSON")
	errNotAnObject = errors.New("response is not a JSON object")
)

// CountConflict is returned when a stored count changed between read and write.
var CountConflict = errors.New("count-conflict")

type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func Unreachable(endpoint string, err error) error {
	return &TransportError{Endpoint: endpoint, Err: err}
}

type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse counter response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func Malformed(err error) error {
	return &ParseError{Err: err}
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func Invalid(field string, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
