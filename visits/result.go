package visits

import "errors"

type Outcome string

const (
	Succeeded          Outcome = "succeeded"
	TransportFailed    Outcome = "transport-error"
	ParseFailed        Outcome = "parse-error"
	ValidationFailed   Outcome = "validation-error"
	UnclassifiedFailed Outcome = "failed"
)

// Result is the outcome of a single fetch. Exactly one of Response and Err is set.
type Result struct {
	Invocation InvocationID
	Status     int
	Response   *CounterResponse
	Err        error
}

func (r Result) Ok() bool {
	return r.Err == nil && r.Response != nil
}

func (r Result) Outcome() Outcome {
	if r.Ok() {
		return Succeeded
	}

	var transport *TransportError
	var parse *ParseError
	var validation *ValidationError

	switch {
	case errors.As(r.Err, &transport):
		return TransportFailed
	case errors.As(r.Err, &parse):
		return ParseFailed
	case errors.As(r.Err, &validation):
		return ValidationFailed
	default:
		return UnclassifiedFailed
	}
}
