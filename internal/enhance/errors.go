package enhance

import (
	"errors"
	"fmt"
)

// ErrEmptyCompletion is returned when the completion service replied
// successfully but carried no usable content. Kept distinct from
// UpstreamError so callers can tell "service down" from "service returned
// nothing".
var ErrEmptyCompletion = errors.New("no completion content returned")

// UpstreamError reports a failed call to the completion service: a non-2xx
// status, a network failure, or a timeout.
type UpstreamError struct {
	StatusCode int // 0 when the request never produced a response
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion service returned status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("completion service unreachable: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// MalformedResponseError reports completion content that could not be
// parsed into the required {ingredients, instructions} shape. This is a
// contract violation by the model, not a transport failure.
type MalformedResponseError struct {
	Reason string
	Raw    string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed AI response: %s", e.Reason)
}
