package assessment

import (
	"errors"
	"fmt"
)

// ErrSessionComplete signals that a session has no more questions to
// serve. It is the normal end of the fetch loop, not a failure. Match
// with errors.Is.
var ErrSessionComplete = errors.New("assessment session complete")

// TransportError indicates the exchange with the assessment service
// failed: a non-2xx HTTP status, or a network-level error before any
// status arrived.
type TransportError struct {
	// Status is the HTTP status code. Zero when the request never
	// produced a response.
	Status int

	// Body is the raw response body text. Empty for network failures.
	Body string

	// Err is the underlying cause for network failures.
	Err error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("assessment service unreachable: %v", e.Err)
	}
	return fmt.Sprintf("assessment service returned HTTP %d: %s", e.Status, e.Body)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SessionCompleteError carries the server's completion message. It
// unwraps to ErrSessionComplete so callers can match either the sentinel
// or the struct.
type SessionCompleteError struct {
	Message string
}

func (e *SessionCompleteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("assessment session complete: %s", e.Message)
	}
	return "assessment session complete"
}

func (e *SessionCompleteError) Unwrap() error { return ErrSessionComplete }
