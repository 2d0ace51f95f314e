package signal

import (
	"errors"
	"fmt"
)

// Failure categories for a fetch. Every failure reduces to exactly one of
// these; callers branch with errors.Is and never see a raw transport error.
var (
	// ErrNetwork indicates an unreachable endpoint, a non-2xx status, or a
	// timeout.
	ErrNetwork = errors.New("signal: network failure")

	// ErrFormat indicates a non-JSON content type or a malformed body.
	ErrFormat = errors.New("signal: malformed response")

	// ErrSchema indicates a parseable body missing required fields.
	ErrSchema = errors.New("signal: schema violation")
)

// FetchError tags a failure with its category and retains the cause.
type FetchError struct {
	Kind   error // one of ErrNetwork, ErrFormat, ErrSchema
	Reason string
	Cause  error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
}

func (e *FetchError) Unwrap() error { return e.Kind }

func fetchErr(kind error, reason string, cause error) error {
	return &FetchError{Kind: kind, Reason: reason, Cause: cause}
}
