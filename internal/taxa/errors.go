package taxa

import (
	"errors"
	"fmt"

	"github.com/yourorg/taxa-api/inat"
)

// Sentinel errors for broad classification.
var (
	// ErrInvalidInput covers bad request shapes: empty family names,
	// non-numeric counts. Raised before any network call.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound means the name resolved to zero family taxa upstream.
	// A legitimate empty outcome, not a fault.
	ErrNotFound = errors.New("family not found")
)

// UpstreamError is a fault talking to the biodiversity API: network failure,
// timeout, non-success status, or a payload we could not decode.
type UpstreamError struct {
	Op     string
	Status int // upstream HTTP status when known, 0 otherwise
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: upstream status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func upstreamErr(op string, err error) error {
	var apiErr *inat.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{Op: op, Status: apiErr.Status, Err: err}
	}
	return &UpstreamError{Op: op, Err: err}
}
