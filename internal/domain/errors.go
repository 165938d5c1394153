package domain

import "errors"

var (
	ErrSessionExpired  = errors.New("session expired")
	ErrEmptyMessage    = errors.New("empty message")
	ErrRequestInFlight = errors.New("request already in flight")
	ErrScanInFlight    = errors.New("scan already in flight")
	ErrNoDraft         = errors.New("no scan draft")
	ErrDraftMismatch   = errors.New("scan draft mismatch")
)

// APIError carries a human-readable message for any non-2xx backend
// response other than 401. Transport failures are reported as APIError too.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// ValidationError is raised client-side before anything hits the network.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
