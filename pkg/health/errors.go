package health

import "errors"

var (
	// ErrCheckFailed names a readiness check that returned an error.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout is joined with the error of a check that was still
	// running when the readiness timeout expired.
	ErrCheckTimeout = errors.New("health: check timed out")
)
