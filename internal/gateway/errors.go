package gateway

import "github.com/pkg/errors"

// Error taxonomy for remote failures. NetworkErrors are retried on the
// next queue sync; everything else surfaces to the caller unretried.
var (
	ErrNetwork        = errors.New("network failure")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrValidation     = errors.New("validation rejected")
	ErrNotFound       = errors.New("complaint not found")
	ErrAlreadyUpvoted = errors.New("already upvoted")
)
