package services

import "errors"

// Error kinds for business-rule failures. Services wrap these with a
// human-readable reason via fmt.Errorf("...: %w", kind); handlers map them to
// HTTP statuses with errors.Is. Storage failures that are none of these kinds
// surface unwrapped and become generic internal errors.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)
