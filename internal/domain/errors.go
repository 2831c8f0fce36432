package domain

import "errors"

// Error kinds surfaced to callers. None of these are fatal: every failure is
// reported and the prior committed state remains authoritative. Oversell and
// payment mismatch are accepted business outcomes, not errors.
var (
	ErrValidation        = errors.New("missing or invalid field")
	ErrEmptyCart         = errors.New("cart has no lines")
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	ErrAuthentication    = errors.New("invalid credentials")
	ErrNotFound          = errors.New("not found")
)
