package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrMissingField     = errors.New("missing required field")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrUpstream         = errors.New("upstream service failure")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrBadRequest       = errors.New("bad request")
)
