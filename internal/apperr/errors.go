package apperr

import "errors"

// Stable error kinds surfaced to API clients. Handlers map these to HTTP
// statuses with errors.Is, so services must wrap rather than replace them.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrConflict       = errors.New("conflict")
	ErrInvalidState   = errors.New("invalid state")
	ErrExpired        = errors.New("expired")
	ErrUnauthorized   = errors.New("user is not authorized")
	ErrForbidden      = errors.New("operation is forbidden for user")
)
