package http

import "errors"

// Parse-level errors. All of these terminate the connection without a
// response — the engine's shed-load discipline — so they carry no HTTP
// status; they're logged and the socket is closed.
var (
	ErrMalformedRequest        = errors.New("http: malformed request")
	ErrInvalidMethod           = errors.New("http: invalid method")
	ErrURITooLong              = errors.New("http: uri too long")
	ErrHTTPVersionNotSupported = errors.New("http: version not supported")
	ErrTooManyHeaders          = errors.New("http: too many headers")
	ErrContentTooLarge         = errors.New("http: content too large")
)
