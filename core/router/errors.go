package router

import "errors"

// ErrRouteNotFound and ErrMethodNotAllowed are the two routing-miss
// outcomes the connection engine turns into a 404 or 405 respectively,
// instead of invoking a handler.
var (
	ErrRouteNotFound    = errors.New("router: route not found")
	ErrMethodNotAllowed = errors.New("router: method not allowed")
)

// ErrParamConflict is returned by Add when a path template requests a
// different parameter type at a position some other registered template
// already claims.
var ErrParamConflict = errors.New("router: conflicting parameter type at path segment")
