package router

import (
	"errors"
	"fmt"
)

var (
	// ErrWidthMismatch is returned when a key resolves to a stream of a
	// different record width.
	ErrWidthMismatch = errors.New("router: record width does not match stream")
	// ErrNamesExhausted is returned when no free output name was found
	// within the configured number of attempts.
	ErrNamesExhausted = errors.New("router: no free output name")
	// ErrClosed is returned by Route after Close.
	ErrClosed = errors.New("router: closed")
)

// RouteError describes an I/O failure on an output stream.
type RouteError struct {
	Op     string // "create" or "write"
	Stream string
	Err    error
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("router: %s %s: %v", e.Op, e.Stream, e.Err)
}

func (e *RouteError) Unwrap() error { return e.Err }
