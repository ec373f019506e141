package sigcarve

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPayload is returned by an Extractor when a match does not frame
	// a usable payload. The match is counted as rejected and carving goes on.
	ErrNoPayload = errors.New("sigcarve: no payload at match")

	// ErrInvalidSignature is returned by New for a malformed catalog entry.
	ErrInvalidSignature = errors.New("sigcarve: invalid signature")

	// ErrInvalidLayout is returned by Layout.Validate.
	ErrInvalidLayout = errors.New("sigcarve: invalid layout")
)

// SignatureError reports a malformed catalog entry.
type SignatureError struct {
	Index int
	Name  string
	cause error
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("sigcarve: signature %d (%s): %v", e.Index, e.Name, e.cause)
}

func (e *SignatureError) Unwrap() []error { return []error{ErrInvalidSignature, e.cause} }

// MatchError reports a failure while processing one match.
//
// The underlying error can be accessed via errors.Unwrap.
type MatchError struct {
	Signature string
	Offset    int
	cause     error
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("sigcarve: %s at %d: %v", e.Signature, e.Offset, e.cause)
}

func (e *MatchError) Unwrap() error { return e.cause }
