package match

import (
	"errors"
	"fmt"
)

// Kind discriminates the active variant of a Result.
type Kind uint8

const (
	// KindFailure marks a validation failure; see Result.Failure.
	KindFailure Kind = iota + 1
	// KindState marks a control state; see Result.State.
	KindState
	// KindMatch marks a match offset; see Result.Offset.
	KindMatch
)

// ErrorKind enumerates validation failures.
type ErrorKind uint8

const (
	EmptyOrInvalidRange ErrorKind = iota + 1
	OffsetOutOfRange
	PatternSizeOutOfRange
)

var (
	ErrEmptyOrInvalidRange   = errors.New("match: empty or invalid range")
	ErrOffsetOutOfRange      = errors.New("match: offset out of range")
	ErrPatternSizeOutOfRange = errors.New("match: pattern size out of range")
)

// Err returns the sentinel error for the kind.
func (k ErrorKind) Err() error {
	switch k {
	case EmptyOrInvalidRange:
		return ErrEmptyOrInvalidRange
	case OffsetOutOfRange:
		return ErrOffsetOutOfRange
	case PatternSizeOutOfRange:
		return ErrPatternSizeOutOfRange
	default:
		return fmt.Errorf("match: unknown error kind %d", uint8(k))
	}
}

func (k ErrorKind) String() string {
	switch k {
	case EmptyOrInvalidRange:
		return "EmptyOrInvalidRange"
	case OffsetOutOfRange:
		return "OffsetOutOfRange"
	case PatternSizeOutOfRange:
		return "PatternSizeOutOfRange"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

// State enumerates non-error outcomes that carry no offset.
type State uint8

const (
	Found State = iota + 1
	NotFound
	CheckPassed
)

func (s State) String() string {
	switch s {
	case Found:
		return "Found"
	case NotFound:
		return "NotFound"
	case CheckPassed:
		return "CheckPassed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Result is the outcome of a validation or search. Exactly one variant is
// active; the zero Result is invalid and has Kind 0.
type Result struct {
	kind   Kind
	fail   ErrorKind
	state  State
	offset int
}

// Failure returns a Result carrying a validation failure.
func Failure(k ErrorKind) Result { return Result{kind: KindFailure, fail: k} }

// Status returns a Result carrying a state.
func Status(s State) Result { return Result{kind: KindState, state: s} }

// At returns a Result carrying a match at offset.
func At(offset int) Result { return Result{kind: KindMatch, offset: offset} }

// Kind returns the active variant.
func (r Result) Kind() Kind { return r.kind }

// Offset returns the match offset and true if r is a match.
func (r Result) Offset() (int, bool) {
	if r.kind != KindMatch {
		return 0, false
	}
	return r.offset, true
}

// State returns the state and true if r carries a state.
func (r Result) State() (State, bool) {
	if r.kind != KindState {
		return 0, false
	}
	return r.state, true
}

// Failure returns the error kind and true if r is a validation failure.
func (r Result) Failure() (ErrorKind, bool) {
	if r.kind != KindFailure {
		return 0, false
	}
	return r.fail, true
}

// Err returns the sentinel error of a failure result, or nil.
func (r Result) Err() error {
	if r.kind != KindFailure {
		return nil
	}
	return r.fail.Err()
}

// Is reports whether r carries state s.
func (r Result) Is(s State) bool {
	return r.kind == KindState && r.state == s
}

// Matched reports whether r carries a match offset.
func (r Result) Matched() bool { return r.kind == KindMatch }

func (r Result) String() string {
	switch r.kind {
	case KindFailure:
		return "failure(" + r.fail.String() + ")"
	case KindState:
		return r.state.String()
	case KindMatch:
		return fmt.Sprintf("match(%d)", r.offset)
	default:
		return "invalid"
	}
}
