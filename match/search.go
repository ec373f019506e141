package match

import "bytes"

// Validate checks that a search request is well-formed. Checks run in order
// and stop at the first failure:
//
//  1. buf is non-empty, else EmptyOrInvalidRange;
//  2. 0 <= offset < len(buf), else OffsetOutOfRange;
//  3. 0 < len(pattern) <= window, else PatternSizeOutOfRange.
//
// The window is offset when offset > 0 and len(buf) otherwise, mirroring
// Search. On success the result is Status(CheckPassed).
func Validate(buf, pattern []byte, offset int) Result {
	if len(buf) == 0 {
		return Failure(EmptyOrInvalidRange)
	}
	if offset < 0 || offset >= len(buf) {
		return Failure(OffsetOutOfRange)
	}
	window := len(buf)
	if offset > 0 {
		window = offset
	}
	if len(pattern) == 0 || len(pattern) > window {
		return Failure(PatternSizeOutOfRange)
	}
	return Status(CheckPassed)
}

// window returns the searchable prefix of buf. It does not validate offset:
// a negative offset yields nil and an offset past the end clamps to buf.
func window(buf []byte, offset int) []byte {
	switch {
	case offset < 0:
		return nil
	case offset == 0 || offset > len(buf):
		return buf
	default:
		return buf[:offset]
	}
}

// Search returns At(i) for the first literal occurrence of pattern in the
// window [0, offset) of buf, or in all of buf when offset is zero. It returns
// Status(NotFound) when there is no occurrence, including for an empty
// pattern or a negative offset.
func Search(buf, pattern []byte, offset int) Result {
	w := window(buf, offset)
	if len(pattern) == 0 || len(pattern) > len(w) {
		return Status(NotFound)
	}
	i := bytes.Index(w, pattern)
	if i < 0 {
		return Status(NotFound)
	}
	return At(i)
}

// SaveFunc receives the searched buffer and the window length after a
// successful search.
type SaveFunc func(buf []byte, windowLen int)

// SearchFunc is Search with a side effect: on a match, save is called with
// buf and the window length before the match is returned.
func SearchFunc(buf, pattern []byte, offset int, save SaveFunc) Result {
	res := Search(buf, pattern, offset)
	if res.Matched() && save != nil {
		save(buf, len(window(buf, offset)))
	}
	return res
}

// Contains reports presence as Status(Found) or Status(NotFound).
func Contains(buf, pattern []byte, offset int) Result {
	if Search(buf, pattern, offset).Matched() {
		return Status(Found)
	}
	return Status(NotFound)
}

// All calls fn for every occurrence of pattern in the window, in ascending
// order, until fn returns false. Occurrences may overlap when step is 1;
// with step == len(pattern) they do not.
func All(buf, pattern []byte, offset, step int, fn func(at int) bool) {
	w := window(buf, offset)
	if len(pattern) == 0 || step <= 0 {
		return
	}
	for pos := 0; pos+len(pattern) <= len(w); {
		res := Search(w[pos:], pattern, 0)
		at, ok := res.Offset()
		if !ok {
			return
		}
		if !fn(pos + at) {
			return
		}
		pos += at + step
	}
}
