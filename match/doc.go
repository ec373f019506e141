// Package match implements bounded literal signature search over an
// in-memory buffer.
//
// Three pieces cooperate:
//
//   - [Validate] rejects malformed search requests before any search runs.
//   - [Search] finds the first literal occurrence of a pattern in a window.
//   - [ForEachValid] walks a signature catalog, validates every entry and
//     hands the valid ones to a caller-supplied action.
//
// All operations return a [Result], a tagged value holding exactly one of an
// error kind, a state, or a match offset.
//
// Search never reports the validation taxonomy. On malformed input it
// degrades to NotFound, so untrusted requests should go through Validate
// first (ForEachValid does this).
package match
