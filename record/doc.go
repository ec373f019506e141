// Package record implements the length-prefixed record format used for
// carved output streams.
//
// A stream is a plain concatenation of records:
//
//	[Size: Width bytes, little-endian] [Payload: Size bytes]
//
// Two widths exist. Short (2 bytes) is used for ".sig" streams and Long
// (4 bytes) for ".lsig" streams. A stream never mixes widths; the reader must
// know the width up front, usually from the file extension (see ForName).
//
// The size field is always little-endian so that files written on one
// platform decode on any other.
package record
