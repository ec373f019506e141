// Package mmap maps input files read-only so a whole capture or disk image
// can be scanned as one in-memory buffer without copying it onto the heap.
//
//	m, err := mmap.Open("capture.bin")
//	if err != nil { ... }
//	defer m.Close()
//	buf := m.Bytes()
//
// On unix the file is mapped with mmap(2) and access hints go through
// madvise(2). Elsewhere the file is read into memory and hints are no-ops.
//
// The slice returned by Bytes is valid until Close. Close is idempotent.
package mmap
