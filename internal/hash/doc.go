// Package hash computes CRC32-Castagnoli checksums of output streams.
//
// Go's crc32 package uses SSE4.2 or the ARM CRC extension when available.
//
//	w := hash.NewWriter(blob)
//	record.Write(w, payload, record.Short)
//	sum := w.Sum32()
package hash
