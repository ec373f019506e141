// Package blobstore provides the sinks carved streams are written to.
//
// A Store hands out append-only writable blobs by name and reads finished
// blobs back. Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: files under a root directory
//   - MemoryStore: in-process map, for tests
//   - CompressedStore: wraps another Store with zstd or lz4 framing
//   - minio.Store: MinIO and other S3-compatible servers
//   - s3.Store: Amazon S3 with multipart streaming uploads
//
// # Create semantics
//
// Create fails with an error matching ErrExists when the name is already
// taken. The stream router relies on this to detect output-name collisions
// against files left by an earlier run.
package blobstore
