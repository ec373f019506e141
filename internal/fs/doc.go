// Package fs abstracts the filesystem calls made by blobstore.LocalStore so
// that tests can inject I/O failures.
//
//   - [LocalFS] delegates to the os package and is the default.
//   - [FaultyFS] wraps another FileSystem and fails opens, writes, syncs or
//     closes of files whose path matches a rule.
//
// Usage in tests:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".sig", fs.Fault{FailAfterBytes: 16})
//	store := blobstore.NewLocalStore(dir, blobstore.WithFileSystem(ffs))
//
// Calls take no context.Context. Local file operations cannot be interrupted
// at the syscall level; remote sinks live behind blobstore.Store which does
// take a context.
package fs
