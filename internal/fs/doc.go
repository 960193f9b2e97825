// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: an open file with read/write/sync capabilities
//   - [FileSystem]: the operations used to read source images and to store
//     packed signatures on local disk
//
// # Implementations
//
//   - [LocalFS]: production implementation using the standard os package
//   - [FaultyFS]: test utility that injects open, read, write, sync, close
//     and rename failures by file name pattern
//
// Tests can inject [FaultyFS] to simulate unreadable sources:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("broken.png", fs.Fault{FailOnOpen: true, FailAfterRead: -1, FailAfterWrite: -1})
//
// Filesystem calls take no context.Context; slow remote backends live in
// package blobstore, which does.
package fs
