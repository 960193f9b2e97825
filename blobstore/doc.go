// Package blobstore provides the storage abstraction used to persist packed
// signatures and batch bundles.
//
// A BlobStore holds named, immutable byte blobs. Names are slash separated
// keys such as "sigs/cat.jpg.sig"; each backend maps them onto its own
// namespace (a directory tree, a bucket prefix).
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem with atomic temp+rename writes
//   - MemoryStore: in-process map, for tests and dry runs
//   - s3.Store: Amazon S3 with streaming multipart uploads
//   - minio.Store: any S3 compatible server through minio-go
//
// Missing blobs are reported with an error satisfying
// errors.Is(err, ErrNotFound).
package blobstore
