// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("signatures/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	err = store.Put(ctx, "cat.jpg.sig", packed)
//
// # Features
//
//   - CRC32C integrity checksums on single shot puts
//   - Streaming multipart uploads for batch bundles
//   - Automatic pagination for listing
//   - Configurable prefix and endpoint for S3 compatible servers
package s3
