// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO and other S3-compatible servers such as Ceph,
// SeaweedFS and Garage, without pulling in the AWS SDK.
//
// # Basic Usage
//
//	store, err := minio.Dial("localhost:9000", "minioadmin", "minioadmin", false,
//	    "my-bucket", "signatures/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = store.Put(ctx, "cat.jpg.sig", packed)
//
// Use NewStore to wrap an already configured *minio.Client.
package minio
