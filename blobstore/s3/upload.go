package s3

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/klauspost/crc32"

	"github.com/hupe1980/puzzle/blobstore"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// UploadConfig configures object uploads.
type UploadConfig struct {
	// PartSize is the multipart part size used by Create. Values below the
	// S3 minimum of 5MB keep the SDK default.
	PartSize int64

	// Concurrency is the number of parts uploaded in parallel by Create.
	Concurrency int

	// EnableChecksum attaches CRC32C checksums to every upload.
	EnableChecksum bool

	// LeavePartsOnError keeps uploaded parts when a multipart upload fails.
	LeavePartsOnError bool
}

// DefaultUploadConfig returns 8MB parts, 5 concurrent uploads and checksums on.
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		PartSize:       8 << 20,
		Concurrency:    5,
		EnableChecksum: true,
	}
}

func newUploader(client Client, cfg UploadConfig) *manager.Uploader {
	return manager.NewUploader(client, func(u *manager.Uploader) {
		if cfg.PartSize >= manager.MinUploadPartSize {
			u.PartSize = cfg.PartSize
		}

		if cfg.Concurrency > 0 {
			u.Concurrency = cfg.Concurrency
		}

		u.LeavePartsOnError = cfg.LeavePartsOnError
	})
}

// computeCRC32C returns the CRC32C checksum of data in the base64 big-endian
// form S3 expects.
func computeCRC32C(data []byte) string {
	sum := crc32.Checksum(data, castagnoli)
	b := []byte{byte(sum >> 24), byte(sum >> 16), byte(sum >> 8), byte(sum)}

	return base64.StdEncoding.EncodeToString(b)
}

// putInput builds a single-request upload of data.
func (s *Store) putInput(name string, data []byte) *s3.PutObjectInput {
	key := s.key(name)

	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(blobstore.ContentType(key)),
	}

	if s.cfg.EnableChecksum {
		in.ChecksumCRC32C = aws.String(computeCRC32C(data))
	}

	return in
}

// uploadWriter streams writes through a pipe into a background manager
// upload. The object exists only after Close returns nil.
type uploadWriter struct {
	pw   *io.PipeWriter
	done chan error

	once sync.Once
	err  error
}

func (s *Store) newUploadWriter(ctx context.Context, name string) *uploadWriter {
	pr, pw := io.Pipe()
	key := s.key(name)

	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        pr,
		ContentType: aws.String(blobstore.ContentType(key)),
	}

	if s.cfg.EnableChecksum {
		in.ChecksumAlgorithm = types.ChecksumAlgorithmCrc32c
	}

	w := &uploadWriter{pw: pw, done: make(chan error, 1)}

	go func() {
		_, err := s.uploader.Upload(ctx, in)
		// Unblock pending writers.
		_ = pr.CloseWithError(err)
		w.done <- err
	}()

	return w
}

func (w *uploadWriter) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

// Close finishes the upload and waits for its result. Later calls return
// the same error.
func (w *uploadWriter) Close() error {
	w.once.Do(func() {
		if err := w.pw.Close(); err != nil {
			w.err = err
			return
		}

		w.err = <-w.done
	})

	return w.err
}

// Sync is a no-op. Data is committed on Close.
func (w *uploadWriter) Sync() error { return nil }
