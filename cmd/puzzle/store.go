package main

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/hupe1980/puzzle/blobstore"
	"github.com/hupe1980/puzzle/blobstore/minio"
	"github.com/hupe1980/puzzle/blobstore/s3"
)

// OpenStore opens the blob store selected by cfg.Store.
func OpenStore(ctx context.Context, cfg *Config) (blobstore.BlobStore, error) {
	switch cfg.Store {
	case "local":
		return blobstore.NewLocalStore(cfg.StoreRoot), nil
	case "memory":
		return blobstore.NewMemoryStore(), nil
	case "s3":
		opts := []s3.Option{s3.WithPrefix(cfg.Prefix)}
		if cfg.Region != "" {
			opts = append(opts, s3.WithRegion(cfg.Region))
		}
		if cfg.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(cfg.Endpoint))
		}

		return s3.New(ctx, cfg.Bucket, opts...)
	case "minio":
		return minio.Dial(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, cfg.Secure, cfg.Bucket, cfg.Prefix)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStore, cfg.Store)
	}
}

// NewUploadLimiter returns the limiter applied to blob store writes.
func NewUploadLimiter(cfg *Config) *rate.Limiter {
	if cfg.UploadRPS <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}

	burst := cfg.UploadBurst
	if burst <= 0 {
		burst = max(1, int(cfg.UploadRPS+0.999))
	}

	return rate.NewLimiter(rate.Limit(cfg.UploadRPS), burst)
}

// limitedStore delays writes with a token bucket.
type limitedStore struct {
	blobstore.BlobStore
	limiter *rate.Limiter
}

func (s *limitedStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	return s.BlobStore.Put(ctx, name, data)
}

func (s *limitedStore) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	return s.BlobStore.Create(ctx, name)
}

// WithLimiter wraps store so that Put and Create wait on limiter.
func WithLimiter(store blobstore.BlobStore, limiter *rate.Limiter) blobstore.BlobStore {
	if limiter == nil || limiter.Limit() == rate.Inf {
		return store
	}

	return &limitedStore{BlobStore: store, limiter: limiter}
}
