package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/puzzle"
	"github.com/hupe1980/puzzle/blobstore"
	"github.com/hupe1980/puzzle/codec"
	"github.com/hupe1980/puzzle/internal/compress"
	puzzlefs "github.com/hupe1980/puzzle/internal/fs"
)

// ErrPartialBatch is returned when some inputs were skipped.
var ErrPartialBatch = errors.New("some images could not be processed")

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// batchOptions holds the parsed batch flags.
type batchOptions struct {
	prefix      string
	bundle      string
	storeSigs   bool
	workers     int
	compression compress.Algorithm
	recursive   bool
}

func (a *app) cmdBatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	fs.SetOutput(a.stderr)

	prefix := fs.String("prefix", "sigs", "blob key prefix for packed signatures")
	bundle := fs.String("bundle", "", "write the JSON lines bundle to this blob key instead of stdout")
	storeSigs := fs.Bool("store", true, "store each packed signature in the blob store")
	workers := fs.Int("workers", a.cfg.Workers, "number of parallel extractions")
	comp := fs.String("compression", a.cfg.Compression, "bundle compression: none, lz4 or zstd")
	recursive := fs.Bool("r", false, "descend into subdirectories")

	if err := fs.Parse(args); err != nil {
		return usagef("%v", err)
	}

	if fs.NArg() == 0 {
		return usagef("batch needs at least one file or directory")
	}

	if *workers <= 0 {
		return usagef("workers must be positive")
	}

	alg, err := compress.Parse(*comp)
	if err != nil {
		return usagef("%v", err)
	}

	opts := batchOptions{
		prefix:      *prefix,
		bundle:      *bundle,
		storeSigs:   *storeSigs,
		workers:     *workers,
		compression: alg,
		recursive:   *recursive,
	}

	paths, err := collectInputs(fs.Args(), opts.recursive)
	if err != nil {
		return err
	}

	p, err := a.newPuzzle()
	if err != nil {
		return err
	}

	var store blobstore.BlobStore
	if opts.storeSigs || opts.bundle != "" {
		if store, err = a.blobs(ctx); err != nil {
			return err
		}
	}

	records, failed, err := a.runBatch(ctx, p, store, paths, opts)
	if err != nil {
		return err
	}

	if err := a.writeBundle(ctx, store, records, opts); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d failed", ErrPartialBatch, failed, len(paths))
	}

	return nil
}

// runBatch extracts every input in parallel. Unreadable and undecodable
// images are recorded and skipped; any other error aborts the batch.
func (a *app) runBatch(ctx context.Context, p *puzzle.Puzzle, store blobstore.BlobStore, paths []string, opts batchOptions) ([]codec.Record, int, error) {
	start := time.Now()
	records := make([]codec.Record, len(paths))

	var failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers)

	for i, path := range paths {
		g.Go(func() error {
			rec, err := a.processOne(gctx, p, store, path, opts)
			if err != nil {
				if !skippable(err) {
					return fmt.Errorf("%s: %w", path, err)
				}

				failed.Add(1)
				rec.Error = err.Error()
			}

			records[i] = rec

			return nil
		})
	}

	err := g.Wait()

	n := int(failed.Load())
	a.metrics.RecordBatch(len(paths), n, time.Since(start))
	a.logger.LogBatch(ctx, len(paths), n)

	if err != nil {
		return nil, n, err
	}

	return records, n, nil
}

func (a *app) processOne(ctx context.Context, p *puzzle.Puzzle, store blobstore.BlobStore, path string, opts batchOptions) (codec.Record, error) {
	rec := codec.Record{Source: path}

	sig, err := p.SignatureFromFile(ctx, path)
	if err != nil {
		return rec, err
	}

	packed, err := p.Pack(sig)
	if err != nil {
		return rec, err
	}

	rec.Length = len(sig)
	rec.Packed = packed

	if opts.storeSigs && store != nil {
		key := SignatureKey(opts.prefix, path)

		err := store.Put(ctx, key, packed)
		a.logger.WithSource(path).LogStore(ctx, key, len(packed), err)

		if err != nil {
			return rec, fmt.Errorf("put %s: %w", key, err)
		}

		rec.Key = key
	}

	return rec, nil
}

func skippable(err error) bool {
	var unreadable *puzzle.ErrUnreadableSource
	var unsupported *puzzle.ErrUnsupportedFormat

	return errors.As(err, &unreadable) || errors.As(err, &unsupported)
}

// SignatureKey derives the blob key of an image's packed signature.
func SignatureKey(prefix, path string) string {
	clean := filepath.ToSlash(filepath.Clean(path))
	clean = strings.TrimPrefix(clean, filepath.VolumeName(path))

	// Keep keys inside prefix.
	parts := strings.Split(clean, "/")
	parts = slices.DeleteFunc(parts, func(s string) bool { return s == ".." || s == "." })

	return blobstore.Key(prefix, strings.Join(parts, "/")+".sig")
}

func (a *app) writeBundle(ctx context.Context, store blobstore.BlobStore, records []codec.Record, opts batchOptions) error {
	if opts.bundle == "" {
		return codec.WriteRecords(a.stdout, a.codec, records...)
	}

	name := opts.bundle
	if ext := opts.compression.Extension(); ext != "" && !strings.HasSuffix(name, ext) {
		name += ext
	}

	w, err := store.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	cw, err := compress.NewWriter(w, opts.compression)
	if err != nil {
		_ = w.Close()
		return err
	}

	werr := codec.WriteRecords(cw, a.codec, records...)
	if cerr := cw.Close(); werr == nil {
		werr = cerr
	}
	if cerr := w.Close(); werr == nil {
		werr = cerr
	}

	a.logger.LogStore(ctx, name, len(records), werr)

	if werr != nil {
		return fmt.Errorf("write %s: %w", name, werr)
	}

	_, err = fmt.Fprintln(a.stdout, name)

	return err
}

// ReadBundle decodes a bundle written by batch, detecting its compression.
func ReadBundle(c codec.Codec, data []byte) ([]codec.Record, error) {
	r, err := compress.NewReader(bytes.NewReader(data), compress.Detect(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return codec.ReadRecords(r, c)
}

// collectInputs expands directories into the image files they contain.
func collectInputs(args []string, recursive bool) ([]string, error) {
	var paths []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			// Missing files are reported per record.
			paths = append(paths, arg)
			continue
		}

		files, err := puzzlefs.Files(puzzlefs.Default, arg, recursive)
		if err != nil {
			return nil, err
		}

		for _, p := range files {
			if slices.Contains(imageExtensions, strings.ToLower(filepath.Ext(p))) {
				paths = append(paths, p)
			}
		}
	}

	return paths, nil
}
