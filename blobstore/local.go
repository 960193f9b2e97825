package blobstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/hupe1980/puzzle/internal/fs"
)

const tmpSuffix = ".tmp"

var tmpSeq atomic.Uint64

// LocalStore implements BlobStore on a directory tree. Blob names map to
// relative paths below the root.
type LocalStore struct {
	root string
	fs   fs.FileSystem
}

// NewLocalStore creates a LocalStore rooted at the given directory.
func NewLocalStore(root string) *LocalStore {
	return NewLocalStoreFS(root, fs.Default)
}

// NewLocalStoreFS creates a LocalStore that performs I/O through fsys.
func NewLocalStoreFS(root string, fsys fs.FileSystem) *LocalStore {
	return &LocalStore{root: root, fs: fsys}
}

// Root returns the directory the store writes to.
func (s *LocalStore) Root() string { return s.root }

// path maps a blob name to a file below root. Names cannot escape the root.
func (s *LocalStore) path(name string) (string, error) {
	clean := path.Clean("/" + filepath.ToSlash(name))
	if clean == "/" || strings.HasSuffix(clean, tmpSuffix) {
		return "", fmt.Errorf("blobstore: invalid blob name %q", name)
	}

	return filepath.Join(s.root, filepath.FromSlash(clean[1:])), nil
}

// Get reads the whole blob.
func (s *LocalStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := s.path(name)
	if err != nil {
		return nil, err
	}

	return fs.ReadFile(s.fs, p)
}

// Put writes data to a temporary file and renames it into place.
func (s *LocalStore) Put(ctx context.Context, name string, data []byte) error {
	w, err := s.Create(ctx, name)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		_ = w.(*localWritableBlob).abort()
		return err
	}

	return w.Close()
}

// Create opens a temporary file next to the final path. Close syncs and
// renames it into place.
func (s *LocalStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := s.path(name)
	if err != nil {
		return nil, err
	}

	if err := s.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, err
	}

	tmp := p + "." + strconv.FormatUint(tmpSeq.Add(1), 10) + tmpSuffix

	f, err := s.fs.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}

	return &localWritableBlob{fs: s.fs, f: f, tmp: tmp, final: p}, nil
}

// Delete removes a blob. Missing blobs are ignored.
func (s *LocalStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p, err := s.path(name)
	if err != nil {
		return err
	}

	if err := s.fs.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}

// List walks the tree below root and returns every blob name starting with
// prefix. In-flight temporary files are skipped.
func (s *LocalStore) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string

	if err := s.walk(ctx, "", prefix, &names); err != nil {
		return nil, err
	}

	slices.Sort(names)

	return names, nil
}

func (s *LocalStore) walk(ctx context.Context, dir, prefix string, names *[]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := s.fs.ReadDir(filepath.Join(s.root, filepath.FromSlash(dir)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return err
	}

	for _, e := range entries {
		name := e.Name()
		if dir != "" {
			name = dir + "/" + name
		}

		if e.IsDir() {
			// Only descend where the prefix can still match.
			if strings.HasPrefix(name+"/", prefix) || strings.HasPrefix(prefix, name+"/") {
				if err := s.walk(ctx, name, prefix, names); err != nil {
					return err
				}
			}

			continue
		}

		if strings.HasSuffix(name, tmpSuffix) || !strings.HasPrefix(name, prefix) {
			continue
		}

		*names = append(*names, name)
	}

	return nil
}

type localWritableBlob struct {
	fs     fs.FileSystem
	f      fs.File
	tmp    string
	final  string
	closed bool
}

func (w *localWritableBlob) Write(p []byte) (int, error) {
	if w.closed {
		return 0, errClosed
	}

	return w.f.Write(p)
}

func (w *localWritableBlob) Sync() error {
	if w.closed {
		return errClosed
	}

	return w.f.Sync()
}

func (w *localWritableBlob) Close() error {
	if w.closed {
		return nil
	}

	if err := w.f.Sync(); err != nil {
		_ = w.abort()
		return err
	}

	w.closed = true

	if err := w.f.Close(); err != nil {
		_ = w.fs.Remove(w.tmp)
		return err
	}

	if err := w.fs.Rename(w.tmp, w.final); err != nil {
		_ = w.fs.Remove(w.tmp)
		return err
	}

	return nil
}

func (w *localWritableBlob) abort() error {
	if w.closed {
		return nil
	}

	w.closed = true
	_ = w.f.Close()

	return w.fs.Remove(w.tmp)
}
