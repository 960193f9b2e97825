package fs

import (
	"io"
	"os"
	"path/filepath"
)

// File is an open source image or signature file.
type File interface {
	io.ReadWriteCloser
	Sync() error
	Stat() (os.FileInfo, error)
}

// FileSystem is the subset of os used by the normalizer and the local blob store.
type FileSystem interface {
	Open(name string) (File, error)
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
	Stat(name string) (os.FileInfo, error)
	ReadDir(name string) ([]os.DirEntry, error)
	MkdirAll(path string, perm os.FileMode) error
	Rename(oldpath, newpath string) error
	Remove(name string) error
}

// Default is the process file system.
var Default FileSystem = LocalFS{}

// LocalFS forwards every call to package os.
type LocalFS struct{}

func (LocalFS) Open(name string) (File, error) {
	return os.Open(name)
}

func (LocalFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	return os.OpenFile(name, flag, perm)
}

func (LocalFS) Stat(name string) (os.FileInfo, error)      { return os.Stat(name) }
func (LocalFS) ReadDir(name string) ([]os.DirEntry, error) { return os.ReadDir(name) }
func (LocalFS) Remove(name string) error                   { return os.Remove(name) }

func (LocalFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (LocalFS) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// ReadFile reads the whole named file through fsys.
func ReadFile(fsys FileSystem, name string) ([]byte, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return io.ReadAll(f)
}

// Files lists the regular files in dir. With recursive set, subdirectories
// are descended in ReadDir order. Returned paths are joined onto dir.
func Files(fsys FileSystem, dir string, recursive bool) ([]string, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		if !e.IsDir() {
			out = append(out, p)
			continue
		}

		if !recursive {
			continue
		}

		sub, err := Files(fsys, p, true)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}

	return out, nil
}
