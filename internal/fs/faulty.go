package fs

import (
	"errors"
	"os"
	"strings"
	"sync"
)

// errInjected is used when a Fault carries no explicit error.
var errInjected = errors.New("injected fault error")

// Fault defines specific failure behavior for files whose name contains a pattern.
type Fault struct {
	FailOnOpen     bool  // Open/OpenFile return Err.
	FailAfterRead  int64 // Reads fail once this many bytes were read from the file. -1 disables.
	FailAfterWrite int64 // Writes fail once this many bytes were written to the file. -1 disables.
	FailOnSync     bool
	FailOnClose    bool
	FailOnRename   bool
	Err            error
}

func (f Fault) err() error {
	if f.Err != nil {
		return f.Err
	}
	return errInjected
}

// NoFault is a Fault that never triggers.
var NoFault = Fault{FailAfterRead: -1, FailAfterWrite: -1}

// FaultyFS is a FileSystem wrapper that injects errors by file name pattern.
type FaultyFS struct {
	FS    FileSystem
	mu    sync.Mutex
	rules map[string]Fault
}

// NewFaultyFS creates a new FaultyFS wrapping the provided FS (or Default if nil).
func NewFaultyFS(fs FileSystem) *FaultyFS {
	if fs == nil {
		fs = Default
	}
	return &FaultyFS{
		FS:    fs,
		rules: make(map[string]Fault),
	}
}

// AddRule adds a fault injection rule for names containing pattern.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

func (f *FaultyFS) match(name string) Fault {
	f.mu.Lock()
	defer f.mu.Unlock()
	fault := NoFault
	for pattern, rule := range f.rules {
		if strings.Contains(name, pattern) {
			fault = rule
		}
	}
	return fault
}

func (f *FaultyFS) Open(name string) (File, error) {
	fault := f.match(name)
	if fault.FailOnOpen {
		return nil, &os.PathError{Op: "open", Path: name, Err: fault.err()}
	}
	file, err := f.FS.Open(name)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fault: fault}, nil
}

func (f *FaultyFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	fault := f.match(name)
	if fault.FailOnOpen {
		return nil, &os.PathError{Op: "open", Path: name, Err: fault.err()}
	}
	file, err := f.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fault: fault}, nil
}

func (f *FaultyFS) Remove(name string) error { return f.FS.Remove(name) }

func (f *FaultyFS) Rename(oldpath, newpath string) error {
	if f.match(newpath).FailOnRename {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: f.match(newpath).err()}
	}
	return f.FS.Rename(oldpath, newpath)
}

func (f *FaultyFS) Stat(name string) (os.FileInfo, error) { return f.FS.Stat(name) }

func (f *FaultyFS) MkdirAll(path string, perm os.FileMode) error {
	return f.FS.MkdirAll(path, perm)
}

func (f *FaultyFS) ReadDir(name string) ([]os.DirEntry, error) { return f.FS.ReadDir(name) }

type faultyFile struct {
	File
	fault   Fault
	read    int64
	written int64
}

func (ff *faultyFile) Read(p []byte) (int, error) {
	if ff.fault.FailAfterRead >= 0 {
		remaining := ff.fault.FailAfterRead - ff.read
		if remaining <= 0 {
			return 0, ff.fault.err()
		}
		if int64(len(p)) > remaining {
			p = p[:remaining]
		}
	}
	n, err := ff.File.Read(p)
	ff.read += int64(n)
	return n, err
}

func (ff *faultyFile) Write(p []byte) (int, error) {
	if ff.fault.FailAfterWrite >= 0 && ff.written+int64(len(p)) > ff.fault.FailAfterWrite {
		return 0, ff.fault.err()
	}
	n, err := ff.File.Write(p)
	ff.written += int64(n)
	return n, err
}

func (ff *faultyFile) Sync() error {
	if ff.fault.FailOnSync {
		return ff.fault.err()
	}
	return ff.File.Sync()
}

func (ff *faultyFile) Close() error {
	if ff.fault.FailOnClose {
		_ = ff.File.Close()
		return ff.fault.err()
	}
	return ff.File.Close()
}
