package grid

import "fmt"

// ErrUnreadable indicates that an image source could not be opened or read.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrUnreadable struct {
	Path string
	Err  error
}

func (e *ErrUnreadable) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fail to read file: %s", e.Path)
	}
	return fmt.Sprintf("fail to read file: %s: %v", e.Path, e.Err)
}

func (e *ErrUnreadable) Unwrap() error { return e.Err }

// ErrUnsupported indicates that a source is not a decodable image within
// the configured limits.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrUnsupported struct {
	Source string
	Reason string
	Err    error
}

func (e *ErrUnsupported) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unsupported image %s: %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("unsupported image %s: %s: %v", e.Source, e.Reason, e.Err)
}

func (e *ErrUnsupported) Unwrap() error { return e.Err }
