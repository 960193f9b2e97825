package puzzle

import (
	"errors"
	"fmt"

	"github.com/hupe1980/puzzle/codec"
	"github.com/hupe1980/puzzle/cvec"
	"github.com/hupe1980/puzzle/distance"
	"github.com/hupe1980/puzzle/grid"
	"github.com/hupe1980/puzzle/signature"
)

var (
	// ErrInvalidConfig is returned by New when options are inconsistent.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ErrUnreadableSource indicates that an image source is missing or could
// not be read. Callers may retry or skip it.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrUnreadableSource struct {
	Path   string
	Reason string
	cause  error
}

func (e *ErrUnreadableSource) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("fail to read file: %s", e.Path)
	}
	return fmt.Sprintf("fail to read file: %s: %s", e.Path, e.Reason)
}

func (e *ErrUnreadableSource) Unwrap() error { return e.cause }

// ErrUnsupportedFormat indicates that a source is not a decodable image.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrUnsupportedFormat struct {
	Source string
	Reason string
	cause  error
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported format: %s: %s", e.Source, e.Reason)
}

func (e *ErrUnsupportedFormat) Unwrap() error { return e.cause }

// ErrInvalidInput indicates a grid or signature that does not fit the
// configuration. It signals a programming error in the caller.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidInput struct {
	Expected int
	Actual   int
	Reason   string
	cause    error
}

func (e *ErrInvalidInput) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrInvalidInput) Unwrap() error { return e.cause }

// ErrDimensionMismatch indicates a comparison of signatures of different length.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrCorruptData indicates packed bytes that do not decode to a signature.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrCorruptData struct {
	Length int
	Reason string
	cause  error
}

func (e *ErrCorruptData) Error() string {
	return fmt.Sprintf("corrupt data (%d bytes): %s", e.Length, e.Reason)
}

func (e *ErrCorruptData) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Source failures.
	var ur *grid.ErrUnreadable
	if errors.As(err, &ur) {
		reason := ""
		if ur.Err != nil {
			reason = ur.Err.Error()
		}
		return &ErrUnreadableSource{Path: ur.Path, Reason: reason, cause: err}
	}
	var us *grid.ErrUnsupported
	if errors.As(err, &us) {
		reason := us.Reason
		if us.Err != nil {
			reason = fmt.Sprintf("%s: %v", us.Reason, us.Err)
		}
		return &ErrUnsupportedFormat{Source: us.Source, Reason: reason, cause: err}
	}

	// Argument normalization.
	var ig *signature.ErrInvalidGrid
	if errors.As(err, &ig) {
		return &ErrInvalidInput{Expected: ig.Expected, Actual: ig.Actual, Reason: ig.Error(), cause: err}
	}
	var sl *codec.ErrSignatureLength
	if errors.As(err, &sl) {
		return &ErrInvalidInput{Expected: sl.Expected, Actual: sl.Actual, Reason: sl.Error(), cause: err}
	}
	var is *codec.ErrInvalidSymbol
	if errors.As(err, &is) {
		return &ErrInvalidInput{Expected: int(cvec.MaxSymbol), Actual: int(is.Symbol), Reason: is.Error(), cause: err}
	}
	var lm *distance.ErrLengthMismatch
	if errors.As(err, &lm) {
		return &ErrDimensionMismatch{Expected: lm.Expected, Actual: lm.Actual, cause: err}
	}

	// Decoding.
	var cd *codec.ErrCorrupt
	if errors.As(err, &cd) {
		return &ErrCorruptData{Length: cd.Length, Reason: cd.Reason, cause: err}
	}

	return err
}
