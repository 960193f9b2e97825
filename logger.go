package puzzle

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// LogFormat selects the slog handler used by NewWriterLogger.
type LogFormat int

const (
	LogText LogFormat = iota
	LogJSON
)

// Logger wraps slog.Logger with the field names used across extraction,
// comparison and storage events.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger from handler. A nil handler logs text at info
// level to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		return NewWriterLogger(os.Stderr, LogText, slog.LevelInfo)
	}

	return &Logger{Logger: slog.New(handler)}
}

// NewWriterLogger creates a Logger writing records of the given format to w.
func NewWriterLogger(w io.Writer, format LogFormat, level slog.Leveler) *Logger {
	opts := &slog.HandlerOptions{Level: level}

	if format == LogJSON {
		return NewLogger(slog.NewJSONHandler(w, opts))
	}

	return NewLogger(slog.NewTextHandler(w, opts))
}

// NewJSONLogger logs JSON to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewWriterLogger(os.Stderr, LogJSON, level)
}

// NewTextLogger logs human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewWriterLogger(os.Stderr, LogText, level)
}

// NoopLogger discards everything.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithSource returns a child logger tagged with an image source.
func (l *Logger) WithSource(source string) *Logger {
	return &Logger{Logger: l.Logger.With("source", source)}
}

// result logs msg+" completed" at debug level, or msg+" failed" at failLevel
// with the error attached.
func (l *Logger) result(ctx context.Context, failLevel slog.Level, msg string, err error, args ...any) {
	if err != nil {
		l.Log(ctx, failLevel, msg+" failed", append(args, "error", err)...)
		return
	}

	l.DebugContext(ctx, msg+" completed", args...)
}

// LogExtract logs a signature extraction.
func (l *Logger) LogExtract(ctx context.Context, source string, length int, err error) {
	if err != nil {
		l.result(ctx, slog.LevelError, "extract", err, "source", source)
		return
	}

	l.result(ctx, slog.LevelError, "extract", nil, "source", source, "length", length)
}

// LogCompare logs a signature comparison.
func (l *Logger) LogCompare(ctx context.Context, metric string, dist float64, err error) {
	if err != nil {
		l.result(ctx, slog.LevelError, "compare", err, "metric", metric)
		return
	}

	l.result(ctx, slog.LevelError, "compare", nil, "metric", metric, "distance", dist)
}

// LogUnpack logs a decode of packed bytes. Corrupt input logs at warn level.
func (l *Logger) LogUnpack(ctx context.Context, size int, err error) {
	l.result(ctx, slog.LevelWarn, "unpack", err, "bytes", size)
}

// LogStore logs a blob store write.
func (l *Logger) LogStore(ctx context.Context, key string, size int, err error) {
	if err != nil {
		l.result(ctx, slog.LevelError, "store", err, "key", key)
		return
	}

	l.result(ctx, slog.LevelError, "store", nil, "key", key, "bytes", size)
}

// LogBatch logs the summary of a batch extraction.
func (l *Logger) LogBatch(ctx context.Context, count, failed int) {
	if failed == 0 {
		l.InfoContext(ctx, "batch completed", "count", count)
		return
	}

	l.WarnContext(ctx, "batch completed with failures",
		"total", count,
		"failed", failed,
		"success", count-failed,
	)
}
