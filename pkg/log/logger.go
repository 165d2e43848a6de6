// Package log provides structured logging setup for the face
// recognition pipeline, built on log/slog with JSON output and
// stacktrace extraction for wrapped errors.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// SetupLogger configures the default slog logger with JSON output at
// the given level. Verbose per-image recognition traces are logged at
// debug level.
func SetupLogger(loglevel string) {
	SetupLoggerWithWriter(loglevel, os.Stderr)
}

// SetupLoggerWithWriter configures the default slog logger writing to w.
func SetupLoggerWithWriter(loglevel string, w io.Writer) {
	ops := slog.HandlerOptions{
		Level: ToLogLevel(loglevel),
	}
	handler := slog.NewJSONHandler(w, &ops)
	errFmtHandler := WrapByErrFmtHandler(handler)
	slog.SetDefault(slog.New(errFmtHandler))
}

// ToLogLevel maps a level name to a slog.Level.
func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
