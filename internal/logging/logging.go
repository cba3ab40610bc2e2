// Package logging builds the zerolog loggers used across stocksearch.
//
// The terminal UI owns stdout and stderr while it runs, so interactive
// sessions log to a file. One-shot commands and the server may log to
// stderr instead.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config describes where and how to log
type Config struct {
	Level  string
	Format string // "console" or "json"
	File   string // empty logs to the fallback writer
}

// Result is a configured logger plus the file handle it may own
type Result struct {
	Logger    zerolog.Logger
	FilePath  string
	UsingFile bool
	file      *os.File
}

// Close releases the log file, if any
func (r *Result) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// New builds a logger from cfg. When cfg.File cannot be opened the logger
// falls back to the given writer and reports why through the returned error,
// which callers treat as a warning.
func New(cfg Config, fallback io.Writer) (*Result, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	out := fallback
	res := &Result{}
	var openErr error
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			openErr = fmt.Errorf("create log directory: %w", err)
		} else if f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600); err != nil {
			openErr = fmt.Errorf("open log file: %w", err)
		} else {
			out = f
			res.file = f
			res.FilePath = cfg.File
			res.UsingFile = true
		}
	}

	if !strings.EqualFold(cfg.Format, "json") {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    res.UsingFile,
		}
	}

	res.Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
	return res, openErr
}

// Component returns a sub-logger tagged with the component name
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

type requestIDKey struct{}

// RequestIDHeader carries the request ID across the HTTP boundary
const RequestIDHeader = "X-Request-ID"

// NewRequestID returns a fresh request ID
func NewRequestID() string {
	return uuid.NewString()
}

// ContextWithRequestID stores a request ID in ctx
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the stored request ID, or a new one
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return NewRequestID()
}

// ValidRequestID reports whether id looks like one of ours
func ValidRequestID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
