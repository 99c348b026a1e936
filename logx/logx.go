// Package logx provides the standard logger implementation for alps-mcp.
//
// Log output must never reach stdout: stdout carries the JSON-RPC wire and a
// stray log line would corrupt it. Loggers here write to stderr, a file, or
// io.Discard.
package logx

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alpsio/alps-mcp/types"
)

// Logger implements types.Logger on top of log/slog.
type Logger struct {
	s *slog.Logger
}

// New creates a logger writing text-formatted records to w.
func New(w io.Writer, level slog.Level) *Logger {
	return &Logger{
		s: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})),
	}
}

// NewStderr creates a logger writing to stderr at info level.
func NewStderr() *Logger {
	return New(os.Stderr, slog.LevelInfo)
}

// NewDiscard creates a logger that drops everything. Used when no log file is
// configured and stderr must stay quiet.
func NewDiscard() *Logger {
	return New(io.Discard, slog.LevelInfo)
}

// NewFile creates a logger appending to the named file, creating parent
// directories as needed. On failure it falls back to a discarding logger so
// the server can still run.
func NewFile(path string) (*Logger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return NewDiscard(), fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return NewDiscard(), fmt.Errorf("failed to open log file: %w", err)
	}
	return New(f, slog.LevelDebug), nil
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.s.Debug(sprintf(msg, args...)) }
func (l *Logger) Info(msg string, args ...interface{})  { l.s.Info(sprintf(msg, args...)) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.s.Warn(sprintf(msg, args...)) }
func (l *Logger) Error(msg string, args ...interface{}) { l.s.Error(sprintf(msg, args...)) }

func sprintf(msg string, args ...interface{}) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

var _ types.Logger = (*Logger)(nil)
