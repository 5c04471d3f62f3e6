// Package logger implements a logging adapter using charmbracelet/log.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"go.trai.ch/ship/internal/core/ports"
)

// Logger implements ports.Logger using charmbracelet/log.
type Logger struct {
	logger *log.Logger
}

// New creates a new Logger writing to stderr, so stdout stays free for command output.
func New() ports.Logger {
	return NewWithWriter(os.Stderr)
}

// NewWithWriter creates a new Logger writing to w.
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{
		logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           log.InfoLevel,
		}),
	}
}

// SetOutput updates the logger's output destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.logger.SetOutput(w)
}

// SetVerbose switches between debug and info level.
func (l *Logger) SetVerbose(verbose bool) {
	if verbose {
		l.logger.SetLevel(log.DebugLevel)
		return
	}
	l.logger.SetLevel(log.InfoLevel)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, keyvals ...any) {
	l.logger.Debug(msg, keyvals...)
}

// Info logs an informational message.
func (l *Logger) Info(msg string, keyvals ...any) {
	l.logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, keyvals ...any) {
	l.logger.Warn(msg, keyvals...)
}

// Error logs an error.
func (l *Logger) Error(err error, keyvals ...any) {
	l.logger.Error("operation failed", append([]any{"err", err}, keyvals...)...)
}
