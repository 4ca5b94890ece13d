// Package logger provides the logging facility shared by agents, apps and
// the matrix runner. Lines are prefixed with their level name (for example
// "INFO: staging inputs"); debug, info and progress lines go to stdout,
// warnings and errors to stderr, so that host environments capturing the
// two streams separately see diagnostics where they expect them.
package logger

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log level names accepted by SetLevel.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Logger writes level-prefixed lines to an output and an error stream.
type Logger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

// New creates a Logger writing informational lines to out and
// warnings/errors to errOut.
func New(out, errOut io.Writer) *Logger {
	level := zap.NewAtomicLevelAt(zapcore.DebugLevel)

	// The prefix carries the level, so the encoder emits the message only.
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey: "message",
		LineEnding: zapcore.DefaultLineEnding,
	})

	outCore := zapcore.NewCore(enc, zapcore.AddSync(out), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return level.Enabled(l) && l < zapcore.WarnLevel
	}))
	errCore := zapcore.NewCore(enc, zapcore.AddSync(errOut), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return level.Enabled(l) && l >= zapcore.WarnLevel
	}))

	return &Logger{
		sugar: zap.New(zapcore.NewTee(outCore, errCore)).Sugar(),
		level: level,
	}
}

// SetLevel sets the minimum level this logger emits. Unrecognized names
// fall back to info.
func (l *Logger) SetLevel(name string) {
	switch name {
	case LevelDebug:
		l.level.SetLevel(zapcore.DebugLevel)
	case LevelInfo:
		l.level.SetLevel(zapcore.InfoLevel)
	case LevelWarn:
		l.level.SetLevel(zapcore.WarnLevel)
	case LevelError:
		l.level.SetLevel(zapcore.ErrorLevel)
	default:
		l.level.SetLevel(zapcore.InfoLevel)
	}
}

// Debugf logs a DEBUG line. Arguments are handled in the manner of fmt.Printf.
func (l *Logger) Debugf(format string, args ...any) {
	l.sugar.Debugf("DEBUG: "+format, args...)
}

// Infof logs an INFO line. Arguments are handled in the manner of fmt.Printf.
func (l *Logger) Infof(format string, args ...any) {
	l.sugar.Infof("INFO: "+format, args...)
}

// Warnf logs a WARNING line. Arguments are handled in the manner of fmt.Printf.
func (l *Logger) Warnf(format string, args ...any) {
	l.sugar.Warnf("WARNING: "+format, args...)
}

// Errorf logs an ERROR line. Arguments are handled in the manner of fmt.Printf.
func (l *Logger) Errorf(format string, args ...any) {
	l.sugar.Errorf("ERROR: "+format, args...)
}

// Fatalf logs a FATAL line. Unlike zap's Fatal it does not exit the
// process: agents report fatal conditions through error returns and the
// host environment decides what to do with the cell or run.
func (l *Logger) Fatalf(format string, args ...any) {
	l.sugar.Errorf("FATAL: "+format, args...)
}

// ProgressOption customizes a Progress line.
type ProgressOption func(*progressEvent)

type progressEvent struct {
	status     string
	taskID     int
	total      int
	completion bool
}

// WithStatus appends a task status, rendering "msg - RUNNING".
func WithStatus(status string) ProgressOption {
	return func(e *progressEvent) { e.status = status }
}

// WithCompletion appends a completion counter, rendering "msg (2/5)".
func WithCompletion(taskID, total int) ProgressOption {
	return func(e *progressEvent) {
		e.taskID = taskID
		e.total = total
		e.completion = true
	}
}

// Progress logs a PROGRESS line reporting task advancement.
func (l *Logger) Progress(message string, opts ...ProgressOption) {
	var e progressEvent
	for _, opt := range opts {
		opt(&e)
	}
	switch {
	case e.status != "":
		l.sugar.Infof("PROGRESS: %s - %s", message, e.status)
	case e.completion:
		l.sugar.Infof("PROGRESS: %s (%d/%d)", message, e.taskID, e.total)
	default:
		l.sugar.Info(fmt.Sprintf("PROGRESS: %s", message))
	}
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

// Default is the package-level logger. Replace it to redirect all library
// logging, for example in tests.
var Default = New(os.Stdout, os.Stderr)

// SetLevel sets the level of the default logger.
func SetLevel(name string) { Default.SetLevel(name) }

// Debugf logs a DEBUG line to the default logger.
func Debugf(format string, args ...any) { Default.Debugf(format, args...) }

// Infof logs an INFO line to the default logger.
func Infof(format string, args ...any) { Default.Infof(format, args...) }

// Warnf logs a WARNING line to the default logger.
func Warnf(format string, args ...any) { Default.Warnf(format, args...) }

// Errorf logs an ERROR line to the default logger.
func Errorf(format string, args ...any) { Default.Errorf(format, args...) }

// Fatalf logs a FATAL line to the default logger without exiting.
func Fatalf(format string, args ...any) { Default.Fatalf(format, args...) }

// Progress logs a PROGRESS line to the default logger.
func Progress(message string, opts ...ProgressOption) { Default.Progress(message, opts...) }
