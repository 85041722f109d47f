package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu      sync.RWMutex
	verbose bool
	out     io.Writer = os.Stderr
	log               = newLogger(os.Stderr, false)
)

func newLogger(w io.Writer, v bool) zerolog.Logger {
	console := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		PartsOrder: []string{zerolog.MessageFieldName},
	}

	level := zerolog.InfoLevel
	if v {
		level = zerolog.DebugLevel
	}
	return zerolog.New(console).Level(level)
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// SetVerbose enables or disables verbose logging
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	log = newLogger(out, v)
}

// IsVerbose returns true if verbose logging is enabled
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects all log output (stderr by default)
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	log = newLogger(w, verbose)
}

// Debug prints debug messages only when verbose mode is enabled
func Debug(format string, args ...interface{}) {
	l := current()
	l.Debug().Msg("[DEBUG] " + fmt.Sprintf(format, args...))
}

// Info prints informational messages
func Info(format string, args ...interface{}) {
	l := current()
	l.Info().Msg(fmt.Sprintf(format, args...))
}

// Success prints success messages with checkmark
func Success(format string, args ...interface{}) {
	l := current()
	l.Info().Msg("✓ " + fmt.Sprintf(format, args...))
}

// Error prints error messages
func Error(format string, args ...interface{}) {
	l := current()
	l.Error().Msg("✗ " + fmt.Sprintf(format, args...))
}

// Warn prints warning messages
func Warn(format string, args ...interface{}) {
	l := current()
	l.Warn().Msg("⚠ " + fmt.Sprintf(format, args...))
}

// LeveledLogger is a key/value logger for libraries such as go-retryablehttp
type LeveledLogger struct{}

// Leveled returns a key/value adapter over the package logger
func Leveled() LeveledLogger {
	return LeveledLogger{}
}

func (LeveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l := current()
	l.Error().Fields(keysAndValues).Msg("✗ " + msg)
}

func (LeveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l := current()
	l.Warn().Fields(keysAndValues).Msg("⚠ " + msg)
}

func (LeveledLogger) Info(msg string, keysAndValues ...interface{}) {
	// Library chatter stays behind --verbose
	l := current()
	l.Debug().Fields(keysAndValues).Msg("[DEBUG] " + msg)
}

func (LeveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l := current()
	l.Debug().Fields(keysAndValues).Msg("[DEBUG] " + msg)
}
