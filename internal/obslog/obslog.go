// Package obslog wraps a single process-wide zerolog.Logger for the
// engine's own operational logging: trigger lifecycle, permission prompts
// skipped in non-interactive mode, and generator task failures (SPEC_FULL.md
// §A). Script output (`print`, etc.) never goes through this package — it
// writes straight to stdout the way the teacher's CLI does.
package obslog

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = newDefault()
)

func newDefault() zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(w).With().Timestamp().Logger()
}

// SetLevel adjusts the minimum level the process-wide logger emits.
func SetLevel(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = logger.Level(level)
}

// SetOutput redirects the logger's writer, e.g. for capturing output in
// tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
}

func get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debug() *zerolog.Event { l := get(); return l.Debug() }
func Info() *zerolog.Event  { l := get(); return l.Info() }
func Warn() *zerolog.Event  { l := get(); return l.Warn() }
func Error() *zerolog.Event { l := get(); return l.Error() }
