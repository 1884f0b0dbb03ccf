// Package telemetry provides the analyzer's structured logger. Parse,
// query-capture, and import-resolution failures are recovered locally
// and must carry enough structured context — file, language,
// component — for an operator to find them without re-running the
// analysis, which a bare fmt.Fprintf cannot express.
package telemetry

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log = newLogger(os.Stderr, "info")
)

func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Configure replaces the package logger's level. Called once at
// startup from the level resolved by internal/appconfig.
func Configure(level string) {
	mu.Lock()
	defer mu.Unlock()
	log = newLogger(os.Stderr, level)
}

// SetOutput redirects the logger's output, used by tests to assert on
// emitted warnings.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log = log.Output(w)
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Warn logs a recovered error at warning level with the file,
// language, and the component that recovered it. Any of the three may
// be empty when not applicable.
func Warn(component, file, language string, err error) {
	l := current()
	l.Warn().
		Str("component", component).
		Str("file", file).
		Str("language", language).
		Err(err).
		Msg("recovered error")
}

// Error logs a non-recoverable condition, e.g. a StateLoadError
// surfaced to the caller after being logged for diagnostics.
func Error(component string, err error) {
	l := current()
	l.Error().Str("component", component).Err(err).Msg("unrecoverable error")
}

// Debug logs a low-level diagnostic, e.g. a parse-cache hit/miss.
func Debug(component, msg string) {
	l := current()
	l.Debug().Str("component", component).Msg(msg)
}
