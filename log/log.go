package log

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Log wraps a zerolog.Logger with application defaults applied.
type Log struct {
	zerolog.Logger
}

// New builds the root logger. Level falls back to info when unparseable.
// Pretty enables human-readable console output for local runs.
func New(level string, pretty bool) Log {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}

	logger = logger.Level(lvl).With().Timestamp().Logger()
	return Log{Logger: logger}
}
