// ABOUTME: Structured logger construction for salesquest.
// ABOUTME: Builds a zerolog.Logger on stderr so stdout stays free for command output and MCP.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Logger aliases zerolog.Logger so packages can depend on the logging contract.
type Logger = zerolog.Logger

// New returns a logger writing to w at the named level.
// Pretty selects the human-readable console writer.
func New(w io.Writer, level string, pretty bool) (Logger, error) {
	lvl := zerolog.WarnLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return zerolog.Nop()
}
