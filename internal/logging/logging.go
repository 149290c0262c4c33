// Package logging constructs the service logger.
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a zerolog logger at the given level, tagged with the
// service name. Unknown levels fall back to info.
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().
		Str("service", "callsheet").
		Timestamp().
		Logger()
}
