package renom

import (
	"io"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "15:04:05.000"

// NewLogger returns the verbose logger. Without verbose it discards
// everything.
func NewLogger(w io.Writer, verbose bool) zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat, NoColor: !isTerminal(w)}
	return zerolog.New(cw).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}
