package commands

import (
	"io"

	"github.com/charmbracelet/log"
)

// newLogger creates the stderr logger. Only warnings are shown unless
// verbose is set.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "ziplog",
	})
}
