package console

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger creates the diagnostic logger. Only warnings and errors are
// shown unless debug is set.
func NewLogger(w io.Writer, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "fable",
		ReportTimestamp: true,
		Level:           log.WarnLevel,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
