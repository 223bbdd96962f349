// Package logging builds the process logger. Output goes to stderr by default
// because stdout carries the stdio transport.
package logging

import (
	"bytes"
	"io"
	stdlog "log"
	"os"

	"github.com/charmbracelet/log"
)

// noise lists substrings of lines that are dropped before they reach the sink.
var noise = [][]byte{
	[]byte("Prompts not supported"),
}

// filterWriter filters log messages
type filterWriter struct {
	out io.Writer
}

func (w *filterWriter) Write(p []byte) (int, error) {
	for _, n := range noise {
		if bytes.Contains(p, n) {
			return len(p), nil
		}
	}

	return w.out.Write(p)
}

// New returns a logger at level writing to w (stderr when nil). An unknown
// level falls back to info.
func New(level string, w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}

	return log.NewWithOptions(&filterWriter{out: w}, log.Options{
		Level:           lvl,
		Prefix:          "weather-mcp",
		ReportTimestamp: true,
		ReportCaller:    lvl == log.DebugLevel,
	})
}

// Install makes logger the package default and routes the standard library
// logger through it.
func Install(logger *log.Logger) {
	log.SetDefault(logger)

	stdlog.SetFlags(0)
	stdlog.SetOutput(logger.StandardLog(log.StandardLogOptions{
		ForceLevel: log.InfoLevel,
	}).Writer())
}
