package logger

import (
	"io"
	"log"
	"os"
)

// StdLogger is a lightweight implementation backed by Go's log package.
// Diagnostics go to stderr so they never interleave with the mirrored
// command output on stdout.
type StdLogger struct {
	verbose bool
	std     *log.Logger
}

// NewStd creates a StdLogger writing to stderr.
func NewStd(verbose bool) *StdLogger {
	return &StdLogger{verbose: verbose, std: log.New(os.Stderr, "", log.LstdFlags)}
}

// SetOutput redirects the logger, used to route diagnostics through a
// session sink once one is open.
func (l *StdLogger) SetOutput(w io.Writer) {
	l.std.SetOutput(w)
}

func (l *StdLogger) Debug(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.std.Println("[DEBUG]", msg, fields)
}

func (l *StdLogger) Info(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.std.Println("[INFO]", msg, fields)
}

func (l *StdLogger) Warn(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.std.Println("[WARN]", msg, fields)
}

// Error is not gated on verbose: a failed guarded operation is always
// worth a diagnostic line.
func (l *StdLogger) Error(msg string, err error, fields map[string]interface{}) {
	l.std.Println("[ERROR]", msg, err, fields)
}
