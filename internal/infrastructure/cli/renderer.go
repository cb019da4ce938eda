package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/doeshing/rigup/internal/ports"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
)

// Renderer prints operator-facing diagnostics with distinct color
// classes for success, warning and error. Output goes through the
// session sink writers, so everything it prints lands in the log
// files verbatim (including escape codes when color is on).
type Renderer struct {
	out   io.Writer
	err   io.Writer
	color bool
}

// NewRenderer builds a renderer writing to the given sinks. Color is
// enabled only when the real stdout is a terminal and NO_COLOR is
// unset.
func NewRenderer(out, err io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	if err == nil {
		err = os.Stderr
	}
	color := (isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())) &&
		os.Getenv("NO_COLOR") == ""
	return &Renderer{out: out, err: err, color: color}
}

// Info prints an uncolored informational line.
func (r *Renderer) Info(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

// Success prints a green diagnostic.
func (r *Renderer) Success(format string, args ...interface{}) {
	r.print(r.out, colorGreen, format, args...)
}

// Warn prints a yellow diagnostic.
func (r *Renderer) Warn(format string, args ...interface{}) {
	r.print(r.err, colorYellow, format, args...)
}

// Error prints a red diagnostic.
func (r *Renderer) Error(format string, args ...interface{}) {
	r.print(r.err, colorRed, format, args...)
}

// Command prints a would-be or about-to-run command line.
func (r *Renderer) Command(commandLine string) {
	r.print(r.out, colorYellow, "  $ %s", commandLine)
}

func (r *Renderer) print(w io.Writer, color, format string, args ...interface{}) {
	if r.color {
		fmt.Fprintf(w, color+format+colorReset+"\n", args...)
		return
	}
	fmt.Fprintf(w, format+"\n", args...)
}

var _ ports.Renderer = (*Renderer)(nil)
