package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/doeshing/rigup/internal/ports"
)

// Prompter implements both the confirmation gate and the operator
// prompts over stdio. Prompts are written through the session sink so
// the log files carry the full dialogue.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter constructs a prompter referencing stdio.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Enabled indicates the prompter is interactive.
func (p *Prompter) Enabled() bool {
	return true
}

// Confirm implements the single-keystroke gate: only the first
// character of the reply counts, and only 'y'/'Y' is affirmative.
// Empty input, EOF and anything else are negative; there is no
// re-prompt.
func (p *Prompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	c, err := p.readChoice()
	if err != nil {
		return false, err
	}
	return c == 'y', nil
}

// Choose presents a single-character menu. The reply's first
// character is lowercased and returned as-is; the caller decides what
// an unlisted character means.
func (p *Prompter) Choose(question string, choices string) (byte, error) {
	fmt.Fprintf(p.out, "%s [%s]: ", question, choices)
	return p.readChoice()
}

// Line reads free text, applying def when the input is empty.
func (p *Prompter) Line(question string, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s (default: %s): ", question, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", question)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return def, err
	}
	line = strings.TrimSpace(line)
	fmt.Fprintf(p.out, "> %s\n", line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

// readChoice reads one line and reduces it to its first character so
// the terminal stays in cooked mode. The echoed choice lands in the
// session log via p.out.
func (p *Prompter) readChoice() (byte, error) {
	line, err := p.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && line == "" {
		return 0, err
	}
	if line == "" {
		fmt.Fprintln(p.out, ">")
		return 0, nil
	}
	c := strings.ToLower(line)[0]
	fmt.Fprintf(p.out, "> %c\n", c)
	return c, nil
}

var _ ports.ConfirmationPrompter = (*Prompter)(nil)
var _ ports.OperatorPrompter = (*Prompter)(nil)
