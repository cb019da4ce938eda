package runner

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/doeshing/rigup/internal/domain"
	"github.com/doeshing/rigup/internal/ports"
)

// ExecRunner invokes external commands on the host.
type ExecRunner struct {
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
}

// NewExecRunner builds a runner whose command output flows to the
// given writers (normally the session sink). Nil writers default to
// the real process streams.
func NewExecRunner(stdout, stderr io.Writer) *ExecRunner {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &ExecRunner{stdout: stdout, stderr: stderr, stdin: os.Stdin}
}

// Run implements ports.CommandRunner. The command's stdout and stderr
// stream straight to the sink writers so the operator sees output in
// real time and the log files carry it verbatim. Interactive
// operations (fdisk, passwd) additionally get the operator's stdin.
func (r *ExecRunner) Run(ctx context.Context, op domain.Operation) (domain.ExecutionResult, error) {
	if len(op.Argv) == 0 {
		return domain.ExecutionResult{}, errors.New("empty argv")
	}

	cmd := exec.CommandContext(ctx, op.Argv[0], op.Argv[1:]...)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	if op.Interactive {
		cmd.Stdin = r.stdin
	}

	start := time.Now()
	err := cmd.Run()
	result := domain.ExecutionResult{
		Ran:        true,
		DurationMS: time.Since(start).Milliseconds(),
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		result.Err = err
		return result, nil
	}
	if err != nil {
		// Could not start at all (missing binary, killed context).
		result.Ran = false
		result.ExitCode = -1
		result.Err = err
		return result, err
	}
	return result, nil
}

var _ ports.CommandRunner = (*ExecRunner)(nil)
