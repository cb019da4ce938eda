package sink

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/doeshing/rigup/internal/domain"
)

// Session owns the two append-only log files mirroring the terminal
// for one provisioning run. Every byte written through Out or Err
// reaches both the terminal and the corresponding file immediately;
// there is no buffering that could reorder interleaved streams.
//
// Close is safe to call on every exit path; the farewell diagnostic
// and the file closes run exactly once.
type Session struct {
	ID  string
	Dir string

	Out io.Writer
	Err io.Writer

	stdoutFile *os.File
	stderrFile *os.File
	once       sync.Once
}

// Open creates the per-session log directory under baseDir and wires
// the fan-out writers to the real terminal. The directory is named by
// the session UUID so runs never clobber each other.
func Open(baseDir string) (*Session, error) {
	return open(baseDir, os.Stdout, os.Stderr)
}

func open(baseDir string, termOut, termErr io.Writer) (*Session, error) {
	id := uuid.NewString()
	dir := filepath.Join(baseDir, id)
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return nil, fmt.Errorf("create session log dir: %w", err)
	}

	stdoutFile, err := os.OpenFile(filepath.Join(dir, "stdout.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open stdout log: %w", err)
	}
	stderrFile, err := os.OpenFile(filepath.Join(dir, "stderr.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		stdoutFile.Close()
		return nil, fmt.Errorf("open stderr log: %w", err)
	}

	return &Session{
		ID:         id,
		Dir:        dir,
		Out:        io.MultiWriter(termOut, stdoutFile),
		Err:        io.MultiWriter(termErr, stderrFile),
		stdoutFile: stdoutFile,
		stderrFile: stderrFile,
	}, nil
}

// Close prints the farewell diagnostic and releases the log files.
// Subsequent calls are no-ops. Close never reports an error: nothing
// here may mask the session's exit status.
func (s *Session) Close() {
	s.once.Do(func() {
		fmt.Fprintln(s.Out, "rigup session closed. Logs kept in", s.Dir)
		s.stdoutFile.Close()
		s.stderrFile.Close()
	})
}
