// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The guard and sequencer services depend only on
// these abstractions, which keeps the decision logic testable without touching
// the real system: tests swap in recording stubs for the runner, the prompter
// and the journal.
package ports

import (
	"context"

	"github.com/doeshing/rigup/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.rigup/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// CommandRunner executes one external command and reports its exit
// status. Implementations stream output to the session sink.
type CommandRunner interface {
	Run(ctx context.Context, op domain.Operation) (domain.ExecutionResult, error)
}

// ConfirmationPrompter is the single-keystroke gate in front of
// dangerous operations in live mode.
type ConfirmationPrompter interface {
	// Confirm reads exactly one character; only 'y'/'Y' is affirmative.
	Confirm(question string) (bool, error)
	Enabled() bool
}

// OperatorPrompter gathers configuration choices from the operator.
type OperatorPrompter interface {
	// Choose presents a single-character menu and returns the
	// operator's (lowercased) choice. An unrecognized choice is
	// returned as-is; the caller decides whether that aborts.
	Choose(question string, choices string) (byte, error)
	// Line reads free text, applying def when the input is empty.
	Line(question string, def string) (string, error)
}

// PolicyService classifies a command line against the risk rules.
// The guard uses it to escalate a call site's declared tier.
type PolicyService interface {
	Classify(commandLine string) (domain.PolicyDecision, error)
}

// JournalStore persists one record per guarded operation.
type JournalStore interface {
	Save(record domain.JournalRecord) error
	Records(limit int, search string) ([]domain.JournalRecord, error)
	Clear() error
	ExportJSON(dest string) error
	Path() string
}

// Renderer emits colorized operator-facing diagnostics. All output
// flows through the session sink so it lands in the log files too.
type Renderer interface {
	Info(format string, args ...interface{})
	Success(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	// Command prints a would-be or about-to-run command line.
	Command(commandLine string)
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
