package domain

// OutcomeStatus enumerates how a guarded operation ended.
type OutcomeStatus string

const (
	StatusSuccess OutcomeStatus = "success"
	StatusFailure OutcomeStatus = "failure"
	StatusAborted OutcomeStatus = "aborted"
)

// Outcome is the result of dispatching one guarded operation. The
// guard reports, the sequencer decides: Fatal marks outcomes after
// which the session must stop, but nothing in the guard terminates
// the process.
type Outcome struct {
	Status   OutcomeStatus
	Message  string
	ExitCode int
	// Fatal means the sequencer must stop the session and exit with
	// ExitFatal.
	Fatal bool
	// Executed is false when the operation was simulated or declined.
	Executed bool
}

// OK reports whether the sequence may continue past this outcome.
func (o Outcome) OK() bool {
	return !o.Fatal
}

// Succeeded builds a successful outcome for an executed command.
func Succeeded() Outcome {
	return Outcome{Status: StatusSuccess, Executed: true}
}

// Simulated builds the no-op outcome used in simulate mode.
func Simulated() Outcome {
	return Outcome{Status: StatusSuccess}
}

// Failed builds a failure outcome; fatal controls whether the
// sequencer stops.
func Failed(message string, exitCode int, fatal bool) Outcome {
	return Outcome{
		Status:   StatusFailure,
		Message:  message,
		ExitCode: exitCode,
		Fatal:    fatal,
		Executed: true,
	}
}

// Declined builds the aborted outcome produced when the operator
// rejects a confirmation. Always fatal.
func Declined(reason string) Outcome {
	return Outcome{Status: StatusAborted, Message: reason, Fatal: true}
}
