package cli

import "fmt"

// ExitCodeError carries a process exit code from a command's RunE up
// to main without tearing down deferred cleanup along the way.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}
