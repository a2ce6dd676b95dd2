package cmd

import (
	"errors"
	"fmt"

	"msc/feature/launcher"
	"msc/feature/settings"
)

// Process exit codes. A server that ran exits msc with its own code.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// usageError is a command line mistake; it is reported together with the usage text.
type usageError struct {
	err error
}

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

// serverExitError carries the non-zero exit code of a server that ran.
type serverExitError struct {
	code int
}

func (e *serverExitError) Error() string {
	return fmt.Sprintf("server exited with code %d", e.code)
}

// exitCode maps the result of a command to the process exit code.
func exitCode(err error) int {
	var serverErr *serverExitError
	var usageErr *usageError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &serverErr):
		return serverErr.code
	case errors.As(err, &usageErr),
		errors.Is(err, settings.ErrValidation),
		errors.Is(err, launcher.ErrNotFound):
		return ExitUsage
	default:
		return ExitFailure
	}
}
