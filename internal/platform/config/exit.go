package config

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Exit status codes used by the command line entry points.
const (
	ExitFailure = 1
	// ExitUsage reports bad flags or arguments.
	ExitUsage = 2
)

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// UsageError marks an error caused by how the command was invoked.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// Exitf writes a formatted message to stderr and exits with ExitFailure.
func Exitf(format string, args ...any) {
	fmt.Fprintf(stderr, format+"\n", args...)
	exit(ExitFailure)
}

// ExitErr writes err to stderr and exits with the status its kind calls for.
// A nil error returns without exiting.
func ExitErr(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(stderr, err)
	var usage *UsageError
	if errors.As(err, &usage) {
		exit(ExitUsage)
		return
	}
	exit(ExitFailure)
}
