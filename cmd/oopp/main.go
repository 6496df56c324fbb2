package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/openoceanspp/oopp/internal/projectconfig"
	"github.com/openoceanspp/oopp/internal/scores"
	"github.com/openoceanspp/oopp/internal/search"
)

// Exit codes for different failure modes
const (
	ExitSuccess = 0 // Command completed
	ExitError   = 1 // Data or runtime error
	ExitUsage   = 2 // Bad arguments or configuration
)

// UsageError indicates the command was invoked incorrectly. It is reported
// before any input is read.
type UsageError struct {
	Message string
	Err     error
}

func (e *UsageError) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usageErr *UsageError
	var searchUsageErr *search.UsageError
	var configErr *projectconfig.InvalidConfigError
	switch {
	case errors.As(err, &usageErr),
		errors.As(err, &searchUsageErr),
		errors.As(err, &configErr),
		errors.Is(err, scores.ErrNoInputs):
		return ExitUsage
	}
	return ExitError
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
