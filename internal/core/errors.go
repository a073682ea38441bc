package core

import (
	"errors"
	"fmt"
)

var (
	// ErrRuntimeNotFound is returned when every discovery strategy is exhausted
	ErrRuntimeNotFound = errors.New("runtime not found")

	// ErrVerificationFailed rules out a single candidate; the search continues
	ErrVerificationFailed = errors.New("runtime verification failed")

	// ErrInvalidInvocation marks bad command-line usage
	ErrInvalidInvocation = errors.New("invalid invocation")
)

// StagingError aborts staging; Path is the offending glob or file
type StagingError struct {
	Path string
	Err  error
}

func (e *StagingError) Error() string {
	return fmt.Sprintf("staging %s: %v", e.Path, e.Err)
}

func (e *StagingError) Unwrap() error {
	return e.Err
}

// LaunchError reports a failed process creation together with the attempted command line
type LaunchError struct {
	CommandLine string
	Err         error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to run %s: %v", e.CommandLine, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// SubOperationError wraps a failure that happened after the runtime was located
// (short path conversion, version query)
type SubOperationError struct {
	Op  string
	Err error
}

func (e *SubOperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SubOperationError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by a command to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, ErrRuntimeNotFound) || errors.Is(err, ErrInvalidInvocation) {
		return ExitNotFound
	}
	return ExitFailure
}
