package main

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	exitSuccess     = 0 // every case passed, or there were none
	exitTestFailure = 1 // at least one case failed
	exitRuntimeErr  = 2 // the run could not be carried out
)

var (
	errMissingReference = errors.New("missing reference output")
	errLaunch           = errors.New("failed to launch program under test")
	errFilesystem       = errors.New("filesystem failure")
)

// RuntimeError marks a failure that aborts the whole run, such as an
// unwritable scratch directory or a bad configuration file.
type RuntimeError struct {
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %v", e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func newRuntimeError(err error) *RuntimeError {
	return &RuntimeError{Err: err}
}

// isRuntimeError reports whether err is or wraps a RuntimeError.
func isRuntimeError(err error) bool {
	var runtimeErr *RuntimeError
	return err != nil && errors.As(err, &runtimeErr)
}

// LaunchError is returned by an Executor when the program under test could
// not be started at all.
type LaunchError struct {
	Program string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launching %s: %v", e.Program, e.Err)
}

func (e *LaunchError) Unwrap() []error {
	return []error{errLaunch, e.Err}
}
