package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// Invocation is one run of the program under test.
type Invocation struct {
	Program string // path to the program source, the sole argument
	Stdin   io.Reader
}

// Execution is what a finished process left behind.
type Execution struct {
	Stdout   []byte
	ExitCode int // -1 when the process was killed or never started
	TimedOut bool
	Signal   os.Signal // set when a signal other than the timeout kill ended the process
	Duration time.Duration
}

// Executor runs the program under test and captures its stdout.
type Executor interface {
	Execute(ctx context.Context, inv Invocation) (Execution, error)
}

var _ Executor = (*commandExecutor)(nil)

// commandExecutor runs machine as a child process, one at a time.
type commandExecutor struct {
	machine    string
	timeout    time.Duration
	stderr     io.Writer
	cmdBuilder func(ctx context.Context, name string, arg ...string) *exec.Cmd
}

func newCommandExecutor(machine string, timeout time.Duration, stderr io.Writer) *commandExecutor {
	if stderr == nil {
		stderr = os.Stderr
	}
	return &commandExecutor{
		machine:    machine,
		timeout:    timeout,
		stderr:     stderr,
		cmdBuilder: exec.CommandContext,
	}
}

// Execute blocks until the process exits. A non-zero exit status or a
// timeout is reported in the Execution. A failure to start the process is
// returned as a LaunchError; cancellation of ctx returns ctx.Err().
func (e *commandExecutor) Execute(ctx context.Context, inv Invocation) (Execution, error) {
	runCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	var stdout bytes.Buffer
	cmd := e.cmdBuilder(runCtx, e.machine, inv.Program)
	cmd.Stdin = inv.Stdin
	cmd.Stdout = &stdout
	cmd.Stderr = e.stderr
	// children that inherit stdout must not hold the run open after a kill
	cmd.WaitDelay = time.Second

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Execution{ExitCode: -1}, &LaunchError{Program: e.machine, Err: err}
	}
	waitErr := cmd.Wait()
	result := Execution{
		Stdout:   stdout.Bytes(),
		ExitCode: cmd.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}
	if e.timeout > 0 && errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		result.TimedOut = true
		return result, nil
	}
	if ctx.Err() != nil {
		return result, ctx.Err()
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) && !errors.Is(waitErr, exec.ErrWaitDelay) {
		return result, fmt.Errorf("waiting for %s: %w", e.machine, waitErr)
	}
	if ws, ok := cmd.ProcessState.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		result.Signal = ws.Signal()
	}
	return result, nil
}
