package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// placeholderName survives scratch resets so the directory can be committed.
const placeholderName = ".keep"

// scratchDir holds the actual outputs of the current run.
type scratchDir string

// reset creates the directory if needed and removes every file in it except
// the placeholder. Subdirectories are left alone.
func (s scratchDir) reset() error {
	dir := string(s)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating scratch directory: %w", errFilesystem, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%w: listing scratch directory: %w", errFilesystem, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == placeholderName {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: clearing scratch directory: %w", errFilesystem, err)
		}
	}
	return nil
}

// runner executes one case and records its stdout in the scratch directory.
type runner struct {
	exec Executor
}

// run feeds the case's input to the program under test and overwrites
// tc.ActualOutputPath with whatever it printed, even when execution failed.
func (r *runner) run(ctx context.Context, tc TestCase) (Execution, error) {
	var stdin io.Reader
	if tc.HasInput() {
		f, err := os.Open(tc.InputPath)
		if err != nil {
			return Execution{ExitCode: -1}, fmt.Errorf("%w: opening input: %w", errFilesystem, err)
		}
		defer f.Close()
		stdin = f
	}

	result, execErr := r.exec.Execute(ctx, Invocation{Program: tc.ProgramPath, Stdin: stdin})
	if ctx.Err() != nil {
		return result, ctx.Err()
	}
	if err := os.WriteFile(tc.ActualOutputPath, result.Stdout, 0o644); err != nil {
		return result, errors.Join(execErr, fmt.Errorf("%w: writing output: %w", errFilesystem, err))
	}
	return result, execErr
}
