package main

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/tools/txtar"
)

// writeTree materializes the files of a txtar archive under dir.
func writeTree(t *testing.T, dir string, archive string) {
	t.Helper()
	writeArchive(t, dir, txtar.Parse([]byte(archive)))
}

func writeArchive(t *testing.T, dir string, a *txtar.Archive) {
	t.Helper()
	for _, f := range a.Files {
		path := filepath.Join(dir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating directory for %s: %v", f.Name, err)
		}
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			t.Fatalf("writing %s: %v", f.Name, err)
		}
	}
}

func testLogger() log.Logger {
	return log.NewLogger(log.NewTerminalHandler(io.Discard, false))
}

// requireShell skips tests that use sh as the program under test.
func requireShell(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("program under test is a POSIX shell")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not found in PATH")
	}
	return sh
}

// executorFunc adapts a function to the Executor interface.
type executorFunc func(ctx context.Context, inv Invocation) (Execution, error)

func (f executorFunc) Execute(ctx context.Context, inv Invocation) (Execution, error) {
	return f(ctx, inv)
}

// echoExecutor prints the program source followed by its stdin, which makes
// expected outputs easy to write by hand.
var echoExecutor = executorFunc(func(ctx context.Context, inv Invocation) (Execution, error) {
	out, err := os.ReadFile(inv.Program)
	if err != nil {
		return Execution{ExitCode: 1}, nil
	}
	if inv.Stdin != nil {
		in, err := io.ReadAll(inv.Stdin)
		if err != nil {
			return Execution{}, err
		}
		out = append(out, in...)
	}
	return Execution{Stdout: out}, nil
})
