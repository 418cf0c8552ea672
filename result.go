package main

import (
	"fmt"
	"os"
	"time"
)

// FailureKind says why a case failed.
type FailureKind int

const (
	NoFailure FailureKind = iota
	OutputMismatch
	MissingReference
	LaunchFailure
	Timeout
	NonZeroExit
	FilesystemFailure
)

func (k FailureKind) String() string {
	switch k {
	case NoFailure:
		return "none"
	case OutputMismatch:
		return "output mismatch"
	case MissingReference:
		return "missing reference"
	case LaunchFailure:
		return "launch failure"
	case Timeout:
		return "timeout"
	case NonZeroExit:
		return "non-zero exit"
	case FilesystemFailure:
		return "filesystem failure"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

// CaseResult is the recorded outcome of one case.
type CaseResult struct {
	Case     TestCase
	Verdict  Verdict
	Kind     FailureKind
	ExitCode int
	Signal   os.Signal
	Duration time.Duration
	Err      error // diagnostic detail for LaunchFailure and FilesystemFailure
}

// tally accumulates verdicts in discovery order.
type tally struct {
	results []CaseResult
	passed  int
	failed  int
}

func (t *tally) record(r CaseResult) {
	t.results = append(t.results, r)
	if r.Verdict == Pass {
		t.passed++
	} else {
		t.failed++
	}
}

func (t *tally) total() int {
	return t.passed + t.failed
}

// summary is the line printed at the end of a run.
func (t *tally) summary() string {
	return fmt.Sprintf("%d correct out of %d", t.passed, t.total())
}

// shouldFail reports whether the run must exit non-zero.
func (t *tally) shouldFail() bool {
	return t.failed > 0
}

func (t *tally) exitCode() int {
	if t.shouldFail() {
		return exitTestFailure
	}
	return exitSuccess
}
