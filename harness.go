package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/ethereum/go-ethereum/log"
)

// harness drives a whole run: reset the scratch directory, discover cases,
// then run and compare them one at a time.
type harness struct {
	cfg    Config
	log    log.Logger
	filter *regexp.Regexp
	runner *runner
	report *reporter
}

func newHarness(cfg Config, logger log.Logger, exec Executor, out io.Writer, colors bool) (*harness, error) {
	if exec == nil {
		return nil, fmt.Errorf("executor cannot be nil")
	}
	h := &harness{
		cfg:    cfg,
		log:    logger,
		runner: &runner{exec: exec},
		report: &reporter{out: out, colors: colors, showDiff: cfg.ShowDiff},
	}
	if cfg.Run != "" {
		filter, err := regexp.Compile(cfg.Run)
		if err != nil {
			return nil, fmt.Errorf("invalid run filter: %w", err)
		}
		h.filter = filter
	}
	return h, nil
}

// run executes every discovered case. Per-case failures are recorded in the
// returned tally; the error is non-nil only when the run itself could not
// continue, either a RuntimeError or the context's error.
func (h *harness) run(ctx context.Context) (*tally, error) {
	layout := h.cfg.Layout
	if err := scratchDir(layout.ScratchDir).reset(); err != nil {
		return nil, newRuntimeError(err)
	}
	cases, err := discover(layout, h.filter)
	if err != nil {
		return nil, newRuntimeError(err)
	}
	h.log.Info("Discovered test cases", "count", len(cases), "programs", layout.ProgramDir)

	t := &tally{}
	for _, tc := range cases {
		if err := ctx.Err(); err != nil {
			return t, err
		}
		h.report.starting(tc)
		res, err := h.runCase(ctx, tc)
		if err != nil {
			return t, err
		}
		t.record(res)
		h.report.finished(res)
	}
	h.log.Info("Run finished", "passed", t.passed, "failed", t.failed)
	return t, nil
}

// runCase never escalates a failure of the case itself; it only returns an
// error when ctx is done.
func (h *harness) runCase(ctx context.Context, tc TestCase) (CaseResult, error) {
	logger := h.log.With("case", tc.Name())
	logger.Debug("Running case", "program", tc.ProgramPath, "input", tc.InputPath)

	res := CaseResult{Case: tc, Verdict: Fail}
	exe, err := h.runner.run(ctx, tc)
	res.ExitCode, res.Signal, res.Duration = exe.ExitCode, exe.Signal, exe.Duration
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, ctxErr
	}

	switch {
	case errors.Is(err, errLaunch):
		res.Kind, res.Err = LaunchFailure, err
		logger.Warn("Could not launch program under test", "err", err)
		return res, nil
	case errors.Is(err, errFilesystem):
		res.Kind, res.Err = FilesystemFailure, err
		logger.Warn("Filesystem failure", "err", err)
		return res, nil
	case err != nil:
		res.Kind, res.Err = LaunchFailure, err
		logger.Warn("Program under test failed to run", "err", err)
		return res, nil
	case exe.TimedOut:
		res.Kind = Timeout
		logger.Warn("Program under test timed out", "timeout", h.cfg.Timeout)
		return res, nil
	}

	verdict, err := compareFiles(tc.ActualOutputPath, tc.ReferenceOutputPath)
	switch {
	case errors.Is(err, errMissingReference):
		res.Kind = MissingReference
		logger.Debug("Reference output missing", "reference", tc.ReferenceOutputPath)
		return res, nil
	case err != nil:
		res.Kind, res.Err = FilesystemFailure, err
		logger.Warn("Could not compare outputs", "err", err)
		return res, nil
	case verdict == Fail:
		res.Kind = OutputMismatch
		return res, nil
	}

	if h.cfg.StrictExit && exe.ExitCode != 0 {
		res.Kind = NonZeroExit
		return res, nil
	}
	res.Verdict = Pass
	logger.Debug("Case passed", "duration", exe.Duration, "exit", exe.ExitCode)
	return res, nil
}
