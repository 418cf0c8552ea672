package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

var Version = "v0.1.0"

const envVarPrefix = "GRADESCRIPT_"

func envVars(name string) []string {
	return []string{envVarPrefix + name}
}

const (
	noColorsFlagName   = "no-colors"
	machineFlagName    = "machine"
	testsDirFlagName   = "tests-dir"
	configFlagName     = "config"
	timeoutFlagName    = "timeout"
	strictExitFlagName = "strict-exit"
	runFlagName        = "run"
	diffFlagName       = "diff"
	tableFlagName      = "table"
	logLevelFlagName   = "log.level"
)

// newFlags builds the flag set for one App. cli flags record values read
// from the environment, so they are not shared between runs.
func newFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    noColorsFlagName,
			Usage:   "Disable colored output",
			EnvVars: envVars("NO_COLORS"),
		},
		&cli.StringFlag{
			Name:    machineFlagName,
			Value:   defaultMachine,
			Usage:   "Program under test, invoked as '<machine> <program>'",
			EnvVars: envVars("MACHINE"),
		},
		&cli.StringFlag{
			Name:    testsDirFlagName,
			Value:   defaultTestsDir,
			Usage:   "Directory holding the v/, input/, output/ and our/ directories",
			EnvVars: envVars("TESTS_DIR"),
		},
		&cli.StringFlag{
			Name:    configFlagName,
			Usage:   "Path to a YAML config file; explicit flags take precedence",
			EnvVars: envVars("CONFIG"),
		},
		&cli.DurationFlag{
			Name:    timeoutFlagName,
			Value:   defaultTimeout,
			Usage:   "Per-case timeout, 0 disables it",
			EnvVars: envVars("TIMEOUT"),
		},
		&cli.BoolFlag{
			Name:    strictExitFlagName,
			Usage:   "Fail cases whose program exits with a non-zero status",
			EnvVars: envVars("STRICT_EXIT"),
		},
		&cli.StringFlag{
			Name:    runFlagName,
			Usage:   "Only run cases whose name matches this regexp",
			EnvVars: envVars("RUN"),
		},
		&cli.BoolFlag{
			Name:    diffFlagName,
			Usage:   "Print a line diff for cases whose output does not match",
			EnvVars: envVars("DIFF"),
		},
		&cli.BoolFlag{
			Name:    tableFlagName,
			Usage:   "Print a results table before the summary",
			EnvVars: envVars("TABLE"),
		},
		&cli.StringFlag{
			Name:    logLevelFlagName,
			Value:   "warn",
			Usage:   "Diagnostic log level written to stderr (trace, debug, info, warn, error, crit)",
			EnvVars: envVars("LOG_LEVEL"),
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line in args and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	err := app.RunContext(ctx, args)
	if err == nil {
		return exitSuccess
	}
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintln(stderr, msg)
		}
		return exitErr.ExitCode()
	}
	fmt.Fprintln(stderr, "gradescript:", err)
	return exitRuntimeErr
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "gradescript",
		Usage:     "Run the program under test against golden output files",
		Version:   Version,
		Flags:     newFlags(),
		Writer:    stdout,
		ErrWriter: stderr,
		Action:    runAction,
		// run maps errors to exit codes itself
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func runAction(c *cli.Context) error {
	cfg, err := configFromCLI(c)
	if err != nil {
		return cli.Exit(newRuntimeError(err).Error(), exitRuntimeErr)
	}

	logger, err := newLogger(c.App.ErrWriter, c.String(logLevelFlagName), useColors(cfg.NoColors, c.App.ErrWriter))
	if err != nil {
		return cli.Exit(newRuntimeError(err).Error(), exitRuntimeErr)
	}
	runID := uuid.NewString()
	logger = logger.With("run", runID)
	logger.Debug("Config", "machine", cfg.Machine, "layout", cfg.Layout, "timeout", cfg.Timeout)

	executor := newCommandExecutor(cfg.Machine, cfg.Timeout, c.App.ErrWriter)
	h, err := newHarness(cfg, logger, executor, c.App.Writer, useColors(cfg.NoColors, c.App.Writer))
	if err != nil {
		return cli.Exit(newRuntimeError(err).Error(), exitRuntimeErr)
	}

	t, err := h.run(c.Context)
	if err != nil {
		if isRuntimeError(err) {
			logger.Error("Run aborted", "err", err)
			return cli.Exit(err.Error(), exitRuntimeErr)
		}
		return cli.Exit(fmt.Sprintf("run interrupted: %v", err), exitRuntimeErr)
	}

	if cfg.ShowTable {
		h.report.table(t, runID)
	}
	h.report.summary(t)
	if t.shouldFail() {
		return cli.Exit("", t.exitCode())
	}
	return nil
}

// configFromCLI layers the optional config file and then explicitly set
// flags on top of DefaultConfig.
func configFromCLI(c *cli.Context) (Config, error) {
	cfg := DefaultConfig
	if path := c.String(configFlagName); path != "" {
		var err error
		if cfg, err = loadConfig(path); err != nil {
			return cfg, err
		}
	}
	if c.IsSet(testsDirFlagName) {
		ext := cfg.Layout.ProgramExt
		cfg.Layout = layoutUnder(c.String(testsDirFlagName))
		cfg.Layout.ProgramExt = ext
	}
	if c.IsSet(machineFlagName) {
		cfg.Machine = c.String(machineFlagName)
	}
	if c.IsSet(timeoutFlagName) {
		cfg.Timeout = c.Duration(timeoutFlagName)
	}
	if c.IsSet(noColorsFlagName) {
		cfg.NoColors = c.Bool(noColorsFlagName)
	}
	if c.IsSet(strictExitFlagName) {
		cfg.StrictExit = c.Bool(strictExitFlagName)
	}
	if c.IsSet(runFlagName) {
		cfg.Run = c.String(runFlagName)
	}
	if c.IsSet(diffFlagName) {
		cfg.ShowDiff = c.Bool(diffFlagName)
	}
	if c.IsSet(tableFlagName) {
		cfg.ShowTable = c.Bool(tableFlagName)
	}
	return cfg, cfg.validate()
}

func newLogger(w io.Writer, level string, color bool) (log.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewLogger(log.NewTerminalHandlerWithLevel(w, lvl, color)), nil
}

// parseLevel accepts the slog level names plus go-ethereum's trace and crit.
func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "trace":
		return log.LevelTrace, nil
	case "crit":
		return log.LevelCrit, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}
