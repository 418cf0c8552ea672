package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"
)

// reporter prints per-case progress and the final summary.
type reporter struct {
	out      io.Writer
	colors   bool
	showDiff bool
}

// useColors reports whether output written to w should be colored.
func useColors(noColors bool, w io.Writer) bool {
	if noColors || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (r *reporter) paint(c text.Color, s string) string {
	if !r.colors {
		return s
	}
	return c.Sprint(s)
}

func (r *reporter) starting(tc TestCase) {
	label := tc.Name()
	if !tc.HasInput() {
		label += " (no input)"
	}
	fmt.Fprintln(r.out, r.paint(text.FgBlue, "Running test: "+label))
}

func (r *reporter) finished(res CaseResult) {
	var line string
	if res.Verdict == Pass {
		line = r.paint(text.FgGreen, "Test passed: "+res.Case.Name())
	} else {
		line = r.paint(text.FgRed, "Test failed: "+res.Case.Name())
	}
	if details := resultDetails(res); details != "" {
		line += " " + r.paint(text.FgYellow, "("+details+")")
	}
	fmt.Fprintln(r.out, line)

	if r.showDiff && res.Kind == OutputMismatch {
		r.diff(res.Case)
	}
}

// resultDetails explains anything beyond a plain pass or mismatch.
func resultDetails(res CaseResult) string {
	var details []string
	switch res.Kind {
	case NoFailure, OutputMismatch:
	default:
		details = append(details, res.Kind.String())
	}
	switch {
	case res.Signal != nil:
		details = append(details, "killed by signal: "+res.Signal.String())
	case res.ExitCode > 0:
		details = append(details, fmt.Sprintf("exit status %d", res.ExitCode))
	}
	return strings.Join(details, ", ")
}

// diff prints a line diff between the reference and the actual output. It is
// informational; verdicts are always byte comparisons.
func (r *reporter) diff(tc TestCase) {
	want, err := os.ReadFile(tc.ReferenceOutputPath)
	if err != nil {
		return
	}
	got, err := os.ReadFile(tc.ActualOutputPath)
	if err != nil {
		return
	}
	d := cmp.Diff(strings.SplitAfter(string(want), "\n"), strings.SplitAfter(string(got), "\n"))
	if d == "" {
		return
	}
	fmt.Fprintln(r.out, r.paint(text.FgYellow, "  (-reference +actual):"))
	for _, l := range strings.Split(strings.TrimRight(d, "\n"), "\n") {
		fmt.Fprintln(r.out, "  "+l)
	}
}

// table renders every recorded result.
func (r *reporter) table(t *tally, runID string) {
	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)
	tw.SetTitle("Results (run %s)", runID)
	tw.AppendHeader(table.Row{"Case", "Input", "Result", "Reason", "Exit", "Duration"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Case", WidthMax: 40, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Exit", Align: text.AlignRight},
		{Name: "Duration", Align: text.AlignRight},
	})
	for _, res := range t.results {
		input := "-"
		if res.Case.HasInput() {
			input = res.Case.InputPath
		}
		reason := ""
		if res.Kind != NoFailure {
			reason = res.Kind.String()
		}
		tw.AppendRow(table.Row{
			res.Case.Name(),
			input,
			strings.ToUpper(res.Verdict.String()),
			reason,
			res.ExitCode,
			formatDuration(res.Duration),
		})
	}
	tw.AppendFooter(table.Row{"TOTAL", "", fmt.Sprintf("%d/%d", t.passed, t.total()), "", "", ""})

	switch {
	case !r.colors:
		tw.SetStyle(table.StyleLight)
	case t.shouldFail():
		tw.SetStyle(table.StyleColoredBlackOnRedWhite)
	default:
		tw.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}
	tw.Render()
}

func (r *reporter) summary(t *tally) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, t.summary())
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Truncate(time.Millisecond).String()
}
