package main

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// caseSummary is the part of a TestCase that does not depend on the temp dir.
type caseSummary struct {
	Name, Input, Actual, Reference string
}

func summarize(root string, cases []TestCase) []caseSummary {
	rel := func(p string) string {
		if p == "" {
			return ""
		}
		r, err := filepath.Rel(root, p)
		if err != nil {
			return p
		}
		return filepath.ToSlash(r)
	}
	out := make([]caseSummary, 0, len(cases))
	for _, tc := range cases {
		out = append(out, caseSummary{tc.Name(), rel(tc.InputPath), rel(tc.ActualOutputPath), rel(tc.ReferenceOutputPath)})
	}
	return out
}

func TestDiscover(t *testing.T) {
	tests := []struct {
		name   string
		tree   string
		filter string
		want   []caseSummary
	}{
		{
			name: "empty program directory",
			tree: "-- Tests/input/abs.txt --\n1\n",
			want: []caseSummary{},
		},
		{
			name: "base input",
			tree: `
-- Tests/v/foo.v --
-- Tests/input/foo.txt --
`,
			want: []caseSummary{
				{"foo", "Tests/input/foo.txt", "Tests/our/foo.txt", "Tests/output/foo.txt"},
			},
		},
		{
			name: "numbered inputs",
			tree: `
-- Tests/v/foo.v --
-- Tests/input/foo-02.txt --
-- Tests/input/foo-01.txt --
`,
			want: []caseSummary{
				{"foo-01", "Tests/input/foo-01.txt", "Tests/our/foo-01.txt", "Tests/output/foo-01.txt"},
				{"foo-02", "Tests/input/foo-02.txt", "Tests/our/foo-02.txt", "Tests/output/foo-02.txt"},
			},
		},
		{
			name: "base and numbered inputs together",
			tree: `
-- Tests/v/foo.v --
-- Tests/input/foo.txt --
-- Tests/input/foo-01.txt --
`,
			want: []caseSummary{
				{"foo", "Tests/input/foo.txt", "Tests/our/foo.txt", "Tests/output/foo.txt"},
				{"foo-01", "Tests/input/foo-01.txt", "Tests/our/foo-01.txt", "Tests/output/foo-01.txt"},
			},
		},
		{
			name: "no input",
			tree: `
-- Tests/v/bar.v --
`,
			want: []caseSummary{
				{"bar", "", "Tests/our/bar.txt", "Tests/output/bar.txt"},
			},
		},
		{
			name: "dashed program names",
			tree: `
-- Tests/v/foo.v --
-- Tests/v/foo-bar.v --
-- Tests/input/foo-01.txt --
-- Tests/input/foo-bar.txt --
-- Tests/input/foo-bar-01.txt --
`,
			want: []caseSummary{
				{"foo-01", "Tests/input/foo-01.txt", "Tests/our/foo-01.txt", "Tests/output/foo-01.txt"},
				{"foo-bar", "Tests/input/foo-bar.txt", "Tests/our/foo-bar.txt", "Tests/output/foo-bar.txt"},
				{"foo-bar-01", "Tests/input/foo-bar-01.txt", "Tests/our/foo-bar-01.txt", "Tests/output/foo-bar-01.txt"},
			},
		},
		{
			name: "empty variant token",
			tree: `
-- Tests/v/dash.v --
-- Tests/input/dash-.txt --
`,
			want: []caseSummary{
				{"dash-", "Tests/input/dash-.txt", "Tests/our/dash-.txt", "Tests/output/dash-.txt"},
			},
		},
		{
			name: "sorted by base name",
			tree: `
-- Tests/v/zeta.v --
-- Tests/v/alpha.v --
-- Tests/v/mid.v --
-- Tests/input/mid-01.txt --
`,
			want: []caseSummary{
				{"alpha", "", "Tests/our/alpha.txt", "Tests/output/alpha.txt"},
				{"mid-01", "Tests/input/mid-01.txt", "Tests/our/mid-01.txt", "Tests/output/mid-01.txt"},
				{"zeta", "", "Tests/our/zeta.txt", "Tests/output/zeta.txt"},
			},
		},
		{
			name: "ignores other files and orphan inputs",
			tree: `
-- Tests/v/foo.v --
-- Tests/v/README.md --
-- Tests/v/.v --
-- Tests/v/nested/inner.v --
-- Tests/input/orphan.txt --
-- Tests/input/foo.in --
`,
			want: []caseSummary{
				{"foo", "", "Tests/our/foo.txt", "Tests/output/foo.txt"},
			},
		},
		{
			name: "filter",
			tree: `
-- Tests/v/foo.v --
-- Tests/v/bar.v --
-- Tests/input/foo-01.txt --
-- Tests/input/foo-02.txt --
`,
			filter: `^foo-02$|^bar`,
			want: []caseSummary{
				{"bar", "", "Tests/our/bar.txt", "Tests/output/bar.txt"},
				{"foo-02", "Tests/input/foo-02.txt", "Tests/our/foo-02.txt", "Tests/output/foo-02.txt"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeTree(t, root, tt.tree)

			var filter *regexp.Regexp
			if tt.filter != "" {
				filter = regexp.MustCompile(tt.filter)
			}
			cases, err := discover(layoutUnder(filepath.Join(root, "Tests")), filter)
			require.NoError(t, err)

			if diff := cmp.Diff(tt.want, summarize(root, cases)); diff != "" {
				t.Errorf("discover() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiscoverMissingDirectories(t *testing.T) {
	cases, err := discover(layoutUnder(filepath.Join(t.TempDir(), "nope")), nil)
	require.NoError(t, err)
	require.Empty(t, cases)
}

func TestDiscoverProgramPath(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "-- Tests/v/foo.v --\n-- Tests/input/foo-01.txt --\n")

	cases, err := discover(layoutUnder(filepath.Join(root, "Tests")), nil)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	require.Equal(t, filepath.Join(root, "Tests", "v", "foo.v"), cases[0].ProgramPath)
	require.Equal(t, "foo", cases[0].BaseName)
	require.Equal(t, "-01", cases[0].VariantSuffix)
}

func TestDiscoverUnreadableDirectory(t *testing.T) {
	root := t.TempDir()
	// a file where the program directory should be
	writeTree(t, root, "-- Tests/v --\nnot a directory\n")

	_, err := discover(layoutUnder(filepath.Join(root, "Tests")), nil)
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}
