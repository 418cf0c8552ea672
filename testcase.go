package main

import "strings"

// inputExt is the extension shared by input, reference and scratch files.
const inputExt = ".txt"

// TestCase identifies one invocation of the program under test.
type TestCase struct {
	BaseName            string // program file name without its extension
	ProgramPath         string // passed as the sole argument
	VariantSuffix       string // "" for the base case, "-01" style otherwise
	InputPath           string // stdin source; empty means no input
	ActualOutputPath    string
	ReferenceOutputPath string
}

// Name is the case name used in output and as the stem of its output files.
func (tc TestCase) Name() string {
	return tc.BaseName + tc.VariantSuffix
}

// HasInput reports whether the case feeds a file to stdin.
func (tc TestCase) HasInput() bool {
	return tc.InputPath != ""
}

// parseVariant matches an input file stem against a base name.
//
//	parseVariant("foo", "foo")     // "", true
//	parseVariant("foo-01", "foo")  // "-01", true
//	parseVariant("foo-", "foo")    // "-", true
//	parseVariant("foobar", "foo")  // "", false
func parseVariant(stem, base string) (suffix string, ok bool) {
	if stem == base {
		return "", true
	}
	rest, found := strings.CutPrefix(stem, base+"-")
	if !found {
		return "", false
	}
	return "-" + rest, true
}

// claimInput finds the program an input stem belongs to. When several base
// names match, the longest wins, so "foo-bar-01" belongs to "foo-bar" rather
// than being variant "-bar-01" of "foo".
func claimInput(stem string, bases []string) (base, suffix string, ok bool) {
	for _, b := range bases {
		s, matched := parseVariant(stem, b)
		if !matched || (ok && len(b) <= len(base)) {
			continue
		}
		base, suffix, ok = b, s, true
	}
	return base, suffix, ok
}
