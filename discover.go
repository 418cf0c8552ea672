package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// discover enumerates the cases described by layout, sorted by base name and
// then variant suffix. A nil filter selects every case.
func discover(layout Layout, filter *regexp.Regexp) ([]TestCase, error) {
	programs, err := filesWithExt(layout.ProgramDir, layout.ProgramExt)
	if err != nil {
		return nil, err
	}
	inputs, err := filesWithExt(layout.InputDir, inputExt)
	if err != nil {
		return nil, err
	}

	bases := make([]string, 0, len(programs))
	for base := range programs {
		bases = append(bases, base)
	}
	slices.Sort(bases)

	// suffix -> input path, per base name
	variants := make(map[string]map[string]string)
	for stem, path := range inputs {
		base, suffix, ok := claimInput(stem, bases)
		if !ok {
			continue
		}
		if variants[base] == nil {
			variants[base] = make(map[string]string)
		}
		variants[base][suffix] = path
	}

	var cases []TestCase
	for _, base := range bases {
		found := variants[base]
		if len(found) == 0 {
			cases = append(cases, newTestCase(layout, base, programs[base], "", ""))
			continue
		}
		suffixes := make([]string, 0, len(found))
		for suffix := range found {
			suffixes = append(suffixes, suffix)
		}
		slices.Sort(suffixes)
		for _, suffix := range suffixes {
			cases = append(cases, newTestCase(layout, base, programs[base], suffix, found[suffix]))
		}
	}

	if filter != nil {
		cases = slices.DeleteFunc(cases, func(tc TestCase) bool {
			return !filter.MatchString(tc.Name())
		})
	}
	return cases, nil
}

func newTestCase(layout Layout, base, program, suffix, input string) TestCase {
	name := base + suffix + inputExt
	return TestCase{
		BaseName:            base,
		ProgramPath:         program,
		VariantSuffix:       suffix,
		InputPath:           input,
		ActualOutputPath:    filepath.Join(layout.ScratchDir, name),
		ReferenceOutputPath: filepath.Join(layout.ReferenceDir, name),
	}
}

// filesWithExt maps the stem of every non-directory entry in dir ending in ext
// to its path. A missing directory has no files.
func filesWithExt(dir, ext string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	files := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stem, ok := strings.CutSuffix(entry.Name(), ext)
		if !ok || stem == "" {
			continue
		}
		files[stem] = filepath.Join(dir, entry.Name())
	}
	return files, nil
}
