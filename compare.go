package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Verdict is the outcome of comparing one case's output with its reference.
type Verdict bool

const (
	Pass Verdict = true
	Fail Verdict = false
)

func (v Verdict) String() string {
	if v == Pass {
		return "pass"
	}
	return "fail"
}

// compareBytes passes only when both outputs have the same length and the
// same byte at every offset.
func compareBytes(actual, reference []byte) Verdict {
	return Verdict(bytes.Equal(actual, reference))
}

// compareFiles compares the files at actualPath and referencePath. A missing
// reference fails with errMissingReference; any other read error fails with
// an error wrapping errFilesystem.
func compareFiles(actualPath, referencePath string) (Verdict, error) {
	reference, err := os.ReadFile(referencePath)
	if errors.Is(err, fs.ErrNotExist) {
		return Fail, errMissingReference
	}
	if err != nil {
		return Fail, fmt.Errorf("%w: reading reference: %w", errFilesystem, err)
	}
	actual, err := os.ReadFile(actualPath)
	if err != nil {
		return Fail, fmt.Errorf("%w: reading output: %w", errFilesystem, err)
	}
	return compareBytes(actual, reference), nil
}
