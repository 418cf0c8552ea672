package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Layout is the directory layout a run discovers its cases from.
type Layout struct {
	ProgramDir   string `yaml:"programs"`   // program sources, one per case family
	InputDir     string `yaml:"inputs"`     // stdin files
	ReferenceDir string `yaml:"references"` // expected outputs
	ScratchDir   string `yaml:"scratch"`    // actual outputs, cleared at start
	ProgramExt   string `yaml:"program_ext"`
}

// layoutUnder returns the standard layout rooted at dir.
func layoutUnder(dir string) Layout {
	return Layout{
		ProgramDir:   filepath.Join(dir, "v"),
		InputDir:     filepath.Join(dir, "input"),
		ReferenceDir: filepath.Join(dir, "output"),
		ScratchDir:   filepath.Join(dir, "our"),
		ProgramExt:   ".v",
	}
}

// Config holds everything a run needs.
type Config struct {
	Machine    string        `yaml:"machine"`
	Layout     Layout        `yaml:"layout"`
	Timeout    time.Duration `yaml:"timeout"`
	StrictExit bool          `yaml:"strict_exit"`
	NoColors   bool          `yaml:"no_colors"`
	Run        string        `yaml:"run"`
	ShowDiff   bool          `yaml:"diff"`
	ShowTable  bool          `yaml:"table"`
}

const (
	defaultMachine  = "./machine"
	defaultTestsDir = "Tests"
	defaultTimeout  = 30 * time.Second
)

var DefaultConfig = Config{
	Machine: defaultMachine,
	Layout:  layoutUnder(defaultTestsDir),
	Timeout: defaultTimeout,
}

// loadConfig reads a YAML config file on top of DefaultConfig. Fields absent
// from the file keep their defaults.
func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.Machine == "":
		return fmt.Errorf("machine must not be empty")
	case c.Layout.ProgramDir == "", c.Layout.InputDir == "", c.Layout.ReferenceDir == "", c.Layout.ScratchDir == "":
		return fmt.Errorf("layout directories must not be empty")
	case c.Layout.ProgramExt == "":
		return fmt.Errorf("layout program_ext must not be empty")
	case c.Timeout < 0:
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}
