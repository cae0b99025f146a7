package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"stchart/internal/driver"
)

// projectManifest is an optional stchart.toml discovered by walking up
// from the checked path. Every field is optional; the manifest only
// fills options the command line left at their defaults.
type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
	meta   toml.MetaData
}

type projectConfig struct {
	Detect   detectConfig   `toml:"detect"`
	Scan     scanConfig     `toml:"scan"`
	Analysis analysisConfig `toml:"analysis"`
}

type detectConfig struct {
	StateVar string `toml:"state_var"`
}

type scanConfig struct {
	MaxBlockLines int `toml:"max_block_lines"`
}

type analysisConfig struct {
	MaxNesting      int    `toml:"max_nesting"`
	TerminalPattern string `toml:"terminal_pattern"`
}

func findStchartToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "stchart.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findStchartToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg projectConfig
	meta, err := toml.DecodeFile(manifestPath, &cfg)
	if err != nil {
		return nil, true, fmt.Errorf("%s: failed to parse TOML: %w", manifestPath, err)
	}
	if meta.IsDefined("detect", "state_var") && strings.TrimSpace(cfg.Detect.StateVar) == "" {
		return nil, true, fmt.Errorf("%s: [detect].state_var must not be empty", manifestPath)
	}
	if meta.IsDefined("scan", "max_block_lines") && cfg.Scan.MaxBlockLines <= 0 {
		return nil, true, fmt.Errorf("%s: [scan].max_block_lines must be positive", manifestPath)
	}
	if meta.IsDefined("analysis", "max_nesting") && cfg.Analysis.MaxNesting <= 0 {
		return nil, true, fmt.Errorf("%s: [analysis].max_nesting must be positive", manifestPath)
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
		meta:   meta,
	}, true, nil
}

// apply copies manifest values into opts where the manifest defines
// them and the caller has not pinned the option already.
func (m *projectManifest) apply(opts *driver.Options) {
	if m == nil {
		return
	}
	if opts.StateVar == "" && m.meta.IsDefined("detect", "state_var") {
		opts.StateVar = strings.TrimSpace(m.Config.Detect.StateVar)
	}
	if opts.MaxBlockScan == 0 && m.meta.IsDefined("scan", "max_block_lines") {
		opts.MaxBlockScan = m.Config.Scan.MaxBlockLines
	}
	if opts.MaxNesting == 0 && m.meta.IsDefined("analysis", "max_nesting") {
		opts.MaxNesting = m.Config.Analysis.MaxNesting
	}
	if opts.TerminalPattern == "" && m.meta.IsDefined("analysis", "terminal_pattern") {
		opts.TerminalPattern = m.Config.Analysis.TerminalPattern
	}
}

// manifestStartDir picks where the upward walk begins for a target path.
func manifestStartDir(target string) string {
	st, err := os.Stat(target)
	if err == nil && st.IsDir() {
		return target
	}
	return filepath.Dir(target)
}
