package main

import (
	"os"
	"path/filepath"
	"testing"

	"stchart/internal/driver"
)

func writeManifest(t *testing.T, dir, data string) string {
	t.Helper()
	path := filepath.Join(dir, "stchart.toml")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write stchart.toml: %v", err)
	}
	return path
}

func TestFindStchartTomlWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, "[detect]\nstate_var = \"step\"\n")

	nested := filepath.Join(root, "src", "plc")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, ok, err := findStchartToml(nested)
	if err != nil {
		t.Fatalf("findStchartToml: %v", err)
	}
	if !ok || found != path {
		t.Fatalf("findStchartToml = %q, %v; want %q, true", found, ok, path)
	}
}

func TestLoadProjectManifestApplies(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `[detect]
state_var = "phase"

[scan]
max_block_lines = 25

[analysis]
max_nesting = 6
terminal_pattern = "(?i)PARKED"
`)

	manifest, ok, err := loadProjectManifest(root)
	if err != nil {
		t.Fatalf("loadProjectManifest: %v", err)
	}
	if !ok {
		t.Fatalf("expected a manifest under %s", root)
	}

	var opts driver.Options
	manifest.apply(&opts)
	if opts.StateVar != "phase" {
		t.Fatalf("StateVar = %q, want phase", opts.StateVar)
	}
	if opts.MaxBlockScan != 25 {
		t.Fatalf("MaxBlockScan = %d, want 25", opts.MaxBlockScan)
	}
	if opts.MaxNesting != 6 {
		t.Fatalf("MaxNesting = %d, want 6", opts.MaxNesting)
	}
	if opts.TerminalPattern != "(?i)PARKED" {
		t.Fatalf("TerminalPattern = %q", opts.TerminalPattern)
	}
}

func TestManifestDoesNotOverridePinnedOptions(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[detect]\nstate_var = \"phase\"\n\n[analysis]\nmax_nesting = 6\n")

	manifest, ok, err := loadProjectManifest(root)
	if err != nil || !ok {
		t.Fatalf("loadProjectManifest: %v, %v", ok, err)
	}

	opts := driver.Options{StateVar: "mode", MaxNesting: 2}
	manifest.apply(&opts)
	if opts.StateVar != "mode" {
		t.Fatalf("flag-pinned StateVar must win, got %q", opts.StateVar)
	}
	if opts.MaxNesting != 2 {
		t.Fatalf("flag-pinned MaxNesting must win, got %d", opts.MaxNesting)
	}
}

func TestLoadProjectManifestRejectsBadValues(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[scan]\nmax_block_lines = 0\n")

	if _, _, err := loadProjectManifest(root); err == nil {
		t.Fatalf("zero max_block_lines must be rejected")
	}
}

func TestParseOrder(t *testing.T) {
	order, err := parseOrder("2, 0, 1")
	if err != nil {
		t.Fatalf("parseOrder: %v", err)
	}
	if len(order) != 3 || order[0] != 2 || order[1] != 0 || order[2] != 1 {
		t.Fatalf("parseOrder = %v", order)
	}
	if _, err := parseOrder("1,x"); err == nil {
		t.Fatalf("junk order must be rejected")
	}
}
