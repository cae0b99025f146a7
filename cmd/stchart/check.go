package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stchart/internal/diag"
	"stchart/internal/diagfmt"
	"stchart/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.st|directory>",
	Short: "Recover the state chart and report structural findings",
	Long:  `Check parses one file or every *.st file under a directory, rebuilds the state machine graph and reports unreachable steps, deadlocks, priority conflicts and other structural issues`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	checkCmd.Flags().String("state-var", "", "pin the state variable instead of detecting it")
	checkCmd.Flags().Int("max-block-scan", 0, "max lines scanned per IF block (0=default)")
	checkCmd.Flags().Int("max-nesting", 0, "max conditional nesting inside a step body (0=default)")
	checkCmd.Flags().String("terminal-pattern", "", "regexp naming steps allowed to have no exits")
	checkCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	checkCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	checkCmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	checkCmd.Flags().Bool("disk-cache", false, "cache per-file findings on disk keyed by content hash")
	checkCmd.Flags().Bool("no-manifest", false, "skip stchart.toml discovery")
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "short":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if noWarnings && warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}

	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	enableDiskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	noManifest, err := cmd.Flags().GetBool("no-manifest")
	if err != nil {
		return fmt.Errorf("failed to get no-manifest flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	opts, err := pipelineOptions(cmd)
	if err != nil {
		return err
	}
	if !noManifest {
		manifest, ok, err := loadProjectManifest(manifestStartDir(target))
		if err != nil {
			return err
		}
		if ok {
			manifest.apply(&opts)
		}
	}
	if enableDiskCache {
		cache, err := driver.OpenDiskCache("stchart")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		opts.Cache = cache
	}

	files, err := driver.CollectFiles(target)
	if err != nil {
		return fmt.Errorf("failed to collect files: %w", err)
	}
	if len(files) == 0 {
		if !quiet {
			fmt.Fprintf(os.Stdout, "%s: no .st files\n", target)
		}
		return nil
	}

	var results []driver.BatchResult
	if len(files) > 1 && format == "pretty" && !quiet && shouldUseTUI(mode) {
		results, err = runChecksWithUI(cmd.Context(), fmt.Sprintf("checking %s", target), files, opts, jobs)
		if err != nil {
			return err
		}
	} else {
		results = driver.CheckPaths(cmd.Context(), files, opts, jobs, nil)
	}

	colorOn, err := useColor(cmd)
	if err != nil {
		return err
	}
	prettyOpts := diagfmt.PrettyOpts{Color: colorOn, ShowNotes: withNotes}

	exit := 0
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			exit = 1
			continue
		}
		r.Result.Bag = filterBag(r.Result.Bag, noWarnings, warningsAsErrors)
		if r.Result.Bag.HasErrors() {
			exit = 1
		}
	}

	switch format {
	case "pretty":
		for idx, r := range results {
			if idx > 0 && len(results) > 1 {
				fmt.Fprintln(os.Stdout)
			}
			if len(results) > 1 {
				fmt.Fprintf(os.Stdout, "== %s ==\n", r.Path)
			}
			if r.Err != nil {
				fmt.Fprintf(os.Stdout, "%s: ERROR %s: %v\n", r.Path, diag.IOLoadFileError.ID(), r.Err)
				continue
			}
			if r.Result.Bag.Len() == 0 {
				if !quiet {
					fmt.Fprintf(os.Stdout, "%s: no findings\n", r.Path)
				}
				continue
			}
			diagfmt.Pretty(os.Stdout, r.Result.Snapshot, r.Result.Bag, prettyOpts)
		}
	case "short":
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(os.Stdout, "%s: error %s: %v\n", r.Path, diag.IOLoadFileError.ID(), r.Err)
				continue
			}
			diagfmt.Short(os.Stdout, r.Result.Snapshot, r.Result.Bag)
		}
	case "json":
		if len(results) == 1 && results[0].Err == nil {
			if err := diagfmt.JSON(os.Stdout, results[0].Result.Snapshot, results[0].Result.Bag, diagfmt.JSONOpts{}); err != nil {
				return fmt.Errorf("failed to format diagnostics: %w", err)
			}
			break
		}
		output := make(map[string]diagfmt.DiagnosticsOutput, len(results))
		for _, r := range results {
			if r.Err != nil {
				continue
			}
			output[r.Path] = diagfmt.BuildDiagnosticsOutput(r.Result.Snapshot, r.Result.Bag, diagfmt.JSONOpts{})
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return fmt.Errorf("failed to encode diagnostics output: %w", err)
		}
	}

	if exit != 0 {
		// диагностика уже напечатана, usage не нужен
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}

// pipelineOptions reads the shared pipeline flags into driver.Options.
func pipelineOptions(cmd *cobra.Command) (driver.Options, error) {
	var opts driver.Options
	var err error
	if opts.StateVar, err = cmd.Flags().GetString("state-var"); err != nil {
		return opts, fmt.Errorf("failed to get state-var flag: %w", err)
	}
	if opts.MaxBlockScan, err = cmd.Flags().GetInt("max-block-scan"); err != nil {
		return opts, fmt.Errorf("failed to get max-block-scan flag: %w", err)
	}
	if f := cmd.Flags().Lookup("max-nesting"); f != nil {
		if opts.MaxNesting, err = cmd.Flags().GetInt("max-nesting"); err != nil {
			return opts, fmt.Errorf("failed to get max-nesting flag: %w", err)
		}
	}
	if f := cmd.Flags().Lookup("terminal-pattern"); f != nil {
		if opts.TerminalPattern, err = cmd.Flags().GetString("terminal-pattern"); err != nil {
			return opts, fmt.Errorf("failed to get terminal-pattern flag: %w", err)
		}
	}
	if opts.MaxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return opts, nil
}

// filterBag applies --no-warnings / --warnings-as-errors after the run.
func filterBag(bag *diag.Bag, noWarnings, warningsAsErrors bool) *diag.Bag {
	if !noWarnings && !warningsAsErrors {
		return bag
	}
	out := diag.NewBag(int(bag.Cap()))
	for _, d := range bag.Items() {
		if d.Severity == diag.SevWarning {
			if noWarnings {
				continue
			}
			d.Severity = diag.SevError
		}
		out.Add(d)
	}
	return out
}
