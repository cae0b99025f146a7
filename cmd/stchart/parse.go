package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stchart/internal/diagfmt"
	"stchart/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.st>",
	Short: "Recover and print the state chart without analysis",
	Long:  `Parse rebuilds the step/transition graph from one Structured Text file and prints it; no structural checks are run`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	parseCmd.Flags().String("state-var", "", "pin the state variable instead of detecting it")
	parseCmd.Flags().Int("max-block-scan", 0, "max lines scanned per IF block (0=default)")
	parseCmd.Flags().Bool("no-manifest", false, "skip stchart.toml discovery")
}

func runParse(cmd *cobra.Command, args []string) error {
	target := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	noManifest, err := cmd.Flags().GetBool("no-manifest")
	if err != nil {
		return fmt.Errorf("failed to get no-manifest flag: %w", err)
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

	res, err := driver.ParseFile(target, opts)
	if err != nil {
		return err
	}

	switch format {
	case "pretty":
		colorOn, err := useColor(cmd)
		if err != nil {
			return err
		}
		diagfmt.ChartPretty(os.Stdout, res.Snapshot, res.Chart, diagfmt.PrettyOpts{Color: colorOn})
	case "json":
		if err := diagfmt.ChartJSONTo(os.Stdout, res.Snapshot, res.Chart); err != nil {
			return fmt.Errorf("failed to encode chart: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}
