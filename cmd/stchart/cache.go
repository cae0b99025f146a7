package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stchart/internal/driver"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the on-disk findings cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached check result",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := driver.OpenDiskCache("stchart")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("failed to clear disk cache: %w", err)
		}
		quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
		if err == nil && !quiet {
			fmt.Fprintln(os.Stdout, "disk cache cleared")
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}
