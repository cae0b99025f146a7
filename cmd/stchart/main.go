package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"stchart/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "stchart",
	Short: "Structured Text state chart toolchain",
	Long:  `stchart recovers state machines from Structured Text sources, checks them and rewrites them`,
}

func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	for _, c := range editCommands {
		rootCmd.AddCommand(c)
	}
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to keep (0=default)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func useColor(cmd *cobra.Command) (bool, error) {
	flag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	return flag == "on" || (flag == "auto" && isTerminal(os.Stdout)), nil
}
