package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"stchart/internal/edit"
)

// editCommands lists every rewrite command so main can register them
// in one go. Each applies a text-preserving mutator; a rewrite that
// cannot be applied safely leaves the file untouched.
var editCommands = []*cobra.Command{
	renameCmd,
	removeStepCmd,
	insertStepCmd,
	retargetCmd,
	setPriorityCmd,
	reorderCmd,
	normalizeCmd,
}

var (
	editStdout    bool
	editStripRefs bool
	editStride    int
)

func init() {
	for _, c := range editCommands {
		c.Flags().BoolVar(&editStdout, "stdout", false, "print the result instead of rewriting the file")
	}
	removeStepCmd.Flags().BoolVar(&editStripRefs, "strip-refs", false, "also delete assignments that target the removed step")
	normalizeCmd.Flags().IntVar(&editStride, "stride", 10, "spacing between rewritten priorities")
}

var renameCmd = &cobra.Command{
	Use:   "rename <file.st> <old> <new>",
	Short: "Rename a step everywhere it appears",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyEdit(cmd, args[0], func(text string) string {
			return edit.RenameStep(text, args[1], args[2])
		})
	},
}

var removeStepCmd = &cobra.Command{
	Use:   "remove-step <file.st> <name>",
	Short: "Remove a step, its declaration and its chain segment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyEdit(cmd, args[0], func(text string) string {
			return edit.RemoveStep(text, args[1], edit.RemoveOptions{StripReferences: editStripRefs})
		})
	},
}

var insertStepCmd = &cobra.Command{
	Use:   "insert-step <file.st> <from> <to> <new>",
	Short: "Insert a new step on an existing from->to transition",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyEdit(cmd, args[0], func(text string) string {
			return edit.InsertStepBetween(text, args[1], args[2], args[3])
		})
	},
}

var retargetCmd = &cobra.Command{
	Use:   "retarget <file.st> <step> <index> <target>",
	Short: "Point one transition at a different step (zero-based index)",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid transition index %q", args[2])
		}
		return applyEdit(cmd, args[0], func(text string) string {
			return edit.Retarget(text, args[1], idx, args[3])
		})
	},
}

var setPriorityCmd = &cobra.Command{
	Use:   "set-priority <file.st> <step> <index> <priority>",
	Short: "Pin an explicit priority marker on a transition (zero-based index)",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid transition index %q", args[2])
		}
		pri, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("invalid priority %q", args[3])
		}
		return applyEdit(cmd, args[0], func(text string) string {
			return edit.SetPriority(text, args[1], idx, pri)
		})
	},
}

var reorderCmd = &cobra.Command{
	Use:   "reorder <file.st> <step> <i,j,...>",
	Short: "Reorder a step's transitions by a zero-based permutation",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		order, err := parseOrder(args[2])
		if err != nil {
			return err
		}
		return applyEdit(cmd, args[0], func(text string) string {
			return edit.ReorderTransitions(text, args[1], order)
		})
	},
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <file.st> <step>",
	Short: "Rewrite a step's priorities as an evenly spaced explicit ladder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyEdit(cmd, args[0], func(text string) string {
			return edit.NormalizePriorities(text, args[1], editStride)
		})
	},
}

// applyEdit runs one mutator over the file. The mutators refuse unsafe
// rewrites by returning their input unchanged; that surfaces here as a
// "no changes" failure so scripts notice.
func applyEdit(cmd *cobra.Command, path string, mutate func(string) string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	before := string(data)
	after := mutate(before)
	if after == before {
		cmd.SilenceUsage = true
		return fmt.Errorf("%s: no changes applied", path)
	}

	if editStdout {
		fmt.Fprint(os.Stdout, after)
		return nil
	}
	perm := os.FileMode(0o644)
	if st, err := os.Stat(path); err == nil {
		perm = st.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(after), perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err == nil && !quiet {
		fmt.Fprintf(os.Stdout, "rewrote %s\n", path)
	}
	return nil
}

func parseOrder(value string) ([]int, error) {
	parts := strings.Split(value, ",")
	order := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid order %q", value)
		}
		order = append(order, n)
	}
	return order, nil
}
