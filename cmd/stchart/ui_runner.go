package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"stchart/internal/driver"
	"stchart/internal/ui"
)

type checkOutcome struct {
	results []driver.BatchResult
	err     error
}

// runChecksWithUI drives the batch through the progress TUI. The worker
// goroutine feeds one terminal event per file and closes the channel
// when the batch is done; the model quits on channel close.
func runChecksWithUI(ctx context.Context, title string, files []string, opts driver.Options, jobs int) ([]driver.BatchResult, error) {
	events := make(chan ui.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		progress := func(done, total int, res driver.BatchResult) {
			events <- batchEvent(res)
		}
		results := driver.CheckPaths(ctx, files, opts, jobs, progress)
		outcomeCh <- checkOutcome{results: results}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}

func batchEvent(res driver.BatchResult) ui.Event {
	ev := ui.Event{Path: res.Path}
	switch {
	case res.Err != nil:
		ev.Status = ui.StatusError
	case res.Result.Bag.Len() > 0:
		ev.Status = ui.StatusFindings
		ev.Findings = res.Result.Bag.Len()
	default:
		ev.Status = ui.StatusClean
	}
	return ev
}
