package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"bibfmt/internal/driver"
	"bibfmt/internal/ui"
)

type formatOutcome struct {
	report *driver.Report
	err    error
}

// runWithUI runs driver.FormatPaths in the background while a Bubble Tea
// program renders its progress events.
// Ctrl+C in the UI cancels the run.
func runWithUI(ctx context.Context, title string, files []string, opts driver.Options) (*driver.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan formatOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		rep, err := driver.FormatPaths(ctx, files, optsCopy)
		outcomeCh <- formatOutcome{report: rep, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	final, uiErr := program.Run()
	if m, ok := final.(interface{ Interrupted() bool }); ok && m.Interrupted() {
		cancel()
	}
	// программа могла выйти раньше драйвера
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.report, uiErr
	}
	return outcome.report, outcome.err
}
