package ui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"tsbind/internal/driver"
)

type bindOutcome struct {
	report *driver.Report
	err    error
}

// RunBind runs driver.BindFiles while the progress view draws to out.
func RunBind(ctx context.Context, title string, files []string, opts driver.Options, out io.Writer) (*driver.Report, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan bindOutcome, 1)

	go func() {
		o := opts
		o.Progress = driver.ChannelSink{Ch: events}
		report, err := driver.BindFiles(ctx, files, o)
		outcomeCh <- bindOutcome{report: report, err: err}
		close(events)
	}()

	program := tea.NewProgram(NewProgressModel(title, files, events), tea.WithOutput(out), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// Keep the producer from blocking on a full channel.
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.report, uiErr
	}
	return outcome.report, outcome.err
}
