package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"spoke/internal/driver"
	"spoke/internal/pipeline"
	"spoke/internal/ui"
)

type dirOutcome struct {
	results []*driver.Result
	err     error
}

// runGenerateDirWithUI runs driver.GenerateDir while a progress view follows
// its events.
func runGenerateDirWithUI(ctx context.Context, title, dir string, files []string, opts driver.Options) ([]*driver.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan dirOutcome, 1)

	go func() {
		results, err := driver.GenerateDir(ctx, dir, opts, pipeline.ChannelSink{Ch: events})
		outcomeCh <- dirOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, pipeline.DisplayFiles(files, dir), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// если UI завершился раньше, не даём генерации заблокироваться на канале
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
