package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tonnikala/internal/driver"
	"tonnikala/internal/source"
	"tonnikala/internal/ui"
)

type dirOutcome struct {
	results []*driver.Result
	err     error
}

// compileDirWithUI compiles dir while rendering progress on stderr, stdout
// stays reserved for the IR output.
func compileDirWithUI(ctx context.Context, fs *source.FileSet, dir string, opts driver.Options) ([]*driver.Result, error) {
	files, err := driver.ListTemplates(dir)
	if err != nil {
		return nil, err
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan dirOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.CompileDir(ctx, fs, dir, optsCopy)
		close(events)
		outcomeCh <- dirOutcome{results: res, err: err}
	}()

	model := ui.NewProgressModel("compiling "+dir, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithInput(nil))
	_, uiErr := program.Run()
	if uiErr != nil {
		// keep the workers from blocking on a full channel
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
