package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/CloudClassify/internal/predict"
	"github.com/yildizm/CloudClassify/internal/state"
)

// settledMsg carries a finished prediction back into Update
type settledMsg struct {
	settled state.Settled
}

// fileLoadedMsg reports a file read from disk and ready to submit
type fileLoadedMsg struct {
	file *predict.File
}

// fileErrorMsg reports a path that could not be read
type fileErrorMsg struct {
	path string
	err  error
}

// Animation message
type tickMsg time.Time

// Animation command
func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// predictCommand runs the prediction requested by the reducer
func predictCommand(ctx context.Context, p predict.Predictor, req *state.Request) tea.Cmd {
	return func() tea.Msg {
		result, err := p.Predict(ctx, req.File)
		return settledMsg{settled: state.SettledFrom(req.Attempt, result, err)}
	}
}

// loadFileCommand reads path off the UI goroutine
func loadFileCommand(path string) tea.Cmd {
	return func() tea.Msg {
		file, err := predict.OpenFile(path)
		if err != nil {
			return fileErrorMsg{path: path, err: err}
		}
		return fileLoadedMsg{file: file}
	}
}
