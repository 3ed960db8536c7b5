package formatter

import (
	"fmt"
	"time"

	"github.com/yildizm/CloudClassify/internal/predict"
	"github.com/yildizm/CloudClassify/internal/state"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(outcome *Outcome) ([]byte, error)
}

// Outcome is a settled attempt as seen by the user: the file that was
// submitted and either a result or an error (never both)
type Outcome struct {
	File      *predict.File
	Result    *predict.Result
	Err       *predict.Error
	SettledAt time.Time
}

// FromState captures the visible part of s
func FromState(s state.State) *Outcome {
	return &Outcome{
		File:      s.File,
		Result:    s.Result,
		Err:       s.Err,
		SettledAt: time.Now(),
	}
}

// Failed reports whether the outcome carries an error
func (o *Outcome) Failed() bool {
	return o.Err != nil
}

// New returns the formatter for the given format name
func New(format string, color bool) (Formatter, error) {
	switch format {
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	case "csv":
		return NewCSV(), nil
	case "text", "terminal", "":
		return NewTerminal(color), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}
