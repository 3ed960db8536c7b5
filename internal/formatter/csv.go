package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// csvFormatter formats outcomes as CSV rows. The header is written once,
// before the first row, so one formatter can serve a stream of outcomes.
type csvFormatter struct {
	mu            sync.Mutex
	headerWritten bool
}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{}
}

var csvHeaders = []string{
	"Settled At",
	"File",
	"Predicted Class",
	"Confidence",
	"Error Kind",
	"Error",
}

func (f *csvFormatter) Format(outcome *Outcome) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	if !f.headerWritten {
		if err := writer.Write(csvHeaders); err != nil {
			return nil, fmt.Errorf("failed to write CSV headers: %w", err)
		}
		f.headerWritten = true
	}

	row := make([]string, len(csvHeaders))
	if !outcome.SettledAt.IsZero() {
		row[0] = outcome.SettledAt.Format(time.RFC3339)
	}
	if outcome.File != nil {
		row[1] = outcome.File.Name
	}
	if outcome.Result != nil {
		row[2] = outcome.Result.PredictedClass
		row[3] = strconv.FormatFloat(outcome.Result.Confidence, 'f', -1, 64)
	}
	if outcome.Err != nil {
		row[4] = string(outcome.Err.Kind)
		row[5] = outcome.Err.Message
	}

	if err := writer.Write(row); err != nil {
		return nil, fmt.Errorf("failed to write CSV row: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return b.Bytes(), nil
}
