package formatter

import (
	"encoding/json"
	"time"

	"github.com/yildizm/CloudClassify/internal/predict"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// JSONOutput is the document written by the JSON formatter
type JSONOutput struct {
	File           *FileOutput    `json:"file,omitempty"`
	PredictedClass *string        `json:"predicted_class,omitempty"`
	Confidence     *float64       `json:"confidence,omitempty"`
	ConfidencePct  string         `json:"confidence_percent,omitempty"`
	Error          *predict.Error `json:"error,omitempty"`
	SettledAt      *time.Time     `json:"settled_at,omitempty"`
}

// FileOutput describes the submitted file
type FileOutput struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

func (f *jsonFormatter) Format(outcome *Outcome) ([]byte, error) {
	output := &JSONOutput{Error: outcome.Err}

	if outcome.File != nil {
		output.File = &FileOutput{
			Name:        outcome.File.Name,
			ContentType: outcome.File.ContentType,
			Size:        outcome.File.Size(),
		}
	}

	if outcome.Result != nil {
		class := outcome.Result.PredictedClass
		confidence := outcome.Result.Confidence
		output.PredictedClass = &class
		output.Confidence = &confidence
		output.ConfidencePct = outcome.Result.Percent()
	}

	if !outcome.SettledAt.IsZero() {
		settled := outcome.SettledAt
		output.SettledAt = &settled
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
