package state

import (
	"github.com/yildizm/CloudClassify/internal/predict"
)

// Line prefixes of the rendered form
const (
	ErrorPrefix      = "Error: "
	ClassPrefix      = "Predicted Class: "
	ConfidencePrefix = "Confidence: "
	ResultHeading    = "Prediction Result"
)

// ErrorLine renders the error region
func ErrorLine(err *predict.Error) string {
	return ErrorPrefix + err.Message
}

// ClassLine renders the predicted class
func ClassLine(r *predict.Result) string {
	return ClassPrefix + r.PredictedClass
}

// ConfidenceLine renders the confidence as a two-decimal percentage
func ConfidenceLine(r *predict.Result) string {
	return ConfidencePrefix + r.Percent()
}

// Lines renders the visible regions of s as plain text, error first.
// It returns nil when neither a result nor an error is set.
func Lines(s State) []string {
	var lines []string
	if s.Err != nil {
		lines = append(lines, ErrorLine(s.Err))
	}
	if s.Result != nil {
		lines = append(lines, ClassLine(s.Result), ConfidenceLine(s.Result))
	}
	return lines
}
