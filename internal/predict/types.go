package predict

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// File is the payload chosen by the user for classification.
// It is replaced wholesale on each selection and never persisted.
type File struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// Size returns the payload length in bytes
func (f *File) Size() int {
	return len(f.Data)
}

// Result is the classification returned by a successful prediction
type Result struct {
	PredictedClass string  `json:"predicted_class"`
	Confidence     float64 `json:"confidence"`
}

// Percent formats the confidence as a percentage with two decimals, e.g. "87.34%"
func (r *Result) Percent() string {
	return FormatConfidence(r.Confidence)
}

// FormatConfidence formats a [0,1] score as a percentage with two decimals.
// Out of range scores are formatted as-is. Ties on the exact binary value of
// confidence*100 round half away from zero.
func FormatConfidence(confidence float64) string {
	pct := confidence * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return fmt.Sprintf("%.2f%%", pct)
	}

	sign := ""
	if pct < 0 {
		sign = "-"
		pct = -pct
	}

	// floor(pct*100 + 1/2), computed exactly
	scaled := new(big.Rat).SetFloat64(pct)
	scaled.Mul(scaled, big.NewRat(100, 1))
	scaled.Add(scaled, big.NewRat(1, 2))
	hundredths := new(big.Int).Quo(scaled.Num(), scaled.Denom())

	whole, frac := new(big.Int).QuoRem(hundredths, big.NewInt(100), new(big.Int))
	return fmt.Sprintf("%s%s.%02d%%", sign, whole.String(), frac.Int64())
}

// predictResponse is the body returned by the prediction service for both outcomes
type predictResponse struct {
	PredictedClass string          `json:"predicted_class"`
	Confidence     float64         `json:"confidence"`
	Error          json.RawMessage `json:"error,omitempty"`
}

// errorMessage returns the error field as display text. Strings are unquoted,
// other JSON values are shown as written.
func (r *predictResponse) errorMessage() string {
	raw := bytes.TrimSpace(r.Error)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// NewFile builds a File from memory. The content type is taken from the
// extension of name, falling back to sniffing data.
func NewFile(name string, data []byte) *File {
	return &File{
		Name:        name,
		ContentType: detectContentType(name, data),
		Data:        data,
	}
}

// OpenFile reads a file from disk. No type or size checks are applied.
func OpenFile(path string) (*File, error) {
	cleanPath := filepath.Clean(strings.TrimSpace(path))
	if cleanPath == "" || cleanPath == "." {
		return nil, fmt.Errorf("empty file path")
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", cleanPath)
	}

	// #nosec G304 - the user picks the file to upload
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return NewFile(filepath.Base(cleanPath), data), nil
}

// detectContentType prefers the extension, then the first bytes of the content
func detectContentType(name string, data []byte) string {
	if ext := filepath.Ext(name); ext != "" {
		if ct := mime.TypeByExtension(strings.ToLower(ext)); ct != "" {
			return ct
		}
	}
	if len(data) > 0 {
		return http.DetectContentType(data)
	}
	return "application/octet-stream"
}
