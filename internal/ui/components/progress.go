package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// Meter renders a fraction in [0, 1] as a horizontal bar
type Meter struct {
	Width  int
	Filled lipgloss.Style
	Empty  lipgloss.Style
}

// NewMeter creates a meter of the given width with unstyled cells
func NewMeter(width int) *Meter {
	return &Meter{
		Width:  width,
		Filled: lipgloss.NewStyle(),
		Empty:  lipgloss.NewStyle(),
	}
}

// Render renders the bar for value. Values outside [0, 1] are clamped for
// drawing only; the percentage label is left to the caller.
func (m *Meter) Render(value float64) string {
	if m.Width <= 0 {
		return ""
	}

	switch {
	case value < 0:
		value = 0
	case value > 1:
		value = 1
	}

	filledWidth := int(float64(m.Width)*value + 0.5)
	emptyWidth := m.Width - filledWidth

	filled := strings.Repeat("█", filledWidth)
	empty := strings.Repeat("░", emptyWidth)

	return fmt.Sprintf("[%s%s]", m.Filled.Render(filled), m.Empty.Render(empty))
}

// Spinner represents a spinning progress indicator
type Spinner struct {
	Frame int
	Label string
	Style lipgloss.Style
}

// NewSpinner creates a new spinner
func NewSpinner(label string) *Spinner {
	return &Spinner{Label: label, Style: lipgloss.NewStyle()}
}

// Tick advances the spinner animation
func (s *Spinner) Tick() {
	s.Frame = (s.Frame + 1) % len(spinnerFrames)
}

// Render renders the spinner
func (s *Spinner) Render() string {
	char := s.Style.Render(string(spinnerFrames[s.Frame%len(spinnerFrames)]))
	if s.Label != "" {
		return fmt.Sprintf("%s %s", char, s.Label)
	}
	return char
}
