package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/CloudClassify/internal/state"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(outcome *Outcome) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Cloud Classifier\n\n")

	if outcome.File != nil {
		fmt.Fprintf(&b, "| File | Type | Size |\n|------|------|------|\n| `%s` | %s | %d |\n\n",
			escapeMarkdownCell(outcome.File.Name), outcome.File.ContentType, outcome.File.Size())
	}

	if outcome.Err != nil {
		fmt.Fprintf(&b, "> **%s**\n\n", state.ErrorLine(outcome.Err))
	}

	if outcome.Result != nil {
		b.WriteString("## " + state.ResultHeading + "\n\n")
		b.WriteString("- " + state.ClassLine(outcome.Result) + "\n")
		b.WriteString("- " + state.ConfidenceLine(outcome.Result) + "\n")
	}

	return []byte(b.String()), nil
}

func escapeMarkdownCell(s string) string {
	return strings.NewReplacer("|", "\\|", "`", "'").Replace(s)
}
