package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/CloudClassify/internal/emoji"
	"github.com/yildizm/CloudClassify/internal/state"
	"github.com/yildizm/go-termfmt"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(outcome *Outcome) ([]byte, error) {
	var b strings.Builder

	b.WriteString(emoji.GetEmoji("cloud") + " Cloud Classifier\n\n")

	if outcome.File != nil {
		f.writeFile(&b, outcome)
	}

	if outcome.Err != nil {
		fmt.Fprintf(&b, "%s %s\n", emoji.ForKind(string(outcome.Err.Kind)), state.ErrorLine(outcome.Err))
	}

	if outcome.Result != nil {
		f.writeResult(&b, outcome)
	}

	return []byte(b.String()), nil
}

// writeFile writes the submitted file as a tree
func (f *terminalFormatter) writeFile(b *strings.Builder, outcome *Outcome) {
	b.WriteString(emoji.GetEmoji("file") + " " + outcome.File.Name + "\n")

	items := []termfmt.TreeItem{
		{Label: "Type", Value: outcome.File.ContentType},
		{Label: "Size", Value: formatBytes(outcome.File.Size()), Last: true},
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

// writeResult writes the contract lines followed by a confidence bar
func (f *terminalFormatter) writeResult(b *strings.Builder, outcome *Outcome) {
	r := outcome.Result
	b.WriteString(emoji.GetEmoji("result") + " " + state.ResultHeading + "\n")
	b.WriteString(state.ClassLine(r) + "\n")
	b.WriteString(state.ConfidenceLine(r) + "\n")
	b.WriteString(termfmt.CreateConfidenceBar(r.Confidence, f.opts) + "\n")
}

// formatBytes renders a byte count with a binary unit
func formatBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := int64(n) / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
