package emoji

import "testing"

func TestGetEmojiFallback(t *testing.T) {
	defer SetEmojiDisabled(false)

	SetEmojiDisabled(false)
	if got := GetEmoji("error"); got != "❌" {
		t.Errorf("Expected emoji, got %q", got)
	}

	SetEmojiDisabled(true)
	if got := GetEmoji("error"); got != "[ERR]" {
		t.Errorf("Expected fallback, got %q", got)
	}
	if !IsEmojiDisabled() {
		t.Error("Expected emoji to be disabled")
	}

	if got := GetEmoji("nope"); got != "[?]" {
		t.Errorf("Expected unknown marker, got %q", got)
	}
}

func TestForKind(t *testing.T) {
	SetEmojiDisabled(true)
	defer SetEmojiDisabled(false)

	tests := map[string]string{
		"validation": "[WRN]",
		"service":    "[ERR]",
		"transport":  "[ERR]",
		"":           "[OK]",
	}
	for kind, want := range tests {
		if got := ForKind(kind); got != want {
			t.Errorf("ForKind(%q) = %q, want %q", kind, got, want)
		}
	}
}
