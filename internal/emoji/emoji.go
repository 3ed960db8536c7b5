package emoji

// emojiMap holds [emoji, fallback] pairs
var emojiMap = map[string][2]string{
	"error":   {"❌", "[ERR]"},
	"warning": {"⚠️", "[WRN]"},
	"info":    {"ℹ️", "[INF]"},
	"success": {"✅", "[OK]"},
	"cloud":   {"☁️", "[CLD]"},
	"file":    {"🖼️", "[IMG]"},
	"upload":  {"📤", "[UP]"},
	"result":  {"🎯", "[>]"},
	"watch":   {"👀", "[WATCH]"},
	"help":    {"❓", "[?]"},
	"door":    {"🚪", "[EXIT]"},
}

var emojiDisabled bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled = disabled
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled
}

// GetEmoji returns emoji or fallback based on no-emoji setting
func GetEmoji(key string) string {
	if mapping, exists := emojiMap[key]; exists {
		if emojiDisabled {
			return mapping[1]
		}
		return mapping[0]
	}
	return "[?]"
}

// ForKind returns the symbol matching an error kind name
func ForKind(kind string) string {
	switch kind {
	case "validation":
		return GetEmoji("warning")
	case "":
		return GetEmoji("success")
	default:
		return GetEmoji("error")
	}
}
