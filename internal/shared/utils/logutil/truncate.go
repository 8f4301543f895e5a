package logutil

// TruncateForLog shortens s to at most maxLen characters for logging,
// appending "..." when something was cut. It never splits a multi-byte
// character.
func TruncateForLog(s string, maxLen int) string {
	if maxLen <= 0 {
		return "..."
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
