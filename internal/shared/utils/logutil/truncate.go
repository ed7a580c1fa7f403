// Package logutil holds helpers for keeping log and error fields short.
package logutil

// TruncateForLog cuts s to maxLen bytes and marks the cut with "...".
func TruncateForLog(s string, maxLen int) string {
	if maxLen <= 0 {
		return "..."
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
