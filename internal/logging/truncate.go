package logging

import "fmt"

// MaxBodyLen bounds how much of an inbound or upstream body is written to the log.
const MaxBodyLen = 1024

// Truncate shortens s to maxLen bytes, noting the original size.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + fmt.Sprintf("... [truncated, %d bytes total]", len(s))
}

// Body truncates a payload to MaxBodyLen for logging.
func Body(b []byte) string {
	return Truncate(string(b), MaxBodyLen)
}
