package ledger

import (
	"regexp"
	"strings"
)

var (
	sensitivePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)delegation`),
		regexp.MustCompile(`(?i)identity`),
		regexp.MustCompile(`(?i)token`),
		regexp.MustCompile(`(?i)principal`),
		// Long alphanumeric runs are likely credentials.
		regexp.MustCompile(`(?i)[a-z0-9]{20,}`),
	}
)

const safeMessageMaxLen = 200

// SanitizeError derives a message safe to show a caller from a backend error.
// Credential-looking substrings are redacted and the result is capped; common
// transport failures collapse into fixed, actionable messages.
func SanitizeError(err error) string {
	if err == nil {
		return "An unknown error occurred. Please try again."
	}

	message := strings.TrimSpace(err.Error())
	if message == "" {
		return "An error occurred while connecting to the service. Please try again."
	}

	sanitized := message
	for _, p := range sensitivePatterns {
		sanitized = p.ReplaceAllString(sanitized, "[REDACTED]")
	}

	if len(sanitized) > safeMessageMaxLen {
		sanitized = sanitized[:safeMessageMaxLen] + "..."
	}

	lower := strings.ToLower(sanitized)
	if strings.Contains(lower, "fetch") || strings.Contains(lower, "network") || strings.Contains(lower, "connection refused") || strings.Contains(lower, "no such host") {
		return "Network error: Unable to connect to the service. Please check your connection and try again."
	}
	if strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded") {
		return "Request timed out. Please try again."
	}

	return sanitized
}
