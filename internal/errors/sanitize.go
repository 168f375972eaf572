package errors

import "regexp"

// Credential shapes that must never surface in error output: Atlassian API
// tokens, basic-auth userinfo in URLs, and bearer/token headers.
var sanitizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`ATATT[A-Za-z0-9_\-=]+`),
	regexp.MustCompile(`(?i)(authorization:\s*)(?:basic|bearer)\s+\S+`),
	regexp.MustCompile(`(?i)(api[_-]?token["'=:\s]+)\S+`),
	regexp.MustCompile(`://[^/\s:@]+:[^/\s@]+@`),
}

// Sanitize removes credential material from a message before it reaches logs
// or the user. Matched spans are replaced with [REDACTED].
func Sanitize(message string) string {
	for _, re := range sanitizePatterns {
		message = re.ReplaceAllStringFunc(message, func(m string) string {
			if sub := re.FindStringSubmatch(m); len(sub) > 1 && sub[1] != "" {
				return sub[1] + "[REDACTED]"
			}
			if m[:3] == "://" {
				return "://[REDACTED]@"
			}
			return "[REDACTED]"
		})
	}
	return message
}
