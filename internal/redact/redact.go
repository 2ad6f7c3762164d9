// Package redact strips credentials from strings before they are logged or
// returned in error responses.
//
// Model client errors routinely carry the request URL (Gemini sends the API
// key as a ?key= query parameter) or echo a malformed key back, so every error
// from a generation attempt goes through Error before it reaches a log line.
package redact

import "regexp"

// Placeholders written in place of redacted values.
const (
	RedactionPlaceholder   = "[REDACTED]"
	RedactedKeyPlaceholder = "[REDACTED_KEY]"
	RedactedJWTPlaceholder = "[REDACTED_JWT]"
	RedactedEmail          = "[REDACTED_EMAIL]"
	redactedBearer         = "Bearer [REDACTED_TOKEN]"
)

type rule struct {
	re          *regexp.Regexp
	replacement string
}

// Rules run in order; earlier rules keep the surrounding syntax so later
// ones do not see the secret.
var rules = []rule{
	{
		re:          regexp.MustCompile(`(?i)([?&](?:key|api_key|apikey|access_token|token)=)[^&\s"']+`),
		replacement: "${1}" + RedactionPlaceholder,
	},
	{
		re:          regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9_\-.~+/=]{8,}`),
		replacement: redactedBearer,
	},
	{
		re: regexp.MustCompile(
			`(?i)\b(api[_-]?key|x-goog-api-key|secret|signing_key|password|token)(["']?\s*[:=]\s*["']?)[^\s"'&,]{6,}`,
		),
		replacement: "${1}${2}" + RedactionPlaceholder,
	},
	{
		re:          regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`),
		replacement: RedactedJWTPlaceholder,
	},
	{
		// Google API keys
		re:          regexp.MustCompile(`AIza[0-9A-Za-z_\-]{35}`),
		replacement: RedactedKeyPlaceholder,
	},
	{
		// OpenAI-style secret keys
		re:          regexp.MustCompile(`\bsk-[A-Za-z0-9_\-]{16,}`),
		replacement: RedactedKeyPlaceholder,
	},
	{
		re:          regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		replacement: RedactedEmail,
	},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.re.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
