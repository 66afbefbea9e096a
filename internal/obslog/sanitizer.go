// Package obslog sanitizes sampled column values before they reach a log
// line. Sample values (§3 ColumnDef.sample_values) are customer data the
// engine only ever uses as a scoring signal; they must never appear
// unredacted in structured logs.
package obslog

import "regexp"

const (
	// MaxSampleLogLength is the maximum length of a single sample value to log.
	MaxSampleLogLength = 40
	// MaxSamplesLogged caps how many sample values from one column are logged.
	MaxSamplesLogged = 5
	// RedactedText is the replacement text for sensitive-looking sample data.
	RedactedText = "[REDACTED]"
)

var (
	// Pattern to match email-shaped sample values.
	emailPattern = regexp.MustCompile(`(?i)^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

	// Pattern to match long digit runs (card numbers, SSNs, account numbers).
	longDigitRunPattern = regexp.MustCompile(`^\d{9,}$`)
)

// SanitizeSample truncates and redacts a single sample value for logging.
func SanitizeSample(value string) string {
	if value == "" {
		return ""
	}
	if emailPattern.MatchString(value) || longDigitRunPattern.MatchString(value) {
		return RedactedText
	}
	return TruncateString(value, MaxSampleLogLength)
}

// SanitizeSamples sanitizes and caps a slice of sample values for a single
// log field, preserving order.
func SanitizeSamples(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	n := len(values)
	if n > MaxSamplesLogged {
		n = MaxSamplesLogged
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = SanitizeSample(values[i])
	}
	return out
}

// TruncateString truncates a string to maxLen and adds ellipsis if needed.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
