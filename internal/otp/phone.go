package otp

import "strings"

// Accepted phone length after stripping non-digits (country code + subscriber number).
const (
	MinPhoneDigits = 10
	MaxPhoneDigits = 15
)

// NormalizePhone strips every non-digit character from raw.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, c := range raw {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// ValidPhone reports whether a normalized phone has an accepted number of digits.
func ValidPhone(normalized string) bool {
	return len(normalized) >= MinPhoneDigits && len(normalized) <= MaxPhoneDigits
}

// E164 returns the SMS destination for a normalized phone ("+" followed by the digits).
func E164(normalized string) string {
	return "+" + normalized
}
