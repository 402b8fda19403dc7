// File: internal/provider/services.go
package provider

import (
	"strings"
	"unicode"

	"gorm.io/datatypes"
)

// ParseServices splits comma-separated form input into trimmed, non-empty entries.
// "A, B ,, C" becomes [A B C].
func ParseServices(raw string) datatypes.JSONSlice[string] {
	out := datatypes.JSONSlice[string]{}
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// JoinServices renders services back into the form's comma-separated input.
func JoinServices(services []string) string {
	return strings.Join(services, ", ")
}

// DigitsOnly strips everything but digits, the format WhatsApp links expect.
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}
