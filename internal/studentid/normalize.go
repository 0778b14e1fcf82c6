// Package studentid canonicalizes raw student identifiers. The canonical
// form S-<digits> is the only payload ever embedded in a student QR code,
// so the same function screens scanned text, manual entry, and CSV cells.
package studentid

import (
	"regexp"
	"strings"
)

var (
	prefixed = regexp.MustCompile(`^S-?\d+$`)
	bare     = regexp.MustCompile(`^\d+$`)
)

// Normalize turns raw text into the canonical S-<digits> form, or returns
// "" when the text is not a student identifier. Payloads that look like
// JSON or URLs are rejected outright so that foreign QR codes never resolve
// to a student. Normalize is idempotent on its own output.
func Normalize(raw string) string {
	s := strings.Join(strings.Fields(raw), "")
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "http") || strings.Contains(s, "://") {
		return ""
	}
	s = strings.ToUpper(s)
	switch {
	case prefixed.MatchString(s):
		if strings.HasPrefix(s, "S-") {
			return s
		}
		return "S-" + strings.TrimPrefix(s, "S")
	case bare.MatchString(s):
		return "S-" + s
	}
	return ""
}
