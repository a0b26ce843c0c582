package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CleanText folds compatibility characters (non-breaking spaces, full-width
// digits) and collapses every whitespace run to a single space.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// NonEmptyLines returns the trimmed, non-blank lines of s in order.
func NonEmptyLines(s string) []string {
	raw := strings.Split(s, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

// StringPtr returns nil for an empty string so "not found" stays distinguishable
// from a found value.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
