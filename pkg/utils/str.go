package utils

import (
	"strings"
)

// FirstNonEmpty returns the first non-empty value
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// SplitByMultipleDelimiters splits s on any of the delimiters, trimming
// blanks and dropping empty parts, so "a, b;;c" yields [a b c].
func SplitByMultipleDelimiters(s string, delimiters ...string) []string {
	parts := []string{s}
	for _, d := range delimiters {
		var next []string
		for _, p := range parts {
			next = append(next, strings.Split(p, d)...)
		}
		parts = next
	}
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
