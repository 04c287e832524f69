package utils

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize turns any value into its comparison form: decomposed, with
// combining marks removed, lower-cased and trimmed. nil becomes "".
func Normalize(v any) string {
	raw := toString(v)
	if raw == "" {
		return ""
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, raw)
	if err != nil {
		return strings.TrimSpace(strings.ToLower(raw))
	}
	return strings.TrimSpace(strings.ToLower(stripped))
}

// Compact normalizes v and drops everything outside [a-z0-9].
func Compact(v any) string {
	n := Normalize(v)
	var b strings.Builder
	b.Grow(len(n))
	for _, r := range n {
		if isAlnum(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tokenize normalizes v and splits it on runs of characters outside [a-z0-9].
func Tokenize(v any) []string {
	return strings.FieldsFunc(Normalize(v), func(r rune) bool {
		return !isAlnum(r)
	})
}

// NormalizeName maps every run outside [a-z0-9] to a single space.
func NormalizeName(v any) string {
	return strings.Join(Tokenize(v), " ")
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

func toString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
