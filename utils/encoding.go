package utils

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// mojibakeFixes lists the broken sequences seen in exported catalog data.
// Order matters: longer Â/Ã sequences must be replaced before the bare prefix.
var mojibakeFixes = [][2]string{
	{"ω", "ú"},
	{"▋", "ó"},
	{"½", "ó"},
	{"ï", "í"},
	{"Â·", "·"},
	{"Â ", ""},
	{"Â", ""},
	{"Ã¡", "á"},
	{"Ã©", "é"},
	{"Ãí", "í"},
	{"Ã­", "í"},
	{"Ã³", "ó"},
	{"Ãº", "ú"},
	{"Ãñ", "ñ"},
	{"Ã¼", "ü"},
}

// FixUTF8 repairs text that was UTF-8 encoded and then decoded as Latin-1,
// then applies the fixed replacement table for leftovers.
func FixUTF8(s string) string {
	if s == "" {
		return s
	}

	out := s
	if latin1, err := charmap.ISO8859_1.NewEncoder().String(s); err == nil && latin1 != s && utf8.ValidString(latin1) {
		out = latin1
	}

	for _, fix := range mojibakeFixes {
		out = strings.ReplaceAll(out, fix[0], fix[1])
	}
	return out
}
