// Package textnorm normalizes free text before it is shipped to inference
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxInputRunes caps user supplied free text after normalization
const MaxInputRunes = 4000

// Clean normalizes s to NFC, strips control runes, and collapses runs of
// whitespace into single spaces. The result is trimmed and capped at
// MaxInputRunes runes so a pathological payload cannot balloon a broker record
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		if unicode.IsSpace(r) {
			if !space && b.Len() > 0 {
				b.WriteRune(' ')
				space = true
			}
			continue
		}
		space = false
		b.WriteRune(r)
	}

	out := strings.TrimSpace(b.String())
	runes := []rune(out)
	if len(runes) > MaxInputRunes {
		out = string(runes[:MaxInputRunes])
	}
	return out
}

// CleanAll applies Clean to every element, dropping entries that normalize
// to the empty string
func CleanAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if c := Clean(s); c != "" {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
