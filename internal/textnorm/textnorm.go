// Package textnorm derives comparison keys and display forms for titles and
// author names. Keys are case and diacritic insensitive and treat the Turkish
// dotted and dotless I as plain i.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// turkishI maps every I variant to a plain i. Generic folding turns İ into
// i plus a combining dot and leaves ı alone, so this runs first.
var turkishI = strings.NewReplacer("İ", "i", "I", "i", "ı", "i")

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// stripFormat drops invisible format characters such as a byte-order mark
// or a zero-width space.
var stripFormat = runes.Remove(runes.In(unicode.Cf))

// Key returns the canonical comparison key for s: format characters
// dropped, Turkish I mapping, case folding, combining marks removed,
// whitespace trimmed and collapsed.
// The empty string maps to the empty key.
func Key(s string) string {
	if s == "" {
		return ""
	}
	s = dropFormat(s)
	s = turkishI.Replace(s)
	s = cases.Fold().String(s)
	stripped, _, err := transform.String(stripMarks, s)
	if err == nil {
		s = stripped
	}
	return strings.Join(strings.Fields(s), " ")
}

// Tokens returns the whitespace separated words of Key(s).
func Tokens(s string) []string {
	return strings.Fields(Key(s))
}

// Equal reports whether a and b have the same key.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}

// TitleCase upper-cases the first letter of every word and lower-cases the
// rest using Turkish casing (i→İ, ı→I at the start, I→ı inside a word).
// Whitespace is collapsed to single spaces and format characters dropped.
func TitleCase(s string) string {
	s = dropFormat(s)
	upper := cases.Upper(language.Turkish)
	lower := cases.Lower(language.Turkish)
	words := strings.Fields(s)
	for i, w := range words {
		first, rest := splitFirst(w)
		words[i] = upper.String(first) + lower.String(rest)
	}
	return strings.Join(words, " ")
}

func dropFormat(s string) string {
	out, _, err := transform.String(stripFormat, s)
	if err != nil {
		return s
	}
	return out
}

// splitFirst splits w after its first rune.
func splitFirst(w string) (string, string) {
	for i := range w {
		if i > 0 {
			return w[:i], w[i:]
		}
	}
	return w, ""
}
