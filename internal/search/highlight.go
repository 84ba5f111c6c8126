package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/mesh-intelligence/shelf/internal/textnorm"
)

// Span is a half-open byte range [Start, End) in display text.
type Span struct {
	Start, End int
}

// Highlight returns the non-overlapping byte ranges of text whose normalized
// form matches one of the query tokens, sorted by position. Matching is done
// rune by rune so ranges stay valid for text with multi-byte letters.
func Highlight(text, query string) []Span {
	tokens := textnorm.Tokens(query)
	if len(tokens) == 0 || text == "" {
		return nil
	}

	// keys[i] is the normalized form of the rune starting at offsets[i];
	// combining marks normalize to "" and are skipped while matching.
	var keys []string
	var offsets []int
	for i, r := range text {
		k := " "
		if !unicode.IsSpace(r) {
			k = textnorm.Key(string(r))
		}
		keys = append(keys, k)
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(text))

	var spans []Span
	for _, tok := range tokens {
		for start := 0; start < len(keys); start++ {
			end, ok := matchAt(keys, start, tok)
			if ok {
				spans = append(spans, Span{Start: offsets[start], End: offsets[end]})
			}
		}
	}
	return merge(spans)
}

// matchAt reports whether the rune keys starting at start spell tok and
// returns the index one past the last rune consumed.
func matchAt(keys []string, start int, tok string) (int, bool) {
	if keys[start] == "" || keys[start] == " " {
		return 0, false
	}
	rest := tok
	i := start
	for rest != "" && i < len(keys) {
		k := keys[i]
		if k == "" {
			i++
			continue
		}
		if !strings.HasPrefix(rest, k) {
			return 0, false
		}
		rest = rest[len(k):]
		i++
	}
	return i, rest == ""
}

func merge(spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}
	sort.Slice(spans, func(a, b int) bool { return spans[a].Start < spans[b].Start })
	out := []Span{spans[0]}
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// Mark wraps every highlighted span of text in open and close markers.
func Mark(text, query, open, close string) string {
	spans := Highlight(text, query)
	if len(spans) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + len(spans)*(len(open)+len(close)))
	prev := 0
	for _, s := range spans {
		b.WriteString(text[prev:s.Start])
		b.WriteString(open)
		b.WriteString(text[s.Start:s.End])
		b.WriteString(close)
		prev = s.End
	}
	b.WriteString(text[prev:])
	return b.String()
}
