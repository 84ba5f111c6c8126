package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlight(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  []Span
	}{
		{"empty query", "Dune", "  ", nil},
		{"ascii", "Dune Messiah", "mess", []Span{{5, 9}}},
		{"case insensitive", "Dune", "DUNE", []Span{{0, 4}}},
		{"diacritic in text", "Kürk Mantolu", "kurk", []Span{{0, 5}}},
		{"overlapping tokens merge", "Madonna", "mad don", []Span{{0, 5}}},
		{"two tokens", "Frank Herbert", "frank bert", []Span{{0, 5}, {9, 13}}},
		{"no cross-word match", "Fr ank", "frank", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Highlight(tt.text, tt.query))
		})
	}
}

func TestMark(t *testing.T) {
	assert.Equal(t, "[Kürk] Mantolu Madonna", Mark("Kürk Mantolu Madonna", "KURK", "[", "]"))
	assert.Equal(t, "Dune", Mark("Dune", "orwell", "[", "]"))
}
