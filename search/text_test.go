package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeAndFilter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "removes stop words",
			input:    "qual é o prazo de prescrição",
			expected: []string{"prazo", "prescrição"},
		},
		{
			name:     "trims punctuation and lowercases",
			input:    "Rescisão, Contratual!",
			expected: []string{"rescisão", "contratual"},
		},
		{
			name:     "only stop words",
			input:    "o que é a",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tokenizeAndFilter(tt.input))
		})
	}
}

func TestContainsAllQueryWords(t *testing.T) {
	doc := "O prazo prescricional da pretensão de reparação civil é de três anos."

	assert.True(t, containsAllQueryWords(doc, "prazo prescricional"))
	assert.True(t, containsAllQueryWords(doc, "qual o prazo de reparação"))
	assert.False(t, containsAllQueryWords(doc, "prazo decadencial"))
	assert.False(t, containsAllQueryWords(doc, "o que é a"), "query of only stop words never matches")
}
