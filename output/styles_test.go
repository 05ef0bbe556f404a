package output

import (
	"bytes"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestNewStyles(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	assert.NotZero(t, styles)
	assert.NotZero(t, styles.Output())
}

func TestStylesKeepText(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	tests := []struct {
		name  string
		style func(string) string
		text  string
	}{
		{"Success", styles.Success, "Check passed"},
		{"Error", styles.Error, "no keywords"},
		{"FilePath", styles.FilePath, "/tmp/keywords.txt"},
		{"Keyword", styles.Keyword, "CAT"},
		{"Identifier", styles.Identifier, "egory"},
		{"State", styles.State, "q3"},
		{"Current", styles.Current, "c"},
		{"Dim", styles.Dim, "(start)"},
		{"Warning", styles.Warning, "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.style(tt.text), tt.text)
		})
	}
}

func TestStylesPlainForNonTerminal(t *testing.T) {
	// A bytes.Buffer is not a TTY, so termenv falls back to the ASCII profile.
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	assert.Equal(t, "CAT", styles.Keyword("CAT"))
	assert.Equal(t, "q1", styles.State("q1"))
}
