package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/Pathx4/Dynamic-FSM-Generator-App/loader"
)

func TestErrorRenderer_RenderDiagnosticWithSourceContext(t *testing.T) {
	source := "# control flow\nif else\nfor wh1le\nreturn"

	result, err := loader.New().LoadBytes(context.Background(), "keywords.txt", []byte(source))
	assert.NoError(t, err)
	assert.Equal(t, 1, len(result.Diagnostics))

	renderer := NewErrorRenderer(result.Source)
	output := renderer.Render(result.Diagnostics[0])

	assert.Contains(t, output, "keywords.txt:3:5")
	assert.Contains(t, output, `keyword "wh1le" contains non-letter rune '1'`)
	assert.Contains(t, output, "for wh1le")
	assert.Contains(t, output, "^")

	lines := strings.Split(output, "\n")
	foundIndentedLine := false
	for _, line := range lines {
		if strings.HasPrefix(line, "   ") && strings.Contains(line, "for wh1le") {
			foundIndentedLine = true
			break
		}
	}
	assert.True(t, foundIndentedLine, "Expected indented source lines")

	// The caret sits under the 'w' of "wh1le": three spaces of indent plus
	// four columns.
	assert.Contains(t, output, "\n       ^")
}

func TestErrorRenderer_RenderWithoutSource(t *testing.T) {
	renderer := NewErrorRenderer(nil)
	output := renderer.Render(&loader.EmptyKeywordsError{Filename: "keywords.txt"})
	assert.Contains(t, output, "keywords.txt: no keywords found")
}

func TestErrorRenderer_RenderAll(t *testing.T) {
	result, err := loader.New().LoadString(context.Background(), "cat Cat CAT")
	assert.NoError(t, err)

	output := NewErrorRenderer(result.Source).RenderAll(result.Errors())
	assert.Equal(t, 2, strings.Count(output, "duplicate keyword"))
	assert.Contains(t, output, "\n\n")
	assert.Equal(t, "", NewErrorRenderer(nil).RenderAll(nil))
}
