package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	fsmerrors "github.com/Pathx4/Dynamic-FSM-Generator-App/errors"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/loader"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders errors with terminal styling and source context.
type ErrorRenderer struct {
	source []byte
}

// NewErrorRenderer creates a renderer with source content for context.
func NewErrorRenderer(source []byte) *ErrorRenderer {
	return &ErrorRenderer{source: source}
}

// Render formats a single error with styling and context.
func (r *ErrorRenderer) Render(err error) string {
	if e, ok := err.(interface {
		GetPosition() loader.Position
		Error() string
	}); ok && r.source != nil {
		return r.renderWithSourceContext(e.GetPosition(), e.Error())
	}

	return errorStyle.Render(err.Error())
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(r.Render(err))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

func (r *ErrorRenderer) renderWithSourceContext(pos loader.Position, message string) string {
	var buf strings.Builder

	buf.WriteString(warningStyle.Render(message))
	buf.WriteString("\n\n")

	for _, line := range fsmerrors.SourceContext(pos, r.source) {
		buf.WriteString("   ")
		buf.WriteString(errContextStyle.Render(line.Text))
		buf.WriteByte('\n')

		if line.Caret >= 0 {
			buf.WriteString("   ")
			buf.WriteString(strings.Repeat(" ", line.Caret))
			buf.WriteString(errCaretStyle.Render("^"))
			buf.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(buf.String(), "\n")
}
