// Package errors formats keyword diagnostics and other errors for output.
// It separates presentation from the loader, allowing the same diagnostics
// to be rendered as plain text for terminals and as JSON for the web API.
//
// The package defines a Formatter interface and provides two implementations:
//   - TextFormatter: message followed by the offending source line and a caret
//   - JSONFormatter: structured objects with position and details
package errors

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Pathx4/Dynamic-FSM-Generator-App/loader"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// positioned is implemented by errors that point into a keyword source.
type positioned interface {
	GetPosition() loader.Position
	Error() string
}

// TextFormatter formats errors for command-line output.
type TextFormatter struct {
	sourceContent []byte
}

// TextFormatterOption is an option for configuring TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithSource sets the source content shown below positioned errors.
func WithSource(source []byte) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.sourceContent = source
	}
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(opts ...TextFormatterOption) *TextFormatter {
	tf := &TextFormatter{}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error. Positioned errors get source context when a
// source was configured.
func (tf *TextFormatter) Format(err error) string {
	if e, ok := err.(positioned); ok && tf.sourceContent != nil {
		return formatWithSourceContext(e.GetPosition(), e.Error(), tf.sourceContent)
	}
	return err.Error()
}

// FormatAll formats multiple errors, separating them with blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(tf.Format(err))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

// formatWithSourceContext writes the message, then the source lines around
// the position with a caret under the offending column.
func formatWithSourceContext(pos loader.Position, message string, source []byte) string {
	var buf strings.Builder

	buf.WriteString(message)
	buf.WriteString("\n\n")

	for _, line := range SourceContext(pos, source) {
		buf.WriteString("   ")
		buf.WriteString(line.Text)
		buf.WriteByte('\n')

		if line.Caret >= 0 {
			buf.WriteString("   ")
			buf.WriteString(strings.Repeat(" ", line.Caret))
			buf.WriteString("^\n")
		}
	}

	return buf.String()
}

// ContextLine is one source line shown around a diagnostic.
type ContextLine struct {
	Number int
	Text   string
	// Caret is the display column of the caret below this line, or -1.
	Caret int
}

// SourceContext returns up to two lines before and one line after pos.
// The caret offset accounts for wide runes so it lines up in a terminal.
func SourceContext(pos loader.Position, source []byte) []ContextLine {
	lines := strings.Split(string(source), "\n")

	start := pos.Line - 3
	end := pos.Line

	if start < 0 {
		start = 0
	}
	if end >= len(lines) {
		end = len(lines) - 1
	}

	var out []ContextLine
	for i := start; i <= end; i++ {
		text := strings.TrimSuffix(lines[i], "\r")
		line := ContextLine{Number: i + 1, Text: text, Caret: -1}
		if i == pos.Line-1 && pos.Column > 0 {
			line.Caret = caretOffset(text, pos.Column)
		}
		out = append(out, line)
	}
	return out
}

func caretOffset(line string, column int) int {
	runes := []rune(line)
	if column-1 < len(runes) {
		runes = runes[:column-1]
	}
	return runewidth.StringWidth(string(runes))
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type     string            `json:"type"`
	Message  string            `json:"message"`
	Position *PositionJSON     `json:"position,omitempty"`
	Details  map[string]string `json:"details,omitempty"`
}

// PositionJSON represents a keyword position in JSON format.
type PositionJSON struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	data, _ := json.MarshalIndent(jf.FormatAllToSlice(errs), "", "  ")
	return string(data)
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.toJSON(err))
	}
	return result
}

func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
		Details: make(map[string]string),
	}

	if e, ok := err.(positioned); ok {
		pos := e.GetPosition()
		errJSON.Position = &PositionJSON{
			Filename: pos.Filename,
			Line:     pos.Line,
			Column:   pos.Column,
		}
	}

	switch e := err.(type) {
	case *loader.Diagnostic:
		errJSON.Details["keyword"] = e.Keyword
		errJSON.Details["kind"] = e.Kind.String()
	case *loader.EmptyKeywordsError:
		errJSON.Details["filename"] = e.Filename
	}

	return errJSON
}
