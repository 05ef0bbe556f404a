package formatter

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

type cell struct {
	text  string
	style func(string) string
}

// table aligns columns by display width, so wide runes in values do not
// break alignment. Styling is applied after padding.
type table struct {
	indent  int
	spacing int
	header  []string
	rows    [][]cell
}

func (f *Formatter) newTable(header ...string) *table {
	return &table{
		indent:  f.Indentation,
		spacing: f.Spacing,
		header:  header,
	}
}

func (t *table) add(cells ...cell) {
	t.rows = append(t.rows, cells)
}

func (t *table) widths() []int {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, c := range row {
			if w := runewidth.StringWidth(c.text); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func (t *table) write(w io.Writer) error {
	widths := t.widths()
	indent := strings.Repeat(" ", t.indent)
	gap := strings.Repeat(" ", t.spacing)

	var buf strings.Builder
	writeRow := func(cells []cell) {
		var line strings.Builder
		line.WriteString(indent)
		for i, c := range cells {
			if i > 0 {
				line.WriteString(gap)
			}
			text := c.text
			if i < len(cells)-1 {
				text = runewidth.FillRight(text, widths[i])
			}
			if c.style != nil && c.text != "" {
				// Style only the text, not the padding.
				text = c.style(c.text) + text[len(c.text):]
			}
			line.WriteString(text)
		}
		buf.WriteString(strings.TrimRight(line.String(), " "))
		buf.WriteByte('\n')
	}

	header := make([]cell, len(t.header))
	for i, h := range t.header {
		header[i] = cell{text: h}
	}
	writeRow(header)
	for _, row := range t.rows {
		writeRow(row)
	}

	_, err := io.WriteString(w, buf.String())
	return err
}
