// Package formatter renders automata, tokens and scanner steps as aligned
// text tables and Graphviz diagrams.
package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Pathx4/Dynamic-FSM-Generator-App/automaton"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/output"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/recognizer"
)

const (
	// DefaultIndentation is the default indentation of table rows.
	DefaultIndentation = 2

	// MinimumSpacing is the minimum number of spaces between table columns.
	MinimumSpacing = 2

	// StartLabel names the start state in tables and diagrams.
	StartLabel = "START"
)

// Formatter renders automaton and recognizer output.
type Formatter struct {
	// Indentation is the number of spaces before every table row.
	Indentation int

	// Spacing is the number of spaces between table columns.
	Spacing int

	// ShowPrefix adds the prefix spelled by each state to state tables and
	// diagram nodes.
	ShowPrefix bool

	styles *output.Styles
}

// Option is a functional option for configuring a Formatter.
type Option func(*Formatter)

// WithIndentation sets the indentation of table rows.
func WithIndentation(indent int) Option {
	return func(f *Formatter) {
		f.Indentation = indent
	}
}

// WithSpacing sets the number of spaces between table columns.
func WithSpacing(spacing int) Option {
	return func(f *Formatter) {
		f.Spacing = spacing
	}
}

// WithShowPrefix controls whether state prefixes are rendered.
func WithShowPrefix(show bool) Option {
	return func(f *Formatter) {
		f.ShowPrefix = show
	}
}

// WithStyles colors output. Without styles, output is plain text.
func WithStyles(styles *output.Styles) Option {
	return func(f *Formatter) {
		f.styles = styles
	}
}

// New creates a new Formatter with the given options.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		Indentation: DefaultIndentation,
		Spacing:     MinimumSpacing,
		ShowPrefix:  true,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.Spacing < 1 {
		f.Spacing = 1
	}

	return f
}

// StateName returns the display name of a state: "q<id>".
func StateName(id automaton.StateID) string {
	return "q" + strconv.Itoa(int(id))
}

// FormatSummary writes the state and transition counts of fsm.
func (f *Formatter) FormatSummary(fsm *automaton.Automaton, w io.Writer) error {
	_, err := fmt.Fprintf(w, "%d keywords, %d states (%d final), %d transitions\n",
		len(fsm.Words()), fsm.StateCount(), fsm.FinalStateCount(), fsm.TransitionCount())
	return err
}

// FormatStates writes one row per state: name, incoming rune, depth, prefix
// and final label.
func (f *Formatter) FormatStates(fsm *automaton.Automaton, w io.Writer) error {
	header := []string{"STATE", "CHAR", "DEPTH"}
	if f.ShowPrefix {
		header = append(header, "PREFIX")
	}
	header = append(header, "FINAL")

	t := f.newTable(header...)
	for _, s := range fsm.States() {
		char := StartLabel
		if !s.IsStart() {
			char = displayRune(s.Char)
		}
		final, _ := fsm.IsFinal(s.ID)

		row := []cell{
			{StateName(s.ID), f.state},
			{char, nil},
			{strconv.Itoa(s.Depth), nil},
		}
		if f.ShowPrefix {
			row = append(row, cell{displayText(s.Prefix), f.dim})
		}
		row = append(row, cell{final, f.keyword})
		t.add(row...)
	}

	return t.write(w)
}

// FormatTransitions writes one line per edge, sorted by source state and
// rune.
func (f *Formatter) FormatTransitions(fsm *automaton.Automaton, w io.Writer) error {
	t := f.newTable("FROM", "CHAR", "TO")
	for _, tr := range fsm.Transitions() {
		t.add(
			cell{StateName(tr.From), f.state},
			cell{displayRune(tr.Char), nil},
			cell{StateName(tr.To), f.state},
		)
	}
	return t.write(w)
}

// FormatTokens writes one row per token.
func (f *Formatter) FormatTokens(tokens []recognizer.Token, w io.Writer) error {
	t := f.newTable("OFFSET", "TYPE", "VALUE", "KEYWORD")
	for _, tok := range tokens {
		typ := cell{tok.Type.String(), f.identifier}
		if tok.Type == recognizer.KEYWORD {
			typ.style = f.keyword
		}
		t.add(
			cell{strconv.Itoa(tok.Offset), nil},
			typ,
			cell{displayText(tok.Value), nil},
			cell{tok.Keyword, f.keyword},
		)
	}
	return t.write(w)
}

// FormatStep writes a single trace line for a scanner step.
func (f *Formatter) FormatStep(n int, step recognizer.Step, w io.Writer) error {
	var buf strings.Builder

	buf.WriteString(strings.Repeat(" ", f.Indentation))
	fmt.Fprintf(&buf, "%4d  ", n)
	buf.WriteString(pad(step.Kind.String(), len("transition")))
	buf.WriteString("  ")
	buf.WriteString(f.dim(fmt.Sprintf("pos=%-4d", step.Pos)))
	buf.WriteString("  ")

	state := "-"
	if step.State != automaton.None {
		state = StateName(step.State)
	}
	buf.WriteString(f.state(pad(state, 4)))

	if step.Partial != "" {
		fmt.Fprintf(&buf, "  partial=%s", strconv.Quote(step.Partial))
	}
	if step.Token != nil {
		buf.WriteString("  -> ")
		buf.WriteString(f.token(*step.Token))
	}
	buf.WriteByte('\n')

	_, err := io.WriteString(w, buf.String())
	return err
}

// FormatCursor writes text with the rune at pos highlighted and a caret line
// below it. A negative pos renders the text without a cursor.
func (f *Formatter) FormatCursor(text string, pos int, w io.Writer) error {
	var line, caret strings.Builder
	indent := strings.Repeat(" ", f.Indentation)
	line.WriteString(indent)

	width := 0
	caretAt := -1
	for i, r := range text {
		s := displayRune(r)
		if i == pos {
			caretAt = width
			line.WriteString(f.current(s))
		} else {
			line.WriteString(s)
		}
		width += runewidth.StringWidth(s)
	}
	if pos >= len(text) {
		caretAt = width
	}
	line.WriteByte('\n')

	if caretAt >= 0 {
		caret.WriteString(indent)
		caret.WriteString(strings.Repeat(" ", caretAt))
		caret.WriteString("^\n")
	}

	_, err := io.WriteString(w, line.String()+caret.String())
	return err
}

func (f *Formatter) token(t recognizer.Token) string {
	if t.Type == recognizer.KEYWORD {
		return f.keyword(t.String())
	}
	return f.identifier(t.String())
}

func (f *Formatter) keyword(s string) string {
	if f.styles == nil || s == "" {
		return s
	}
	return f.styles.Keyword(s)
}

func (f *Formatter) identifier(s string) string {
	if f.styles == nil || s == "" {
		return s
	}
	return f.styles.Identifier(s)
}

func (f *Formatter) state(s string) string {
	if f.styles == nil || s == "" {
		return s
	}
	return f.styles.State(s)
}

func (f *Formatter) dim(s string) string {
	if f.styles == nil || s == "" {
		return s
	}
	return f.styles.Dim(s)
}

func (f *Formatter) current(s string) string {
	if f.styles == nil {
		return s
	}
	return f.styles.Current(s)
}

// pad right-pads s with spaces to the given display width.
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}
