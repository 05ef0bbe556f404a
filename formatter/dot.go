package formatter

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/Pathx4/Dynamic-FSM-Generator-App/automaton"
)

// DOTOptions configures FormatDOT.
type DOTOptions struct {
	// Name is the graph name.
	Name string
	// Highlight lists states to fill, typically the current state of a run.
	Highlight []automaton.StateID
}

// FormatDOT writes fsm as a Graphviz digraph. Final states are drawn as
// double circles labelled with their keyword, the start state is labelled
// START and reached by an unlabelled entry arrow.
func (f *Formatter) FormatDOT(fsm *automaton.Automaton, opts DOTOptions, w io.Writer) error {
	name := opts.Name
	if name == "" {
		name = "fsm"
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, "digraph \"%s\" {\n", escapeString(name))
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=circle];\n")
	buf.WriteString("  __start [shape=point];\n")

	for _, s := range fsm.States() {
		label := StateName(s.ID)
		attrs := []string{}

		switch {
		case s.IsStart():
			label = StartLabel
		case f.ShowPrefix:
			label += "\\n" + escapeString(s.Prefix)
		}
		if kw, ok := fsm.IsFinal(s.ID); ok {
			label += "\\n" + escapeString(kw)
			attrs = append(attrs, "shape=doublecircle")
		}
		if slices.Contains(opts.Highlight, s.ID) {
			attrs = append(attrs, "style=filled", "fillcolor=yellow")
		}

		fmt.Fprintf(&buf, "  %s [label=\"%s\"", StateName(s.ID), label)
		for _, a := range attrs {
			buf.WriteString(", ")
			buf.WriteString(a)
		}
		buf.WriteString("];\n")
	}

	fmt.Fprintf(&buf, "  __start -> %s;\n", StateName(automaton.Start))
	for _, tr := range fsm.Transitions() {
		fmt.Fprintf(&buf, "  %s -> %s [label=\"%s\"];\n",
			StateName(tr.From), StateName(tr.To), escapeString(displayRune(tr.Char)))
	}
	buf.WriteString("}\n")

	_, err := io.WriteString(w, buf.String())
	return err
}
