package telemetry

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Pathx4/Dynamic-FSM-Generator-App/output"
)

// slowThreshold marks operations that are highlighted in the report.
const slowThreshold = 100 * time.Millisecond

// formatTimingTree outputs the timing tree in a hierarchical format.
// Example output:
//
//	run "cat dog": 1.21s
//	├─ automaton.build: 0ms (states=7)
//	└─ recognizer.scan: 1.20s (steps=8, tokens=2)
func formatTimingTree(w io.Writer, root *timerNode, styles *output.Styles) {
	duration := root.end.Sub(root.start)

	name := root.name
	if styles != nil {
		name = styles.Keyword(name)
	}
	_, _ = fmt.Fprintf(w, "%s: %s%s\n", name, formatDuration(duration), formatAnnotations(root.annotations))

	for i, child := range root.children {
		formatNode(w, child, "", i == len(root.children)-1, styles)
	}
}

// formatNode recursively formats a node and its children.
func formatNode(w io.Writer, node *timerNode, prefix string, isLast bool, styles *output.Styles) {
	duration := node.end.Sub(node.start)

	branch, extension := "├─ ", "│  "
	if isLast {
		branch, extension = "└─ ", "   "
	}

	timing := formatDuration(duration)
	notes := formatAnnotations(node.annotations)
	if styles != nil {
		if duration >= slowThreshold {
			timing = styles.Warning(timing)
		} else {
			timing = styles.Dim(timing)
		}
		_, _ = fmt.Fprintf(w, "%s%s: %s%s\n", styles.Dim(prefix+branch), node.name, timing, styles.Dim(notes))
	} else {
		_, _ = fmt.Fprintf(w, "%s%s%s: %s%s\n", prefix, branch, node.name, timing, notes)
	}

	for i, child := range node.children {
		formatNode(w, child, prefix+extension, i == len(node.children)-1, styles)
	}
}

// formatDuration shows milliseconds below one second and seconds above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		ms := float64(d) / float64(time.Millisecond)
		return fmt.Sprintf("%.0fms", ms)
	}
	s := float64(d) / float64(time.Second)
	return fmt.Sprintf("%.2fs", s)
}

func formatAnnotations(annotations []annotation) string {
	if len(annotations) == 0 {
		return ""
	}
	parts := make([]string, 0, len(annotations))
	for _, a := range annotations {
		parts = append(parts, fmt.Sprintf("%s=%d", a.key, a.value))
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
