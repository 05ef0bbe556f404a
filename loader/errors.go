package loader

import "fmt"

// Position locates a keyword in its source. Line and Column are 1-based;
// Column counts runes.
type Position struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// DiagnosticKind classifies a Diagnostic.
type DiagnosticKind int

const (
	// DuplicateKeyword is a keyword equal to an earlier one after case
	// folding. It adds nothing to the automaton.
	DuplicateKeyword DiagnosticKind = iota
	// NonLetterRune is a keyword containing a rune that is not a letter.
	// The recognizer consumes such runes as part of identifiers, so the
	// keyword can only match where its non-letter rune directly continues a
	// partial match.
	NonLetterRune
)

func (k DiagnosticKind) String() string {
	switch k {
	case DuplicateKeyword:
		return "duplicate keyword"
	case NonLetterRune:
		return "non-letter rune"
	default:
		return "unknown"
	}
}

// Diagnostic is a non-fatal problem with a keyword.
type Diagnostic struct {
	Kind    DiagnosticKind
	Keyword string
	Pos     Position

	// Previous is the position of the first occurrence, for DuplicateKeyword.
	Previous Position
	// Rune is the offending rune, for NonLetterRune.
	Rune rune
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	switch d.Kind {
	case DuplicateKeyword:
		return fmt.Sprintf("%s: duplicate keyword %q (first defined at %d:%d)",
			d.Pos, d.Keyword, d.Previous.Line, d.Previous.Column)
	case NonLetterRune:
		return fmt.Sprintf("%s: keyword %q contains non-letter rune %q", d.Pos, d.Keyword, d.Rune)
	default:
		return fmt.Sprintf("%s: %s %q", d.Pos, d.Kind, d.Keyword)
	}
}

// GetPosition returns the position of the keyword.
func (d *Diagnostic) GetPosition() Position {
	return d.Pos
}

// GetKeyword returns the keyword the diagnostic is about.
func (d *Diagnostic) GetKeyword() string {
	return d.Keyword
}

// EmptyKeywordsError is returned when a keyword list contains no keywords.
type EmptyKeywordsError struct {
	Filename string
}

// Error implements the error interface.
func (e *EmptyKeywordsError) Error() string {
	return fmt.Sprintf("%s: no keywords found", e.Filename)
}
