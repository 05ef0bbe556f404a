// Package loader reads keyword lists from strings, files and stdin.
//
// A keyword list is whitespace-delimited. In files, lines whose first
// non-blank character is '#' are comments. Every keyword keeps its position
// so problems can be reported with source context:
//
//	ldr := loader.New()
//	result, err := ldr.Load(ctx, "keywords.txt")
//	for _, d := range result.Diagnostics {
//		fmt.Println(d)
//	}
//
// Loading never fails on questionable keywords. Duplicates and keywords with
// non-letter runes are reported as Diagnostics and passed through unchanged.
package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/Pathx4/Dynamic-FSM-Generator-App/automaton"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/telemetry"
)

// Names used for keyword lists that do not come from a file.
const (
	StdinFilename  = "<stdin>"
	InlineFilename = "<keywords>"
)

// Loader reads keyword lists.
type Loader struct {
	// AllowEmpty accepts lists without keywords instead of returning
	// EmptyKeywordsError.
	AllowEmpty bool

	stdin io.Reader
}

// Option configures how keyword lists are loaded.
type Option func(*Loader)

// WithAllowEmpty accepts keyword lists that contain no keywords.
func WithAllowEmpty() Option {
	return func(l *Loader) {
		l.AllowEmpty = true
	}
}

// WithStdin sets the reader used for the "-" filename.
func WithStdin(r io.Reader) Option {
	return func(l *Loader) {
		l.stdin = r
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{stdin: os.Stdin}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Keyword is a keyword as written in the source.
type Keyword struct {
	Text string
	Pos  Position
}

// Result is a loaded keyword list.
type Result struct {
	// Filename is the absolute path of the source file, or StdinFilename or
	// InlineFilename.
	Filename string
	// Source is the raw content the keywords were read from.
	Source []byte
	// Keywords holds every keyword in source order, duplicates included.
	Keywords []Keyword
	// Diagnostics holds the non-fatal problems found while loading.
	Diagnostics []*Diagnostic
}

// Words returns the keyword texts in source order.
func (r *Result) Words() []string {
	words := make([]string, len(r.Keywords))
	for i, kw := range r.Keywords {
		words[i] = kw.Text
	}
	return words
}

// Errors returns the diagnostics as errors, for formatters.
func (r *Result) Errors() []error {
	errs := make([]error, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		errs[i] = d
	}
	return errs
}

// Load reads a keyword list from filename, or from stdin when filename is "-".
func (l *Loader) Load(ctx context.Context, filename string) (*Result, error) {
	if filename == "-" {
		data, err := io.ReadAll(l.stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
		return l.LoadBytes(ctx, StdinFilename, data)
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", filename, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	return l.LoadBytes(ctx, absPath, data)
}

// LoadString reads a keyword list given inline, for example on the command
// line. Every field is a keyword; '#' does not start a comment.
func (l *Loader) LoadString(ctx context.Context, keywords string) (*Result, error) {
	return l.LoadBytes(ctx, InlineFilename, []byte(keywords))
}

// LoadBytes reads a keyword list from data, reporting positions against
// filename. Lines starting with '#' are comments unless filename is
// InlineFilename.
func (l *Loader) LoadBytes(ctx context.Context, filename string, data []byte) (*Result, error) {
	timer := telemetry.FromContext(ctx).Start(fmt.Sprintf("loader.load %s", filepath.Base(filename)))
	defer timer.End()

	result := &Result{
		Filename: filename,
		Source:   data,
	}

	first := make(map[string]Position)
	for i, text := range strings.Split(string(data), "\n") {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line := i + 1
		text = strings.TrimSuffix(text, "\r")
		if filename != InlineFilename && strings.HasPrefix(strings.TrimSpace(text), "#") {
			continue
		}

		for _, kw := range fields(text) {
			kw.Pos.Filename = filename
			kw.Pos.Line = line
			result.Keywords = append(result.Keywords, kw)

			if r, ok := nonLetter(kw.Text); ok {
				result.Diagnostics = append(result.Diagnostics, &Diagnostic{
					Kind:    NonLetterRune,
					Keyword: kw.Text,
					Pos:     kw.Pos,
					Rune:    r,
				})
			}

			folded := automaton.Fold(kw.Text)
			if prev, ok := first[folded]; ok {
				result.Diagnostics = append(result.Diagnostics, &Diagnostic{
					Kind:     DuplicateKeyword,
					Keyword:  kw.Text,
					Pos:      kw.Pos,
					Previous: prev,
				})
				continue
			}
			first[folded] = kw.Pos
		}
	}

	timer.Annotate("keywords", len(result.Keywords))

	if len(result.Keywords) == 0 && !l.AllowEmpty {
		return nil, &EmptyKeywordsError{Filename: filename}
	}

	return result, nil
}

// fields splits a line on whitespace, recording the 1-based rune column of
// every field.
func fields(line string) []Keyword {
	var (
		out    []Keyword
		start  = -1
		column int
		col    int
	)
	for i, r := range line {
		column++
		if unicode.IsSpace(r) {
			if start >= 0 {
				out = append(out, Keyword{Text: line[start:i], Pos: Position{Column: col}})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
			col = column
		}
	}
	if start >= 0 {
		out = append(out, Keyword{Text: line[start:], Pos: Position{Column: col}})
	}
	return out
}

// nonLetter returns the first rune of word that is not a letter.
func nonLetter(word string) (rune, bool) {
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return r, true
		}
	}
	return 0, false
}
