package recognizer

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Pathx4/Dynamic-FSM-Generator-App/automaton"
)

func FuzzScan(f *testing.F) {
	seeds := []struct {
		words string
		input string
	}{
		{"cat dog", "CaT dog"},
		{"cat", "category"},
		{"cat car", "cat car cap"},
		{"", "hello world"},
		{"if then else", "if x then y else z"},
		{"a ab abc", "abcabcab a"},
		{"über", "ÜBERüber über"},
		{"c++", "c++ c+ c"},
		{"x", "\t\n x\r\n"},
		{"cat", ""},
	}
	for _, s := range seeds {
		f.Add(s.words, s.input, false)
		f.Add(s.words, s.input, true)
	}

	f.Fuzz(func(t *testing.T, words, input string, keywordPolicy bool) {
		if !utf8.ValidString(input) {
			t.Skip()
		}

		policy := MismatchIdentifier
		if keywordPolicy {
			policy = MismatchKeyword
		}

		fsm := automaton.Build(context.Background(), strings.Fields(words))
		s := New(fsm, WithMismatchPolicy(policy)).Scanner(input)

		// Termination: each rune is retried at most once after a fallback,
		// so the number of steps is bounded.
		limit := 2*utf8.RuneCountInString(input) + 2
		for !s.Done() {
			if s.Steps() > limit {
				t.Fatalf("scan of %q did not terminate within %d steps", input, limit)
			}
			s.Next()
		}

		pos := 0
		for i, tok := range s.Tokens() {
			if tok.Value == "" {
				t.Fatalf("token %d is empty", i)
			}
			if tok.Offset < pos {
				t.Fatalf("token %d (%s) starts before the end of the previous token", i, tok)
			}
			if strings.TrimSpace(input[pos:tok.Offset]) != "" {
				t.Fatalf("non-whitespace text %q skipped before token %d", input[pos:tok.Offset], i)
			}
			if input[tok.Offset:tok.End()] != tok.Value {
				t.Fatalf("token %d value %q does not match input %q", i, tok.Value, input[tok.Offset:tok.End()])
			}
			if tok.Type == KEYWORD && tok.Keyword != strings.ToUpper(automaton.Fold(tok.Value)) {
				t.Fatalf("keyword label %q does not match value %q", tok.Keyword, tok.Value)
			}
			pos = tok.End()
		}
		if strings.TrimSpace(input[pos:]) != "" {
			t.Fatalf("trailing text %q was not tokenized", input[pos:])
		}
	})
}
