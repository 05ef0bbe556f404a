package recognizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Pathx4/Dynamic-FSM-Generator-App/automaton"
)

// Scanner tokenizes one input one step at a time.
//
// Each call to Next performs exactly one action of the state machine, so a
// caller that stops calling Next has paused the scan between two steps. A
// Scanner is not safe for concurrent use; the Automaton it reads is.
type Scanner struct {
	fsm    *automaton.Automaton
	policy MismatchPolicy
	input  string

	pos        int
	state      automaton.StateID
	tokenStart int
	word       strings.Builder

	tokens []Token
	steps  int
	done   bool
}

func newScanner(fsm *automaton.Automaton, policy MismatchPolicy, input string) *Scanner {
	return &Scanner{
		fsm:    fsm,
		policy: policy,
		input:  input,
		state:  automaton.Start,
	}
}

// Pos returns the cursor position.
func (s *Scanner) Pos() int { return s.pos }

// State returns the current automaton state.
func (s *Scanner) State() automaton.StateID { return s.state }

// Partial returns the text of the token in progress.
func (s *Scanner) Partial() string { return s.word.String() }

// Tokens returns the tokens finalized so far.
func (s *Scanner) Tokens() []Token { return s.tokens }

// Steps returns the number of steps taken.
func (s *Scanner) Steps() int { return s.steps }

// Done reports whether the end-of-input step has been taken.
func (s *Scanner) Done() bool { return s.done }

// Next performs one step. It returns false once the scan is complete.
func (s *Scanner) Next() (Step, bool) {
	if s.done {
		return Step{}, false
	}
	s.steps++

	if s.pos >= len(s.input) {
		s.done = true
		at := s.pos
		tok := s.finish()
		return s.step(StepEnd, at, tok), true
	}

	at := s.pos
	r, size := utf8.DecodeRuneInString(s.input[s.pos:])

	if unicode.IsSpace(r) {
		tok := s.finish()
		for s.pos < len(s.input) {
			r, size := utf8.DecodeRuneInString(s.input[s.pos:])
			if !unicode.IsSpace(r) {
				break
			}
			s.pos += size
		}
		s.tokenStart = s.pos
		return s.step(StepWhitespace, at, tok), true
	}

	if next, ok := s.fsm.Transition(s.state, unicode.ToLower(r)); ok {
		s.state = next
		s.word.WriteString(s.input[s.pos : s.pos+size])
		s.pos += size
		return s.step(StepTransition, at, nil), true
	}

	if s.state == automaton.Start {
		// Nothing starts with r: take it and the letters after it.
		end := s.pos + size
		for end < len(s.input) {
			r, n := utf8.DecodeRuneInString(s.input[end:])
			if unicode.IsSpace(r) || !unicode.IsLetter(r) {
				break
			}
			end += n
		}
		tok := s.emit(Token{Type: IDENTIFIER, Value: s.input[s.pos:end], Offset: s.tokenStart})
		s.pos = end
		s.tokenStart = end
		s.word.Reset()
		return s.step(StepIdentifier, at, tok), true
	}

	// A partial match failed. Emit what was collected and retry r from the
	// start state without advancing.
	t := Token{Type: IDENTIFIER, Value: s.word.String(), Offset: s.tokenStart}
	if s.policy == MismatchKeyword {
		if label, ok := s.fsm.IsFinal(s.state); ok {
			t.Type, t.Keyword = KEYWORD, label
		}
	}
	tok := s.emit(t)
	s.state = automaton.Start
	s.word.Reset()
	s.tokenStart = s.pos
	return s.step(StepFallback, at, tok), true
}

// finish finalizes the token in progress at a whitespace boundary or at end
// of input and resets to the start state.
func (s *Scanner) finish() *Token {
	if s.state == automaton.Start {
		return nil
	}

	var tok *Token
	if label, ok := s.fsm.IsFinal(s.state); ok {
		tok = s.emit(Token{Type: KEYWORD, Value: s.word.String(), Keyword: label, Offset: s.tokenStart})
	} else if s.word.Len() > 0 {
		tok = s.emit(Token{Type: IDENTIFIER, Value: s.word.String(), Offset: s.tokenStart})
	}

	s.state = automaton.Start
	s.word.Reset()
	return tok
}

func (s *Scanner) emit(t Token) *Token {
	s.tokens = append(s.tokens, t)
	return &s.tokens[len(s.tokens)-1]
}

func (s *Scanner) step(kind StepKind, at int, tok *Token) Step {
	st := Step{
		Kind:    kind,
		At:      at,
		Pos:     s.pos,
		State:   s.state,
		Partial: s.word.String(),
	}
	if tok != nil {
		// Copy so later appends to s.tokens cannot alias the step.
		t := *tok
		st.Token = &t
	}
	return st
}
