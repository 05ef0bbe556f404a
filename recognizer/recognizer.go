// Package recognizer tokenizes text into KEYWORD and IDENTIFIER tokens by
// running it through a keyword automaton.
//
// Matching is case-insensitive while token text keeps the casing of the
// input. The scan consumes as many matching runes as the automaton allows and
// falls back to IDENTIFIER when a partial match fails; see MismatchPolicy for
// how a failure on a final state is classified.
package recognizer

import (
	"context"
	"fmt"

	"github.com/Pathx4/Dynamic-FSM-Generator-App/automaton"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/telemetry"
)

// MismatchPolicy decides how the text collected so far is classified when a
// partial match fails mid-word.
type MismatchPolicy uint8

const (
	// MismatchIdentifier always emits IDENTIFIER, even when the failing
	// state is final: scanning "category" against {cat} yields
	// IDENTIFIER("cat") and IDENTIFIER("egory"). This is the default.
	MismatchIdentifier MismatchPolicy = iota
	// MismatchKeyword emits KEYWORD when the failing state is final, the
	// same check that whitespace and end of input perform: "category"
	// against {cat} yields KEYWORD("cat") and IDENTIFIER("egory").
	MismatchKeyword
)

var policyNames = map[MismatchPolicy]string{
	MismatchIdentifier: "identifier",
	MismatchKeyword:    "keyword",
}

func (p MismatchPolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParseMismatchPolicy parses "identifier" or "keyword".
func ParseMismatchPolicy(s string) (MismatchPolicy, error) {
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return 0, &UnknownPolicyError{Name: s}
}

// UnknownPolicyError is returned by ParseMismatchPolicy.
type UnknownPolicyError struct {
	Name string
}

func (e *UnknownPolicyError) Error() string {
	return fmt.Sprintf("unknown mismatch policy %q (expected %q or %q)", e.Name, "identifier", "keyword")
}

// Recognizer scans inputs against one automaton.
type Recognizer struct {
	fsm    *automaton.Automaton
	policy MismatchPolicy
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithMismatchPolicy selects how failed partial matches are classified.
func WithMismatchPolicy(p MismatchPolicy) Option {
	return func(r *Recognizer) {
		r.policy = p
	}
}

// New creates a Recognizer for fsm.
func New(fsm *automaton.Automaton, opts ...Option) *Recognizer {
	r := &Recognizer{fsm: fsm, policy: MismatchIdentifier}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Automaton returns the automaton the recognizer scans with.
func (r *Recognizer) Automaton() *automaton.Automaton {
	return r.fsm
}

// Policy returns the configured mismatch policy.
func (r *Recognizer) Policy() MismatchPolicy {
	return r.policy
}

// Scanner starts a fresh stepped scan of input at state 0, position 0.
func (r *Recognizer) Scanner(input string) *Scanner {
	return newScanner(r.fsm, r.policy, input)
}

// Scan tokenizes input in one pass.
func (r *Recognizer) Scan(ctx context.Context, input string) []Token {
	tokens, _ := r.Trace(ctx, input, nil)
	return tokens
}

// Trace tokenizes input and calls fn after every step. If fn returns an
// error the scan is abandoned and the tokens finalized so far are returned
// together with that error.
func (r *Recognizer) Trace(ctx context.Context, input string, fn func(Step) error) ([]Token, error) {
	timer := telemetry.FromContext(ctx).Start("recognizer.scan")
	defer timer.End()

	s := r.Scanner(input)
	defer func() {
		timer.Annotate("steps", s.Steps())
		timer.Annotate("tokens", len(s.Tokens()))
	}()

	for {
		step, ok := s.Next()
		if !ok {
			return s.Tokens(), nil
		}
		if fn != nil {
			if err := fn(step); err != nil {
				return s.Tokens(), err
			}
		}
	}
}
