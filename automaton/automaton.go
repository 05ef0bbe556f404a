// Package automaton builds a deterministic keyword automaton from a word list.
//
// The automaton is a trie: every path from the start state spells a prefix
// of one or more keywords, and shared prefixes share states. States live in
// an arena indexed by StateID, transitions in a flat map keyed by
// (state, rune), and final-state labels in a separate sparse map.
//
// An Automaton is immutable once Build returns and may be shared by any
// number of concurrent scans.
package automaton

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// StateID identifies a state. Identifiers are assigned in creation order and
// are stable for the lifetime of an Automaton.
type StateID int

// Start is the start state. It is never final and has no incoming edge.
const Start StateID = 0

// None marks the absence of a current state, e.g. after a run has finished.
const None StateID = -1

// State carries the metadata recorded when a state is created.
type State struct {
	ID StateID
	// Char is the rune on the edge leading into the state; 0 for Start.
	Char rune
	// Depth is the length in runes of the prefix spelled by the state.
	Depth int
	// Word is the folded keyword whose insertion created the state.
	Word string
	// Prefix is the folded text spelled from Start to this state.
	Prefix string
}

// IsStart reports whether s is the start state.
func (s State) IsStart() bool {
	return s.ID == Start
}

// Transition is a single edge of the automaton.
type Transition struct {
	From StateID
	Char rune
	To   StateID
}

type edge struct {
	from StateID
	char rune
}

// Automaton is the immutable product of Build.
type Automaton struct {
	words       []string
	states      []State
	transitions map[edge]StateID
	finals      map[StateID]string
}

// Transition returns the target of the edge labelled r leaving state.
// The boolean is false when no such edge exists.
func (a *Automaton) Transition(state StateID, r rune) (StateID, bool) {
	to, ok := a.transitions[edge{from: state, char: r}]
	return to, ok
}

// IsFinal returns the upper-cased keyword that terminates at state.
func (a *Automaton) IsFinal(state StateID) (string, bool) {
	label, ok := a.finals[state]
	return label, ok
}

// StateCount returns the number of states including Start.
func (a *Automaton) StateCount() int {
	return len(a.states)
}

// FinalStateCount returns the number of final states.
func (a *Automaton) FinalStateCount() int {
	return len(a.finals)
}

// TransitionCount returns the number of edges.
func (a *Automaton) TransitionCount() int {
	return len(a.transitions)
}

// State returns the metadata for id.
func (a *Automaton) State(id StateID) (State, bool) {
	if id < 0 || int(id) >= len(a.states) {
		return State{}, false
	}
	return a.states[id], true
}

// States returns all states ordered by identifier.
func (a *Automaton) States() []State {
	return slices.Clone(a.states)
}

// Words returns the distinct folded keywords in first-seen order.
func (a *Automaton) Words() []string {
	return slices.Clone(a.words)
}

// Finals returns the final-state labels keyed by state.
func (a *Automaton) Finals() map[StateID]string {
	return maps.Clone(a.finals)
}

// Transitions returns every edge, ordered by source state and then rune.
func (a *Automaton) Transitions() []Transition {
	keys := maps.Keys(a.transitions)
	slices.SortFunc(keys, func(x, y edge) int {
		if x.from != y.from {
			return int(x.from) - int(y.from)
		}
		return int(x.char) - int(y.char)
	})

	out := make([]Transition, 0, len(keys))
	for _, k := range keys {
		out = append(out, Transition{From: k.from, Char: k.char, To: a.transitions[k]})
	}
	return out
}

// Outgoing returns the edges leaving id, ordered by rune.
func (a *Automaton) Outgoing(id StateID) []Transition {
	var out []Transition
	for k, to := range a.transitions {
		if k.from == id {
			out = append(out, Transition{From: id, Char: k.char, To: to})
		}
	}
	slices.SortFunc(out, func(x, y Transition) int {
		return int(x.Char) - int(y.Char)
	})
	return out
}

// Alphabet returns the distinct edge labels in ascending order.
func (a *Automaton) Alphabet() []rune {
	seen := make(map[rune]struct{})
	for k := range a.transitions {
		seen[k.char] = struct{}{}
	}
	alphabet := maps.Keys(seen)
	slices.Sort(alphabet)
	return alphabet
}
