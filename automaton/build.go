package automaton

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Pathx4/Dynamic-FSM-Generator-App/telemetry"
)

// Build constructs the keyword trie for words.
//
// Words are case-folded rune by rune and empty words are discarded. Each
// distinct prefix maps to exactly one state; re-inserting a word that is
// already present allocates nothing. An empty list yields an automaton that
// only has the start state and matches nothing.
func Build(ctx context.Context, words []string) *Automaton {
	timer := telemetry.FromContext(ctx).Start("automaton.build")
	defer timer.End()

	a := &Automaton{
		states:      []State{{ID: Start}},
		transitions: make(map[edge]StateID),
		finals:      make(map[StateID]string),
	}

	seen := make(map[string]struct{}, len(words))
	for _, word := range words {
		folded := Fold(word)
		if folded == "" {
			continue
		}
		if _, ok := seen[folded]; !ok {
			seen[folded] = struct{}{}
			a.words = append(a.words, folded)
		}
		a.insert(folded)
	}

	timer.Annotate("keywords", len(a.words))
	timer.Annotate("states", len(a.states))

	return a
}

// insert walks word from Start, allocating a state for every missing edge.
func (a *Automaton) insert(word string) {
	current := Start
	depth := 0
	for i, r := range word {
		depth++
		key := edge{from: current, char: r}
		next, ok := a.transitions[key]
		if !ok {
			next = StateID(len(a.states))
			a.states = append(a.states, State{
				ID:     next,
				Char:   r,
				Depth:  depth,
				Word:   word,
				Prefix: word[:i+utf8.RuneLen(r)],
			})
			a.transitions[key] = next
		}
		current = next
	}
	a.finals[current] = strings.ToUpper(word)
}

// Fold lower-cases s rune by rune. Build and the recognizer fold with the
// same function so that matching is case-insensitive.
func Fold(s string) string {
	return strings.Map(unicode.ToLower, s)
}
