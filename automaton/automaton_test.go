package automaton

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func build(words ...string) *Automaton {
	return Build(context.Background(), words)
}

// walk follows word from Start and returns the state reached.
func walk(t *testing.T, a *Automaton, word string) StateID {
	t.Helper()
	state := Start
	for _, r := range word {
		next, ok := a.Transition(state, r)
		assert.True(t, ok, "missing edge %q from %d while walking %q", r, state, word)
		state = next
	}
	return state
}

// shape describes an automaton independently of state numbering: every edge
// as "prefix -char-> prefix" and every final as "prefix=LABEL".
func shape(a *Automaton) []string {
	var out []string
	for _, tr := range a.Transitions() {
		from, _ := a.State(tr.From)
		to, _ := a.State(tr.To)
		out = append(out, from.Prefix+" -"+string(tr.Char)+"-> "+to.Prefix)
	}
	for id, label := range a.Finals() {
		s, _ := a.State(id)
		out = append(out, s.Prefix+"="+label)
	}
	sort.Strings(out)
	return out
}

func TestBuildEmpty(t *testing.T) {
	for _, words := range [][]string{nil, {}, {""}, {"", ""}} {
		a := build(words...)
		assert.Equal(t, 1, a.StateCount())
		assert.Equal(t, 0, a.FinalStateCount())
		assert.Equal(t, 0, a.TransitionCount())
		assert.Equal(t, 0, len(a.Words()))

		_, ok := a.Transition(Start, 'a')
		assert.False(t, ok)
	}
}

func TestBuildSingleWord(t *testing.T) {
	a := build("cat")

	assert.Equal(t, 4, a.StateCount())
	assert.Equal(t, 1, a.FinalStateCount())

	want := []State{
		{ID: 0},
		{ID: 1, Char: 'c', Depth: 1, Word: "cat", Prefix: "c"},
		{ID: 2, Char: 'a', Depth: 2, Word: "cat", Prefix: "ca"},
		{ID: 3, Char: 't', Depth: 3, Word: "cat", Prefix: "cat"},
	}
	assert.Equal(t, want, a.States())

	label, ok := a.IsFinal(3)
	assert.True(t, ok)
	assert.Equal(t, "CAT", label)

	for _, id := range []StateID{0, 1, 2} {
		_, ok := a.IsFinal(id)
		assert.False(t, ok, "state %d should not be final", id)
	}
}

func TestBuildSharedPrefix(t *testing.T) {
	a := build("cat", "car", "category")

	// c, a, t, r, e, g, o, r, y
	assert.Equal(t, 10, a.StateCount())
	assert.Equal(t, 3, a.FinalStateCount())

	cat := walk(t, a, "cat")
	car := walk(t, a, "car")
	category := walk(t, a, "category")

	assert.NotEqual(t, cat, car)

	label, ok := a.IsFinal(cat)
	assert.True(t, ok)
	assert.Equal(t, "CAT", label)

	// "cat" is final and still continues towards "category".
	out := a.Outgoing(cat)
	assert.Equal(t, 1, len(out))
	assert.Equal(t, 'e', out[0].Char)

	label, ok = a.IsFinal(category)
	assert.True(t, ok)
	assert.Equal(t, "CATEGORY", label)

	ca := walk(t, a, "ca")
	assert.Equal(t, []Transition{{From: ca, Char: 'r', To: car}, {From: ca, Char: 't', To: cat}}, a.Outgoing(ca))

	// The state for "ca" was created by the first word through it.
	s, ok := a.State(ca)
	assert.True(t, ok)
	assert.Equal(t, "cat", s.Word)
	assert.Equal(t, "ca", s.Prefix)
	assert.Equal(t, 2, s.Depth)
}

func TestBuildCaseFolding(t *testing.T) {
	a := build("Cat", "DOG")

	assert.Equal(t, []string{"cat", "dog"}, a.Words())

	label, ok := a.IsFinal(walk(t, a, "dog"))
	assert.True(t, ok)
	assert.Equal(t, "DOG", label)

	_, ok = a.Transition(Start, 'C')
	assert.False(t, ok, "edges are labelled with folded runes only")
}

func TestBuildDuplicatesAreIdempotent(t *testing.T) {
	once := build("cat", "dog")
	twice := build("cat", "dog", "CAT", "cat", "Dog")

	assert.Equal(t, once.StateCount(), twice.StateCount())
	assert.Equal(t, once.Transitions(), twice.Transitions())
	assert.Equal(t, once.Finals(), twice.Finals())
	assert.Equal(t, []string{"cat", "dog"}, twice.Words())
}

func TestBuildOrderIndependentShape(t *testing.T) {
	a := build("cat", "car", "dog", "do")
	b := build("do", "dog", "car", "cat", "car")

	assert.Equal(t, shape(a), shape(b))
	assert.Equal(t, a.StateCount(), b.StateCount())
}

func TestBuildIsATree(t *testing.T) {
	a := build("if", "then", "else", "elif", "end", "endif", "e")

	incoming := make(map[StateID]int)
	for _, tr := range a.Transitions() {
		incoming[tr.To]++
		from, _ := a.State(tr.From)
		to, _ := a.State(tr.To)
		assert.Equal(t, from.Depth+1, to.Depth)
		assert.Equal(t, from.Prefix+string(tr.Char), to.Prefix)
		assert.True(t, tr.To > tr.From, "identifiers grow along every path")
	}

	assert.Equal(t, 0, incoming[Start])
	for _, s := range a.States()[1:] {
		assert.Equal(t, 1, incoming[s.ID], "state %d (%q) must have exactly one parent", s.ID, s.Prefix)
		assert.Equal(t, s.ID, walk(t, a, s.Prefix))
	}

	_, ok := a.IsFinal(Start)
	assert.False(t, ok)
}

func TestBuildNonLetterRunes(t *testing.T) {
	a := build("c++", "über")

	assert.Equal(t, "C++", mustFinal(t, a, walk(t, a, "c++")))
	assert.Equal(t, "ÜBER", mustFinal(t, a, walk(t, a, "über")))

	s, _ := a.State(walk(t, a, "üb"))
	assert.Equal(t, "üb", s.Prefix)
	assert.Equal(t, 2, s.Depth)
}

func TestAlphabet(t *testing.T) {
	a := build("bad", "cab")
	assert.Equal(t, []rune{'a', 'b', 'c', 'd'}, a.Alphabet())
	assert.Equal(t, 0, len(build().Alphabet()))
}

func TestStateLookupOutOfRange(t *testing.T) {
	a := build("cat")

	_, ok := a.State(None)
	assert.False(t, ok)
	_, ok = a.State(StateID(a.StateCount()))
	assert.False(t, ok)
}

func TestStats(t *testing.T) {
	a := build("cat", "car", "dog")
	st := a.Stats()

	assert.Equal(t, 8, st.States)
	assert.Equal(t, 3, st.FinalStates)
	assert.Equal(t, 7, st.Transitions)
	assert.Equal(t, 3, st.Keywords)
	assert.Equal(t, 3, st.MaxDepth)
	assert.Equal(t, "3.00", st.AverageDepth.StringFixed(2))
	// 7 edges leaving 5 states: start, c, ca, d, do.
	assert.Equal(t, "1.40", st.Branching.StringFixed(2))
	// 9 keyword runes, 7 non-start states.
	assert.Equal(t, "0.22", st.Sharing.StringFixed(2))

	empty := build().Stats()
	assert.True(t, empty.AverageDepth.Equal(decimal.Zero))
	assert.True(t, empty.Sharing.Equal(decimal.Zero))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "category", Fold("CaTeGoRy"))
	assert.Equal(t, "straße", Fold("STRAßE"))
	assert.Equal(t, strings.ToLower("ÉCOLE"), Fold("ÉCOLE"))
}

func mustFinal(t *testing.T, a *Automaton, id StateID) string {
	t.Helper()
	label, ok := a.IsFinal(id)
	assert.True(t, ok, "state %d should be final", id)
	return label
}

func BenchmarkBuild(b *testing.B) {
	words := strings.Fields("auto break case char const continue default do double else enum extern float for goto if int long register return short signed sizeof static struct switch typedef union unsigned void volatile while")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Build(context.Background(), words)
	}
}

func TestMarshalJSON(t *testing.T) {
	a := Build(context.Background(), []string{"ab"})

	data, err := json.Marshal(a)
	assert.NoError(t, err)

	var got struct {
		Words  []string `json:"words"`
		States []struct {
			ID     int    `json:"id"`
			Char   string `json:"char"`
			Prefix string `json:"prefix"`
			Final  string `json:"final"`
		} `json:"states"`
		Transitions []struct {
			From int    `json:"from"`
			Char string `json:"char"`
			To   int    `json:"to"`
		} `json:"transitions"`
		Stats struct {
			States    int    `json:"states"`
			Branching string `json:"branching"`
		} `json:"stats"`
	}
	assert.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, []string{"ab"}, got.Words)
	assert.Equal(t, 3, len(got.States))
	assert.Equal(t, "", got.States[0].Char)
	assert.Equal(t, "b", got.States[2].Char)
	assert.Equal(t, "ab", got.States[2].Prefix)
	assert.Equal(t, "AB", got.States[2].Final)
	assert.Equal(t, 2, len(got.Transitions))
	assert.Equal(t, "a", got.Transitions[0].Char)
	assert.Equal(t, 3, got.Stats.States)
	assert.Equal(t, "1", got.Stats.Branching)
}
