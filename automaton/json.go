package automaton

import "encoding/json"

type stateJSON struct {
	ID     StateID `json:"id"`
	Char   string  `json:"char,omitempty"`
	Depth  int     `json:"depth"`
	Prefix string  `json:"prefix"`
	Final  string  `json:"final,omitempty"`
}

type transitionJSON struct {
	From StateID `json:"from"`
	Char string  `json:"char"`
	To   StateID `json:"to"`
}

type automatonJSON struct {
	Words       []string         `json:"words"`
	States      []stateJSON      `json:"states"`
	Transitions []transitionJSON `json:"transitions"`
	Stats       Stats            `json:"stats"`
}

// MarshalJSON encodes the state table, the transitions and Stats. Runes are
// encoded as one-character strings.
func (a *Automaton) MarshalJSON() ([]byte, error) {
	out := automatonJSON{
		Words:       a.Words(),
		States:      make([]stateJSON, 0, len(a.states)),
		Transitions: make([]transitionJSON, 0, len(a.transitions)),
		Stats:       a.Stats(),
	}
	if out.Words == nil {
		out.Words = []string{}
	}

	for _, s := range a.states {
		js := stateJSON{ID: s.ID, Depth: s.Depth, Prefix: s.Prefix, Final: a.finals[s.ID]}
		if !s.IsStart() {
			js.Char = string(s.Char)
		}
		out.States = append(out.States, js)
	}
	for _, t := range a.Transitions() {
		out.Transitions = append(out.Transitions, transitionJSON{From: t.From, Char: string(t.Char), To: t.To})
	}

	return json.Marshal(out)
}
