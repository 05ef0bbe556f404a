package automaton

import (
	"github.com/shopspring/decimal"
)

// statsPlaces is the number of decimal places kept in ratio fields.
const statsPlaces = 2

// Stats summarizes an automaton for reporting.
type Stats struct {
	States      int `json:"states"`
	FinalStates int `json:"final_states"`
	Transitions int `json:"transitions"`
	Keywords    int `json:"keywords"`
	MaxDepth    int `json:"max_depth"`

	// AverageDepth is the mean depth of the final states.
	AverageDepth decimal.Decimal `json:"average_depth"`
	// Branching is the mean out-degree of the states that have edges.
	Branching decimal.Decimal `json:"branching"`
	// Sharing is the fraction of keyword runes that did not need a state of
	// their own because their prefix was already present.
	Sharing decimal.Decimal `json:"sharing"`
}

// Stats computes summary figures for a.
func (a *Automaton) Stats() Stats {
	st := Stats{
		States:      a.StateCount(),
		FinalStates: a.FinalStateCount(),
		Transitions: a.TransitionCount(),
		Keywords:    len(a.words),
	}

	depthSum := 0
	for id := range a.finals {
		depthSum += a.states[id].Depth
	}
	for _, s := range a.states {
		if s.Depth > st.MaxDepth {
			st.MaxDepth = s.Depth
		}
	}

	sources := make(map[StateID]struct{})
	for k := range a.transitions {
		sources[k.from] = struct{}{}
	}

	runes := 0
	for _, w := range a.words {
		runes += len([]rune(w))
	}

	st.AverageDepth = ratio(depthSum, st.FinalStates)
	st.Branching = ratio(st.Transitions, len(sources))
	if runes > 0 {
		// Every non-start state accounts for exactly one keyword rune.
		st.Sharing = decimal.NewFromInt(1).
			Sub(decimal.NewFromInt(int64(st.States - 1)).Div(decimal.NewFromInt(int64(runes)))).
			Round(statsPlaces)
	}

	return st
}

func ratio(num, den int) decimal.Decimal {
	if den == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(num)).
		Div(decimal.NewFromInt(int64(den))).
		Round(statsPlaces)
}
