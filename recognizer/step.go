package recognizer

import "github.com/Pathx4/Dynamic-FSM-Generator-App/automaton"

// StepKind identifies which branch of the state machine a step took.
type StepKind uint8

const (
	// StepTransition followed an edge and consumed one rune.
	StepTransition StepKind = iota
	// StepWhitespace skipped a run of whitespace, finalizing any token in
	// progress.
	StepWhitespace
	// StepIdentifier consumed a rune that starts no keyword, together with
	// the letters following it, as one IDENTIFIER.
	StepIdentifier
	// StepFallback abandoned a partial match. The rune at At is examined
	// again from the start state on the next step.
	StepFallback
	// StepEnd finalized the token in progress at end of input.
	StepEnd
)

var stepNames = map[StepKind]string{
	StepTransition: "transition",
	StepWhitespace: "whitespace",
	StepIdentifier: "identifier",
	StepFallback:   "fallback",
	StepEnd:        "end",
}

func (k StepKind) String() string {
	if name, ok := stepNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k StepKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Step is the observable result of one scanner step.
type Step struct {
	Kind StepKind `json:"kind"`
	// At is the byte offset of the rune the step examined.
	At int `json:"at"`
	// Pos is the cursor after the step.
	Pos int `json:"pos"`
	// State is the automaton state after the step.
	State automaton.StateID `json:"state"`
	// Partial is the text of the token in progress after the step.
	Partial string `json:"partial"`
	// Token is the token finalized by the step, if any.
	Token *Token `json:"token,omitempty"`
}
