package recognizer

import "fmt"

// TokenType classifies a token.
type TokenType uint8

const (
	IDENTIFIER TokenType = iota
	KEYWORD
)

var tokenNames = map[TokenType]string{
	IDENTIFIER: "IDENTIFIER",
	KEYWORD:    "KEYWORD",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// MarshalText implements encoding.TextMarshaler.
func (t TokenType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TokenType) UnmarshalText(text []byte) error {
	for typ, name := range tokenNames {
		if name == string(text) {
			*t = typ
			return nil
		}
	}
	return fmt.Errorf("unknown token type %q", text)
}

// Token is a classified substring of the scanned input.
type Token struct {
	Type TokenType `json:"type"`
	// Value is the matched text with the casing of the input.
	Value string `json:"value"`
	// Keyword is the label of the final state for KEYWORD tokens.
	Keyword string `json:"keyword,omitempty"`
	// Offset is the byte offset of Value in the input.
	Offset int `json:"offset"`
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Offset + len(t.Value)
}

func (t Token) String() string {
	if t.Type == KEYWORD {
		return fmt.Sprintf("%s(%q,%s)@%d", t.Type, t.Value, t.Keyword, t.Offset)
	}
	return fmt.Sprintf("%s(%q)@%d", t.Type, t.Value, t.Offset)
}
