package formatter

import (
	"strconv"
	"strings"
	"unicode"
)

// escapeString escapes special characters for a double-quoted DOT string.
func escapeString(s string) string {
	// Quick check if escaping is needed
	needsEscape := false
	for _, c := range s {
		if c == '"' || c == '\\' || c == '\n' || c == '\t' || c == '\r' {
			needsEscape = true
			break
		}
	}

	if !needsEscape {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s) + 10)

	for _, c := range s {
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\t':
			buf.WriteString(`\t`)
		case '\r':
			buf.WriteString(`\r`)
		default:
			buf.WriteRune(c)
		}
	}

	return buf.String()
}

// displayRune renders an edge label so that invisible runes stay visible in
// tables and diagrams.
func displayRune(r rune) string {
	if unicode.IsPrint(r) && !unicode.IsSpace(r) {
		return string(r)
	}
	return strings.Trim(strconv.QuoteRune(r), "'")
}

// displayText quotes text only when it contains invisible runes.
func displayText(s string) string {
	for _, r := range s {
		if !unicode.IsPrint(r) || unicode.IsSpace(r) {
			return strconv.Quote(s)
		}
	}
	return s
}
