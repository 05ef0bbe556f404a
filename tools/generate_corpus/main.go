// Keyword Corpus Generator
//
// This tool generates a keyword list and a matching text corpus for
// performance testing and profiling of the recognizer.
//
// Usage:
//
//	go run main.go keywords.txt > corpus.txt
//	go run main.go keywords.txt 20000000 > corpus.txt  # Specify target size in bytes
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
)

const (
	defaultTargetSize = 10 * 1024 * 1024 // 10MB
)

var (
	keywords = []string{
		"if", "else", "for", "while", "return", "break", "continue",
		"switch", "case", "default", "func", "var", "const", "type",
		"struct", "interface", "map", "chan", "select", "go", "defer",
		"package", "import", "range", "fallthrough", "goto",
	}

	identifiers = []string{
		"index", "value", "result", "buffer", "reader", "writer",
		"iffy", "forest", "format", "caseload", "defaults", "typed",
		"mapping", "channel", "selector", "gopher", "packaged", "ranger",
		"Über", "café", "naïve", "日本", "straße",
	}

	separators = []string{" ", " ", " ", "  ", "\t", "\n"}
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: generate_corpus KEYWORDS_FILE [TARGET_SIZE]")
		os.Exit(2)
	}

	targetSize := defaultTargetSize
	if len(os.Args) > 2 {
		if size, err := strconv.Atoi(os.Args[2]); err == nil {
			targetSize = size
		}
	}

	if err := writeKeywords(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write keywords: %v\n", err)
		os.Exit(1)
	}

	bytesWritten := 0
	words := 0
	hits := 0

	for bytesWritten < targetSize {
		var word string
		switch rand.Intn(10) {
		case 0, 1, 2, 3: // 40% - Keyword
			word = keywords[rand.Intn(len(keywords))]
			hits++
		case 4: // 10% - Keyword with changed case
			word = strings.ToUpper(keywords[rand.Intn(len(keywords))])
			hits++
		default: // 50% - Identifier, often sharing a keyword prefix
			word = identifiers[rand.Intn(len(identifiers))]
		}

		out := word + separators[rand.Intn(len(separators))]
		fmt.Print(out)
		bytesWritten += len(out)
		words++
	}

	fmt.Fprintf(os.Stderr, "\nGenerated %d bytes with %d words (%d keywords)\n", bytesWritten, words, hits)
}

func writeKeywords(path string) error {
	var b strings.Builder
	b.WriteString("# Generated keyword list\n")
	for i, kw := range keywords {
		b.WriteString(kw)
		if i%6 == 5 || i == len(keywords)-1 {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}
