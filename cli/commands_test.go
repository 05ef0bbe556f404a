package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/alecthomas/kong"
)

// execute parses args against the full command tree and runs the selected
// command in-process.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var cli struct {
		Commands
	}
	var outBuf, errBuf bytes.Buffer

	parser, err := kong.New(&cli,
		kong.Name("fsmgen"),
		kong.Writers(&outBuf, &errBuf),
		kong.Exit(func(int) {}),
		kong.Configuration(kong.JSON),
		kong.Bind(&cli.Globals),
	)
	assert.NoError(t, err)

	ctx, err := parser.Parse(args)
	assert.NoError(t, err)

	err = ctx.Run()
	return outBuf.String(), errBuf.String(), err
}

func writeKeywords(t *testing.T, contents string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "keywords.txt")
	assert.NoError(t, os.WriteFile(file, []byte(contents), 0644))
	return file
}

func TestBuildCmd(t *testing.T) {
	t.Run("Table", func(t *testing.T) {
		stdout, _, err := execute(t, "build", "-k", "cat car", "--transitions")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "2 keywords, 5 states (2 final), 4 transitions")
		assert.Contains(t, stdout, "START")
		assert.Contains(t, stdout, "CAT")
		assert.Contains(t, stdout, "CAR")
	})

	t.Run("JSON", func(t *testing.T) {
		stdout, _, err := execute(t, "build", "-k", "if", "--json")
		assert.NoError(t, err)

		var doc struct {
			Words       []string          `json:"words"`
			States      []json.RawMessage `json:"states"`
			Transitions []json.RawMessage `json:"transitions"`
		}
		assert.NoError(t, json.Unmarshal([]byte(stdout), &doc))
		assert.Equal(t, []string{"if"}, doc.Words)
		assert.Equal(t, 3, len(doc.States))
		assert.Equal(t, 2, len(doc.Transitions))
	})

	t.Run("KeywordsFile", func(t *testing.T) {
		file := writeKeywords(t, "# loops\nfor while\n")
		stdout, _, err := execute(t, "build", "-f", file)
		assert.NoError(t, err)
		assert.Contains(t, stdout, "2 keywords")
		assert.Contains(t, stdout, "WHILE")
	})

	t.Run("EmptyFile", func(t *testing.T) {
		file := writeKeywords(t, "# nothing here\n")
		_, stderr, err := execute(t, "build", "-f", file)

		var cmdErr *CommandError
		assert.True(t, errors.As(err, &cmdErr))
		assert.Equal(t, ExitNoKeywords, cmdErr.ExitCode())
		assert.Contains(t, stderr, "no keywords found")
	})

	t.Run("Diagnostics", func(t *testing.T) {
		stdout, stderr, err := execute(t, "build", "-k", "cat CAT c4t")
		assert.NoError(t, err)
		assert.Contains(t, stderr, `duplicate keyword "CAT"`)
		assert.Contains(t, stderr, "2 keyword warning(s)")
		assert.Contains(t, stdout, "2 keywords")
	})

	t.Run("Strict", func(t *testing.T) {
		_, stderr, err := execute(t, "build", "-k", "cat CAT", "--strict")

		var cmdErr *CommandError
		assert.True(t, errors.As(err, &cmdErr))
		assert.Equal(t, ExitDiagnostics, cmdErr.ExitCode())
		assert.Contains(t, stderr, "1 keyword warning(s)")
	})
}

func TestScanCmd(t *testing.T) {
	t.Run("Table", func(t *testing.T) {
		stdout, _, err := execute(t, "scan", "-k", "cat dog", "Cat category dog")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "OFFSET")
		assert.Contains(t, stdout, "egory")
		assert.Contains(t, stdout, "4 token(s): 2 keyword(s), 2 identifier(s)")
	})

	t.Run("KeywordPolicy", func(t *testing.T) {
		stdout, _, err := execute(t, "scan", "-k", "cat", "--policy", "keyword", "category")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "2 token(s): 1 keyword(s), 1 identifier(s)")
	})

	t.Run("JSON", func(t *testing.T) {
		stdout, _, err := execute(t, "scan", "-k", "if", "--json", "if x")
		assert.NoError(t, err)

		var tokens []struct {
			Type    string `json:"type"`
			Value   string `json:"value"`
			Keyword string `json:"keyword"`
			Offset  int    `json:"offset"`
		}
		assert.NoError(t, json.Unmarshal([]byte(stdout), &tokens))
		assert.Equal(t, 2, len(tokens))
		assert.Equal(t, "KEYWORD", tokens[0].Type)
		assert.Equal(t, "IF", tokens[0].Keyword)
		assert.Equal(t, "IDENTIFIER", tokens[1].Type)
		assert.Equal(t, 3, tokens[1].Offset)
	})

	t.Run("EmptyText", func(t *testing.T) {
		stdout, _, err := execute(t, "scan", "-k", "if", "--json", "")
		assert.NoError(t, err)
		assert.Equal(t, "[]", strings.TrimSpace(stdout))
	})
}

func TestRunCmd(t *testing.T) {
	stdout, _, err := execute(t, "run", "-k", "cat", "--delay", "0s", "Cat category")
	assert.NoError(t, err)

	assert.Contains(t, stdout, "transition")
	assert.Contains(t, stdout, "whitespace")
	assert.Contains(t, stdout, "end")
	assert.Contains(t, stdout, "^")
	assert.Contains(t, stdout, "3 token(s): 1 keyword(s), 2 identifier(s)")
}

func TestRunCmdNoCursor(t *testing.T) {
	stdout, _, err := execute(t, "run", "-k", "ab", "--delay", "0s", "--no-cursor", "ab")
	assert.NoError(t, err)
	assert.NotContains(t, stdout, "^")
	assert.Contains(t, stdout, "1 token(s): 1 keyword(s), 0 identifier(s)")
}

func TestDoctorTrace(t *testing.T) {
	stdout, _, err := execute(t, "doctor", "trace", "-k", "ab", "ab")
	assert.NoError(t, err)
	assert.Contains(t, stdout, "   1  transition")
	assert.Contains(t, stdout, "   3  end")
	assert.Contains(t, stdout, "3 step(s), 1 token(s)")
}

func TestDoctorDump(t *testing.T) {
	stdout, _, err := execute(t, "doctor", "dump", "-k", "ab", "-t", "ab x")
	assert.NoError(t, err)
	assert.Contains(t, stdout, `"ab"`)
	assert.Contains(t, stdout, "automaton.State")
	assert.Contains(t, stdout, "automaton.Transition")
	assert.Contains(t, stdout, "recognizer.Token")
}

func TestDoctorDot(t *testing.T) {
	stdout, _, err := execute(t, "doctor", "dot", "-k", "ab", "--name", "demo")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "digraph \"demo\" {\n"))
	assert.Contains(t, stdout, "shape=doublecircle")
	assert.Contains(t, stdout, "__start -> q0;")
}

func TestDoctorStats(t *testing.T) {
	stdout, _, err := execute(t, "doctor", "stats", "-k", "cat car")
	assert.NoError(t, err)
	assert.Contains(t, stdout, "states          5\n")
	assert.Contains(t, stdout, "final states    2\n")
	assert.Contains(t, stdout, "average depth   3.00\n")
	assert.Contains(t, stdout, "branching       1.33\n")
	assert.Contains(t, stdout, "prefix sharing  0.33\n")
}

func TestWebCmdWatchRequiresFile(t *testing.T) {
	_, _, err := execute(t, "web", "-k", "if", "--watch", "--port", "0")
	assert.EqualError(t, err, "--watch requires a keywords file")
}
