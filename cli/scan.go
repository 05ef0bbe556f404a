package cli

import (
	"encoding/json"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/Pathx4/Dynamic-FSM-Generator-App/automaton"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/formatter"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/output"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/recognizer"
)

type ScanCmd struct {
	KeywordFlags
	PolicyFlag
	JSON bool        `help:"Print tokens as JSON." name:"json"`
	Text TextOrStdin `help:"Text to scan (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *ScanCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.Text.EnsureContents(); err != nil {
		return err
	}

	runCtx, report := startTelemetry(ctx, globals, "scan")
	defer report()

	result, err := cmd.load(runCtx, ctx)
	if err != nil {
		return loadFailed(ctx, err)
	}

	fsm := automaton.Build(runCtx, result.Words())
	rec := recognizer.New(fsm, recognizer.WithMismatchPolicy(cmd.policy()))
	tokens := rec.Scan(runCtx, cmd.Text.Text)

	if cmd.JSON {
		if tokens == nil {
			tokens = []recognizer.Token{}
		}
		enc := json.NewEncoder(ctx.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(tokens)
	}

	f := formatter.New(formatter.WithStyles(output.NewStyles(ctx.Stdout)))
	if err := f.FormatTokens(tokens, ctx.Stdout); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(ctx.Stdout)
	printSuccess(ctx.Stdout, summarize(tokens))

	return nil
}

// summarize counts tokens by type.
func summarize(tokens []recognizer.Token) string {
	keywords := 0
	for _, t := range tokens {
		if t.Type == recognizer.KEYWORD {
			keywords++
		}
	}
	return fmt.Sprintf("%d token(s): %d keyword(s), %d identifier(s)", len(tokens), keywords, len(tokens)-keywords)
}
