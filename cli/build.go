package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/Pathx4/Dynamic-FSM-Generator-App/automaton"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/formatter"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/loader"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/output"
)

type BuildCmd struct {
	KeywordFlags
	Transitions bool `help:"Also print the transition list."`
	JSON        bool `help:"Print the automaton as JSON." name:"json"`
}

func (cmd *BuildCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report := startTelemetry(ctx, globals, "build")
	defer report()

	result, err := cmd.load(runCtx, ctx)
	if err != nil {
		return loadFailed(ctx, err)
	}

	fsm := automaton.Build(runCtx, result.Words())

	if cmd.JSON {
		enc := json.NewEncoder(ctx.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(fsm)
	}

	f := formatter.New(formatter.WithStyles(output.NewStyles(ctx.Stdout)))
	if err := f.FormatSummary(fsm, ctx.Stdout); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(ctx.Stdout)
	if err := f.FormatStates(fsm, ctx.Stdout); err != nil {
		return err
	}
	if cmd.Transitions {
		_, _ = fmt.Fprintln(ctx.Stdout)
		if err := f.FormatTransitions(fsm, ctx.Stdout); err != nil {
			return err
		}
	}

	return nil
}

// loadFailed prints keyword loading errors that the user can fix and turns
// them into a CommandError. Other errors are returned unchanged.
func loadFailed(ctx *kong.Context, err error) error {
	var emptyErr *loader.EmptyKeywordsError
	if errors.As(err, &emptyErr) {
		printError(ctx.Stderr, err.Error())
		return NewCommandError(ExitNoKeywords)
	}
	return err
}
