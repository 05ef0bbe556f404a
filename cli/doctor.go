package cli

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/Pathx4/Dynamic-FSM-Generator-App/automaton"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/formatter"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/output"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/recognizer"
)

// DoctorCmd provides utilities for inspecting automata and scans.
type DoctorCmd struct {
	Trace TraceCmd `cmd:"" help:"Print every scanner step without delays."`
	Dump  DumpCmd  `cmd:"" help:"Dump the automaton and tokens as Go values."`
	Dot   DotCmd   `cmd:"" help:"Print the automaton in Graphviz DOT format."`
	Stats StatsCmd `cmd:"" help:"Print automaton statistics."`
}

// TraceCmd runs a scan and prints each step.
type TraceCmd struct {
	KeywordFlags
	PolicyFlag
	Cursor bool        `help:"Show the input with the cursor after every step."`
	Text   TextOrStdin `help:"Text to scan (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *TraceCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.Text.EnsureContents(); err != nil {
		return err
	}

	runCtx, report := startTelemetry(ctx, globals, "doctor.trace")
	defer report()

	result, err := cmd.load(runCtx, ctx)
	if err != nil {
		return loadFailed(ctx, err)
	}

	fsm := automaton.Build(runCtx, result.Words())
	rec := recognizer.New(fsm, recognizer.WithMismatchPolicy(cmd.policy()))
	f := formatter.New(formatter.WithStyles(output.NewStyles(ctx.Stdout)))

	n := 0
	tokens, err := rec.Trace(runCtx, cmd.Text.Text, func(step recognizer.Step) error {
		n++
		if err := f.FormatStep(n, step, ctx.Stdout); err != nil {
			return err
		}
		if cmd.Cursor {
			return f.FormatCursor(cmd.Text.Text, step.Pos, ctx.Stdout)
		}
		return nil
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(ctx.Stdout)
	printSuccess(ctx.Stdout, fmt.Sprintf("%d step(s), %s", n, summarize(tokens)))
	return nil
}

// DumpCmd prints the automaton internals, and the tokens when text is
// given, using repr.
type DumpCmd struct {
	KeywordFlags
	PolicyFlag
	Text string `help:"Text to scan; tokens are dumped as well." short:"t"`
}

func (cmd *DumpCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report := startTelemetry(ctx, globals, "doctor.dump")
	defer report()

	result, err := cmd.load(runCtx, ctx)
	if err != nil {
		return loadFailed(ctx, err)
	}

	fsm := automaton.Build(runCtx, result.Words())
	p := repr.New(ctx.Stdout, repr.Indent("  "))

	p.Println(fsm.Words())
	p.Println(fsm.States())
	p.Println(fsm.Transitions())

	if cmd.Text != "" {
		rec := recognizer.New(fsm, recognizer.WithMismatchPolicy(cmd.policy()))
		p.Println(rec.Scan(runCtx, cmd.Text))
	}
	return nil
}

// DotCmd prints the automaton as a Graphviz digraph.
type DotCmd struct {
	KeywordFlags
	Name string `help:"Graph name." default:"fsm"`
}

func (cmd *DotCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report := startTelemetry(ctx, globals, "doctor.dot")
	defer report()

	result, err := cmd.load(runCtx, ctx)
	if err != nil {
		return loadFailed(ctx, err)
	}

	fsm := automaton.Build(runCtx, result.Words())
	return formatter.New().FormatDOT(fsm, formatter.DOTOptions{Name: cmd.Name}, ctx.Stdout)
}

// StatsCmd prints summary figures for the automaton.
type StatsCmd struct {
	KeywordFlags
}

func (cmd *StatsCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report := startTelemetry(ctx, globals, "doctor.stats")
	defer report()

	result, err := cmd.load(runCtx, ctx)
	if err != nil {
		return loadFailed(ctx, err)
	}

	st := automaton.Build(runCtx, result.Words()).Stats()
	rows := [][2]string{
		{"keywords", fmt.Sprint(st.Keywords)},
		{"states", fmt.Sprint(st.States)},
		{"final states", fmt.Sprint(st.FinalStates)},
		{"transitions", fmt.Sprint(st.Transitions)},
		{"max depth", fmt.Sprint(st.MaxDepth)},
		{"average depth", st.AverageDepth.StringFixed(2)},
		{"branching", st.Branching.StringFixed(2)},
		{"prefix sharing", st.Sharing.StringFixed(2)},
	}
	for _, row := range rows {
		_, _ = fmt.Fprintf(ctx.Stdout, "%-16s%s\n", row[0], row[1])
	}
	return nil
}
