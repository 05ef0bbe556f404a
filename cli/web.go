package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/Pathx4/Dynamic-FSM-Generator-App/loader"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/session"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/web"
)

type WebCmd struct {
	KeywordFlags
	PolicyFlag
	Port     int           `help:"Port to listen on." default:"8080" env:"FSMGEN_PORT"`
	Delay    time.Duration `help:"Pause between two steps of a run." default:"600ms" env:"FSMGEN_DELAY"`
	Watch    bool          `help:"Regenerate the automaton when the keywords file changes." short:"w"`
	ReadOnly bool          `help:"Enable read-only mode (the keyword list cannot be changed)." short:"r"`
}

func (cmd *WebCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report := startTelemetry(ctx, globals, "web")
	defer report()

	runCtx, stop := signal.NotifyContext(runCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := globals.logger(ctx.Stderr)
	sess := session.New(
		session.WithDelay(cmd.Delay),
		session.WithMismatchPolicy(cmd.policy()),
		session.WithLogger(logger),
	)

	version := Version
	if version == "" {
		version = "dev"
	}
	commitSHA := CommitSHA
	if commitSHA == "" {
		commitSHA = "local"
	}

	opts := []web.Option{
		web.WithLogger(logger),
		web.WithVersion(version, commitSHA),
	}
	if cmd.ReadOnly {
		opts = append(opts, web.WithReadOnly())
	}

	file := cmd.KeywordsFile
	switch {
	case file.IsSet() && file.Filename != loader.StdinFilename:
		opts = append(opts, web.WithKeywordsFile(file.Filename))
		if cmd.Watch {
			opts = append(opts, web.WithWatch())
		}
	case file.IsSet() || cmd.Keywords != "":
		if cmd.Watch {
			return fmt.Errorf("--watch requires a keywords file")
		}
		if err := cmd.generate(runCtx, ctx, sess); err != nil {
			return err
		}
	case cmd.Watch:
		return fmt.Errorf("--watch requires a keywords file")
	}

	server := web.New(cmd.Port, sess, opts...)

	printInfof(ctx.Stdout, "Starting server on %s:%d", server.Host, cmd.Port)
	if file.IsSet() && file.Filename != loader.StdinFilename {
		printInfof(ctx.Stdout, "Serving keywords: %s", pathStyle.Render(file.Filename))
	}
	if cmd.ReadOnly {
		printInfof(ctx.Stdout, "Server running in READ-ONLY mode")
	}

	return server.Start(runCtx)
}

// generate builds the initial automaton from inline or stdin keywords.
func (cmd *WebCmd) generate(ctx context.Context, kctx *kong.Context, sess *session.Session) error {
	result, err := cmd.load(ctx, kctx)
	if err != nil {
		return loadFailed(kctx, err)
	}
	return sess.Generate(ctx, result.Words())
}
