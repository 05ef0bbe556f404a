package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"github.com/Pathx4/Dynamic-FSM-Generator-App/formatter"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/output"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/session"
)

type RunCmd struct {
	KeywordFlags
	PolicyFlag
	Delay  time.Duration `help:"Pause between two steps." default:"600ms" env:"FSMGEN_DELAY"`
	Cursor bool          `help:"Show the input with the cursor after every step." negatable:"" default:"true"`
	Text   TextOrStdin   `help:"Text to scan (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *RunCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.Text.EnsureContents(); err != nil {
		return err
	}

	runCtx, report := startTelemetry(ctx, globals, "run")
	defer report()

	result, err := cmd.load(runCtx, ctx)
	if err != nil {
		return loadFailed(ctx, err)
	}

	out := ctx.Stdout
	interactive := isTerminal()
	if interactive {
		fd := int(os.Stdin.Fd())
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("failed to enter raw mode: %w", err)
		}
		defer func() { _ = term.Restore(fd, oldState) }()
		out = &crlfWriter{w: out}
	}

	printer := &stepPrinter{
		w:      out,
		text:   cmd.Text.Text,
		cursor: cmd.Cursor,
		f:      formatter.New(formatter.WithStyles(output.NewStyles(ctx.Stdout))),
	}

	sess := session.New(
		session.WithDelay(cmd.Delay),
		session.WithMismatchPolicy(cmd.policy()),
		session.WithLogger(globals.logger(ctx.Stderr)),
		session.WithObserver(printer.observe),
	)
	if err := sess.Generate(runCtx, result.Words()); err != nil {
		return err
	}

	scanCtx, cancel := context.WithCancel(runCtx)
	defer cancel()

	if interactive {
		printInfof(out, "space pauses or resumes, r restarts, q quits")
		go readKeys(os.Stdin, sess, cancel)
	}

	for {
		tokens, err := sess.Run(scanCtx, cmd.Text.Text)
		switch {
		case errors.Is(err, session.ErrReset):
			continue
		case errors.Is(err, context.Canceled):
			printInfof(out, "stopped")
			return nil
		case err != nil:
			return err
		}

		_, _ = fmt.Fprintln(out)
		if err := printer.f.FormatTokens(tokens, out); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out)
		printSuccess(out, summarize(tokens))
		return nil
	}
}

// stepPrinter writes session events as trace lines. Events arrive from the
// run and from the key reader, so writes are serialized.
type stepPrinter struct {
	mu     sync.Mutex
	w      io.Writer
	f      *formatter.Formatter
	text   string
	cursor bool
	n      int
}

func (p *stepPrinter) observe(ev session.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch ev.Type {
	case session.EventRun:
		p.n = 0
	case session.EventStep:
		p.n++
		_ = p.f.FormatStep(p.n, *ev.Step, p.w)
		if p.cursor {
			_ = p.f.FormatCursor(p.text, ev.Snapshot.Pos, p.w)
		}
	case session.EventPause:
		printInfof(p.w, "paused")
	case session.EventResume:
		printInfof(p.w, "resumed")
	case session.EventReset:
		printInfof(p.w, "restarting")
	}
}

// readKeys maps single key presses to session controls until stdin closes.
func readKeys(r io.Reader, sess *session.Session, quit context.CancelFunc) {
	buf := make([]byte, 1)
	for {
		if _, err := r.Read(buf); err != nil {
			return
		}
		switch buf[0] {
		case ' ', 'p':
			sess.Toggle()
		case 'r':
			sess.Reset()
		case 'q', 3: // 3 is Ctrl-C in raw mode
			quit()
			return
		}
	}
}

// crlfWriter translates "\n" to "\r\n" for terminals in raw mode.
type crlfWriter struct {
	w io.Writer
}

func (c *crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
