// Package cli implements the fsmgen command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/Pathx4/Dynamic-FSM-Generator-App/loader"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/output"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/recognizer"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/telemetry"
)

var (
	successSymbol = "✓"
	errorSymbol   = "✗"
	warningSymbol = "!"
	infoSymbol    = "→"

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D7AF00", Dark: "#FFD75F"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D7D7", Dark: "#00D7D7"})
)

func printSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		successStyle.Render(successSymbol),
		message,
	)
}

func printError(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		errorStyle.Render(errorSymbol),
		errorStyle.Render(message),
	)
}

func printWarning(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		warningStyle.Render(warningSymbol),
		warningStyle.Render(message),
	)
}

func printInfof(w io.Writer, format string, args ...interface{}) {
	formatted := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(w, "%s %s\n",
		infoStyle.Render(infoSymbol),
		formatted,
	)
}

// promptKeywords asks for a keyword list on the terminal.
// Returns an empty string if stdin is not a terminal.
func promptKeywords() (string, error) {
	if !isTerminal() {
		return "", nil
	}

	var keywords string

	form := huh.NewInput().
		Title("Keywords").
		Description("Whitespace-separated, e.g. if else for while").
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("enter at least one keyword")
			}
			return nil
		}).
		Value(&keywords)

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("failed to read keywords: %w", err)
	}

	return keywords, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// FileOrStdin accepts either a file path or "-" for stdin.
// For stdin: Filename="<stdin>", Contents populated.
// For files: Filename set, Contents nil (read by loader).
type FileOrStdin struct {
	Filename string
	Contents []byte
}

// Decode implements kong.MapperValue.
func (f *FileOrStdin) Decode(ctx *kong.DecodeContext) error {
	var filename string
	if err := ctx.Scan.PopValueInto("filename", &filename); err != nil {
		return err
	}

	if filename == "-" {
		contents, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
		f.Filename = loader.StdinFilename
		f.Contents = contents
		return nil
	}

	if _, err := os.Stat(filename); err != nil {
		return err
	}
	f.Filename = filename
	f.Contents = nil

	return nil
}

// IsSet reports whether a file or stdin was given.
func (f *FileOrStdin) IsSet() bool {
	return f.Filename != ""
}

// Load reads the keyword list with LoadBytes for stdin or Load for files.
func (f *FileOrStdin) Load(ctx context.Context, ldr *loader.Loader) (*loader.Result, error) {
	if f.Filename == loader.StdinFilename {
		return ldr.LoadBytes(ctx, f.Filename, f.Contents)
	}
	return ldr.Load(ctx, f.Filename)
}

// KeywordFlags selects where the keyword list comes from.
type KeywordFlags struct {
	Keywords     string      `help:"Whitespace-separated keyword list." short:"k" env:"FSMGEN_KEYWORDS"`
	KeywordsFile FileOrStdin `help:"Keyword list file, one or more keywords per line, '#' starts a comment line (use '-' for stdin)." short:"f" placeholder:"FILE"`
	Strict       bool        `help:"Fail when the keyword list has warnings."`
}

// load reads the keyword list from the file, the flag or an interactive
// prompt, in that order, and prints its diagnostics as warnings. With
// --strict any diagnostic fails the command.
func (k *KeywordFlags) load(ctx context.Context, kctx *kong.Context) (*loader.Result, error) {
	ldr := loader.New()

	var (
		result *loader.Result
		err    error
	)
	switch {
	case k.KeywordsFile.IsSet():
		result, err = k.KeywordsFile.Load(ctx, ldr)
	case k.Keywords != "":
		result, err = ldr.LoadString(ctx, k.Keywords)
	default:
		var keywords string
		keywords, err = promptKeywords()
		if err != nil {
			return nil, err
		}
		if keywords == "" {
			return nil, fmt.Errorf("no keywords given: use --keywords or --keywords-file")
		}
		result, err = ldr.LoadString(ctx, keywords)
	}
	if err != nil {
		return nil, err
	}

	if len(result.Diagnostics) > 0 {
		renderer := NewErrorRenderer(result.Source)
		_, _ = fmt.Fprintln(kctx.Stderr, renderer.RenderAll(result.Errors()))
		summary := fmt.Sprintf("%d keyword warning(s)", len(result.Diagnostics))
		if k.Strict {
			printError(kctx.Stderr, summary)
			return nil, NewCommandError(ExitDiagnostics).Because(summary)
		}
		printWarning(kctx.Stderr, summary)
	}

	return result, nil
}

// TextOrStdin is the text to scan, given literally or as "-" for stdin.
type TextOrStdin struct {
	Text string
	set  bool
}

// Decode implements kong.MapperValue.
func (t *TextOrStdin) Decode(ctx *kong.DecodeContext) error {
	var text string
	if err := ctx.Scan.PopValueInto("text", &text); err != nil {
		return err
	}
	t.set = true
	if text == "-" {
		return t.readStdin()
	}
	t.Text = text
	return nil
}

// EnsureContents reads stdin if no text was given.
func (t *TextOrStdin) EnsureContents() error {
	if t.set {
		return nil
	}
	t.set = true
	return t.readStdin()
}

func (t *TextOrStdin) readStdin() error {
	contents, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read from stdin: %w", err)
	}
	t.Text = strings.TrimSuffix(string(contents), "\n")
	return nil
}

// PolicyFlag selects the recognizer's mismatch policy.
type PolicyFlag struct {
	Policy string `help:"What a partial match that fails on a final state emits: ${enum}." enum:"identifier,keyword" default:"identifier" env:"FSMGEN_POLICY"`
}

func (p PolicyFlag) policy() recognizer.MismatchPolicy {
	policy, err := recognizer.ParseMismatchPolicy(p.Policy)
	if err != nil {
		// Unreachable: kong validates the enum.
		return recognizer.MismatchIdentifier
	}
	return policy
}

// startTelemetry installs a timing collector when --telemetry is set. The
// returned function ends the root timer and prints the report once.
func startTelemetry(kctx *kong.Context, globals *Globals, name string) (context.Context, func()) {
	ctx := context.Background()
	if !globals.Telemetry {
		return ctx, func() {}
	}

	collector := telemetry.NewTimingCollector()
	ctx = telemetry.WithCollector(ctx, collector)
	timer := collector.Start(name)

	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			timer.End()
			_, _ = fmt.Fprintln(kctx.Stderr)
			collector.Report(kctx.Stderr, output.NewStyles(kctx.Stderr))
		})
	}
}

// logger returns a console logger on w at the level chosen by --log-level.
func (g *Globals) logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(g.LogLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
