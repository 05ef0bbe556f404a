package cli

import "github.com/alecthomas/kong"

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool            `help:"Show timing telemetry for operations."`
	LogLevel  string          `help:"Log level for server and session events: ${enum}." enum:"debug,info,warn,error" default:"warn" env:"FSMGEN_LOG_LEVEL"`
	Config    kong.ConfigFlag `help:"Load flag defaults from a JSON config file." placeholder:"FILE"`
}

type Commands struct {
	Globals

	Build  BuildCmd  `cmd:"" help:"Build the keyword automaton and print its state table."`
	Scan   ScanCmd   `cmd:"" help:"Tokenize text into KEYWORD and IDENTIFIER tokens."`
	Run    RunCmd    `cmd:"" help:"Animate a stepped scan; space pauses, r restarts, q quits."`
	Doctor DoctorCmd `cmd:"" help:"Doctor utilities for inspecting automata and scans."`
	Web    WebCmd    `cmd:"" help:"Start a web server exposing the control surface."`
}
