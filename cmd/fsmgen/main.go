package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	fsmcli "github.com/Pathx4/Dynamic-FSM-Generator-App/cli"
)

var (
	// Version contains the application version number. It's set via ldflags
	// when building.
	Version = ""

	// CommitSHA contains the SHA of the commit that this application was built
	// against. It's set via ldflags when building.
	CommitSHA = ""

	cli struct {
		Version kong.VersionFlag `help:"Show version information"`
		fsmcli.Commands
	}
)

func main() {
	fsmcli.Version = Version
	fsmcli.CommitSHA = CommitSHA

	ctx := kong.Parse(&cli,
		kong.Vars{
			"version": buildVersion(),
		},
		kong.Name("fsmgen"),
		kong.Description("Build keyword automata and watch them tokenize text step by step."),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, "~/.config/fsmgen/config.json"),
		kong.Bind(&cli.Globals),
	)

	err := ctx.Run()

	var cmdErr *fsmcli.CommandError
	if errors.As(err, &cmdErr) {
		os.Exit(cmdErr.ExitCode())
	}
	ctx.FatalIfErrorf(err)
}

func buildVersion() string {
	version := Version
	if version == "" {
		version = "dev"
	}
	if CommitSHA == "" {
		return version
	}
	return fmt.Sprintf("%s (%s)", version, CommitSHA)
}
