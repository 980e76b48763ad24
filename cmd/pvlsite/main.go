package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pvlsite/cmd/pvlsite/commands"
	ferrors "git.home.luguber.info/inful/pvlsite/internal/foundation/errors"
	"git.home.luguber.info/inful/pvlsite/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, executes the selected command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cli := &commands.CLI{}
	parser, err := kong.New(cli,
		kong.Name("pvlsite"),
		kong.Description("Static site generator for the Personal Video Library website."),
		kong.Vars{"version": version.String()},
		kong.Writers(stdout, stderr),
		kong.UsageOnError(),
	)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		var perr *kong.ParseError
		if errors.As(err, &perr) && perr.Context != nil {
			_ = perr.Context.PrintUsage(true)
		}
		_, _ = fmt.Fprintf(stderr, "pvlsite: error: %v\n", err)
		return 2
	}
	err = ctx.Run(&commands.Global{Logger: slog.Default(), Out: stdout}, cli)
	adapter := ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
	adapter.SetOutput(stderr)
	return adapter.HandleError(err)
}
