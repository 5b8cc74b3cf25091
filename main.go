package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/mcncl/jsonlayer/internal/config"
	"github.com/mcncl/jsonlayer/internal/errors"
)

// CLI defines the command-line interface
var CLI struct {
	Config   string `help:"Path to a YAML or TOML config file. Defaults to the nearest .jsonlayer.{yml,yaml,toml}." short:"c" type:"path"`
	Compact  bool   `help:"Print JSON without insignificant whitespace."`
	MaxLines int    `help:"Combined line count above which no diff is computed." default:"0"`
	Context  int    `help:"Unchanged lines shown around each change in a diff." default:"-1"`
	NoColor  bool   `help:"Disable coloured output."`
	Debug    bool   `help:"Enable debug logging." short:"d"`
	Version  bool   `help:"Show version information." short:"v"`

	Fmt  FmtCmd  `cmd:"" default:"withargs" help:"Parse a JSON document and print it (default)."`
	Diff DiffCmd `cmd:"" help:"Show a line diff between two JSON documents."`
	Open OpenCmd `cmd:"" help:"Open JSON strings nested in a document and print the innermost value."`
	Set  SetCmd  `cmd:"" help:"Replace a value, possibly inside nested JSON strings, and print the updated document."`
	Scan ScanCmd `cmd:"" help:"Report nested JSON strings, URIs, timestamps and big integers in a document."`
	Copy CopyCmd `cmd:"" help:"Print the raw text of a value, as it would be copied."`
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	// Parse CLI arguments with Kong
	parser := kong.Must(&CLI,
		kong.Name("jsonlayer"),
		kong.Description("Inspect and edit JSON documents, including JSON encoded inside JSON strings"),
		kong.UsageOnError(),
	)

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	// With no arguments at all, read a document typed at the terminal
	if len(os.Args) == 1 {
		CLI.Fmt.Interactive = true
	}

	// Show version and exit if requested
	if CLI.Version {
		fmt.Printf("jsonlayer version %s\n", Version)
		return
	}

	cfg, err := config.LoadConfigWithCLI(CLI.Config, cliOverrides())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	logger := newLogger(os.Stderr, logLevel(cfg))
	ctx := &Context{
		Context: withLogger(context.Background(), logger),
		Config:  cfg,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
	logger.Debug("starting", "command", kctx.Command(), "version", Version)

	if err := kctx.Run(ctx); err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsonlayer --help\n")
		os.Exit(1)
	}
}

// cliOverrides turns the global flags into config overrides. Flags left at
// their defaults do not override the config file.
func cliOverrides() config.Overrides {
	o := config.Overrides{
		NoColor: CLI.NoColor,
		Debug:   CLI.Debug,
	}
	if CLI.Compact {
		compact := true
		o.Compact = &compact
	}
	if CLI.MaxLines != 0 {
		maxLines := CLI.MaxLines
		o.MaxLines = &maxLines
	}
	if CLI.Context >= 0 {
		contextLines := CLI.Context
		o.Context = &contextLines
	}
	return o
}
