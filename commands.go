package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcncl/jsonlayer/internal/analyzer"
	"github.com/mcncl/jsonlayer/internal/config"
	"github.com/mcncl/jsonlayer/internal/errors"
	"github.com/mcncl/jsonlayer/internal/formatter"
	"github.com/mcncl/jsonlayer/internal/models"
	"github.com/mcncl/jsonlayer/internal/parser"
	"github.com/mcncl/jsonlayer/internal/session"
)

// Context holds the runtime context passed to every command
type Context struct {
	context.Context

	Config *config.Config
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (c *Context) config() *config.Config {
	if c.Config == nil {
		c.Config = config.NewConfig()
	}
	return c.Config
}

func (c *Context) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

func (c *Context) stderr() io.Writer {
	if c.Stderr == nil {
		return os.Stderr
	}
	return c.Stderr
}

func (c *Context) stdin() io.Reader {
	if c.Stdin == nil {
		return os.Stdin
	}
	return c.Stdin
}

func (c *Context) printer() *printer {
	return newPrinter(c.config().Output.Color)
}

// InputFlags selects where a document is read from
type InputFlags struct {
	Input       string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// LayerFlags lists the nested JSON strings to open before acting
type LayerFlags struct {
	Via []string `help:"Path of a JSON string to open as a layer, relative to the previous layer. Repeatable." short:"l"`
}

// FmtCmd parses a document and prints it
type FmtCmd struct {
	InputFlags
	Output string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
}

// Run executes the fmt command
func (c *FmtCmd) Run(ctx *Context) error {
	v, err := parseInput(ctx, c.InputFlags)
	if err != nil {
		return err
	}
	text, err := serialize(v, ctx.config().Format.Compact)
	if err != nil {
		return err
	}
	return writeOutput(ctx.stdout(), c.Output, text)
}

// DiffCmd compares two documents line by line after pretty-printing both
type DiffCmd struct {
	Base string `arg:"" help:"Base JSON file." type:"path"`
	Next string `arg:"" help:"JSON file to compare against the base." type:"path"`
}

// Run executes the diff command
func (c *DiffCmd) Run(ctx *Context) error {
	logger := ctx.logger()

	base, err := prettyFile(c.Base)
	if err != nil {
		return err
	}
	next, err := prettyFile(c.Next)
	if err != nil {
		return err
	}

	engine := ctx.config().DiffEngine()
	res := engine.DiffText(base, next)
	logger.Debug("diffed documents", "adds", res.Added, "dels", res.Deleted, "max_lines", engine.MaxLines())

	if err := ctx.printer().writeDiff(ctx.stdout(), engine, res, ctx.config().Output.Summary); err != nil {
		return err
	}
	return res.Err()
}

func prettyFile(path string) (string, error) {
	v, err := parser.ParseFile(path)
	if err != nil {
		return "", err
	}
	return formatter.Pretty(v)
}

// OpenCmd opens a chain of nested JSON strings and prints the innermost value
type OpenCmd struct {
	InputFlags
	Paths []string `arg:"" optional:"" name:"path" help:"Path of a JSON string to open, relative to the previous one. Use a.b[0] or [\"a\",\"b\",0]."`
}

// Run executes the open command
func (c *OpenCmd) Run(ctx *Context) error {
	sess, ref, err := openSession(ctx, c.InputFlags, c.Paths)
	if err != nil {
		return err
	}

	var v models.Value
	if ref == session.RootRef {
		v = sess.Root()
	} else {
		l, err := sess.Layer(ref)
		if err != nil {
			return err
		}
		v = l.Value()
	}
	text, err := serialize(v, ctx.config().Format.Compact)
	if err != nil {
		return err
	}
	return writeOutput(ctx.stdout(), "", text)
}

// SetCmd replaces one value and prints the updated document
type SetCmd struct {
	InputFlags
	LayerFlags
	Path    string `arg:"" help:"Path of the value to replace, inside the innermost layer."`
	Value   string `arg:"" help:"New value as JSON text."`
	String  bool   `help:"Treat the new value as a plain string rather than JSON text." short:"s"`
	Preview bool   `help:"Print a diff of the edited value to stderr before committing." short:"p"`
	Output  string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
}

// Run executes the set command
func (c *SetCmd) Run(ctx *Context) error {
	logger := ctx.logger()

	sess, ref, err := openSession(ctx, c.InputFlags, c.Via)
	if err != nil {
		return err
	}
	path, err := parser.ParsePath(c.Path)
	if err != nil {
		return err
	}

	l, err := sess.OpenValueEditor(ref, path)
	if err != nil {
		return err
	}

	text := c.Value
	if c.String {
		if text, err = formatter.Compact(models.String(c.Value)); err != nil {
			return err
		}
	}
	if err := sess.SetPendingText(l.Ref(), text); err != nil {
		return err
	}

	if c.Preview {
		res, err := sess.PreviewDiff(l.Ref())
		if err != nil {
			return err
		}
		engine := ctx.config().DiffEngine()
		if err := ctx.printer().writeDiff(ctx.stderr(), engine, res, true); err != nil {
			return err
		}
	}

	root, err := sess.Commit(l.Ref())
	if err != nil {
		return err
	}
	logger.Debug("committed", "session", sess.ID(), "layer", l.Index(), "path", l.FullPath())

	out, err := serialize(root, ctx.config().Format.Compact)
	if err != nil {
		return err
	}
	return writeOutput(ctx.stdout(), c.Output, out)
}

// ScanCmd reports what a document contains
type ScanCmd struct {
	InputFlags
	JSON bool `help:"Print the report as JSON." short:"j"`
}

// Run executes the scan command
func (c *ScanCmd) Run(ctx *Context) error {
	v, err := parseInput(ctx, c.InputFlags)
	if err != nil {
		return err
	}

	report, err := analyzer.NewAnalyzerWithConfig(ctx.config()).Analyze(v)
	if err != nil {
		return err
	}
	ctx.logger().Debug("scanned document", "values", report.Total(), "depth", report.MaxDepth)

	if c.JSON {
		text, err := serialize(reportValue(report), ctx.config().Format.Compact)
		if err != nil {
			return err
		}
		return writeOutput(ctx.stdout(), "", text)
	}
	return ctx.printer().writeReport(ctx.stdout(), report)
}

// CopyCmd prints a value the way it would be placed on the clipboard
type CopyCmd struct {
	InputFlags
	LayerFlags
	Path     string `arg:"" optional:"" help:"Path of the value inside the innermost layer. Defaults to the whole layer."`
	FullPath bool   `help:"Print the full display path of the value instead of its text." name:"full-path"`
}

// Run executes the copy command
func (c *CopyCmd) Run(ctx *Context) error {
	sess, ref, err := openSession(ctx, c.InputFlags, c.Via)
	if err != nil {
		return err
	}
	path, err := parser.ParsePath(c.Path)
	if err != nil {
		return err
	}

	if c.FullPath {
		base, err := sess.CopyFullPath(ref)
		if err != nil {
			return err
		}
		return writeOutput(ctx.stdout(), "", models.JoinFullPath(base, path))
	}

	text, err := sess.CopyText(ref, path, ctx.config().Format.Compact)
	if err != nil {
		return err
	}
	return writeOutput(ctx.stdout(), "", text)
}

// openSession reads the input document and opens one layer per path, each
// relative to the layer before it. It returns the innermost layer, or
// RootRef when no paths are given.
func openSession(ctx *Context, in InputFlags, paths []string) (*session.Session, session.LayerRef, error) {
	logger := ctx.logger()

	v, err := parseInput(ctx, in)
	if err != nil {
		return nil, session.RootRef, err
	}
	sess := session.New(v, session.WithDiffEngine(ctx.config().DiffEngine()))

	ref := session.RootRef
	for _, text := range paths {
		path, err := parser.ParsePath(text)
		if err != nil {
			return nil, session.RootRef, err
		}
		l, err := sess.Open(ref, path)
		if err != nil {
			return nil, session.RootRef, err
		}
		logger.Debug("opened layer", "session", sess.ID(), "layer", l.Index(), "path", l.FullPath())
		ref = l.Ref()
	}
	return sess, ref, nil
}

// parseInput reads JSON from file or stdin
func parseInput(ctx *Context, in InputFlags) (models.Value, error) {
	if in.Input != "" {
		return parser.ParseFile(in.Input)
	}

	stdin := ctx.stdin()
	if f, ok := stdin.(*os.File); ok {
		stdinInfo, err := f.Stat()
		if err != nil {
			return nil, errors.NewInputError("failed to access stdin", err)
		}

		// Terminal is interactive (not piped)
		if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
			if in.Interactive {
				return readInteractiveInput(stdin, ctx.stderr())
			}
			return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
		}
	}

	// Read from stdin (piped input)
	jsonData, err := io.ReadAll(stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}
	if len(strings.TrimSpace(string(jsonData))) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseBytes(jsonData)
}

// readInteractiveInput lets users paste JSON and signal completion with
// Ctrl+D (EOF)
func readInteractiveInput(r io.Reader, prompt io.Writer) (models.Value, error) {
	fmt.Fprintln(prompt, "jsonlayer interactive mode")
	fmt.Fprintln(prompt, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(r)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewInputError("error reading input", err)
		}
	}

	jsonData := jsonBuilder.String()
	if len(strings.TrimSpace(jsonData)) == 0 {
		return nil, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(prompt, "\nProcessing JSON...")
	return parser.ParseString(jsonData)
}
