// Package diff computes line-based edit scripts with Myers' algorithm and
// prepares them for display.
package diff

import (
	"fmt"
	"strings"

	"github.com/mcncl/jsonlayer/internal/errors"
)

// Default limits for diff computation.
const (
	// DefaultMaxLines is the combined line count above which no diff is computed.
	// Myers keeps about D²/2 ints of trace for an edit distance D, so at this
	// ceiling two inputs with no line in common need roughly 1.6 GB.
	DefaultMaxLines = 20000

	// DefaultContextLines is the number of unchanged lines kept around each edit.
	DefaultContextLines = 3
)

// Op is the kind of a single edit.
type Op uint8

const (
	// OpContext is a line present in both inputs.
	OpContext Op = iota

	// OpInsert is a line present only in the next input.
	OpInsert

	// OpDelete is a line present only in the base input.
	OpDelete
)

// String returns a human-readable representation of the op.
func (o Op) String() string {
	switch o {
	case OpContext:
		return "context"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Edit is one line of an edit script.
type Edit struct {
	Op   Op
	Line string
}

// Status tells whether a diff was computed.
type Status uint8

const (
	StatusOK Status = iota
	StatusTooLarge
)

// Result is the outcome of Engine.Diff.
type Result struct {
	Status Status

	// Edits replays to the next input by skipping deletes and to the base
	// input by skipping inserts. Empty when Status is StatusTooLarge.
	Edits []Edit

	Added   int
	Deleted int
}

// Identical reports whether the inputs were compared and found line-identical.
func (r Result) Identical() bool {
	return r.Status == StatusOK && r.Added == 0 && r.Deleted == 0
}

// Summary returns "+N  -M", "no changes" or "too large to diff".
func (r Result) Summary() string {
	switch {
	case r.Status == StatusTooLarge:
		return "too large to diff"
	case r.Identical():
		return "no changes"
	default:
		return fmt.Sprintf("+%d  -%d", r.Added, r.Deleted)
	}
}

// Err returns a too-large error when the diff was skipped, nil otherwise.
func (r Result) Err() error {
	if r.Status == StatusTooLarge {
		return errors.NewTooLargeError("combined line count exceeds the diff limit")
	}
	return nil
}

// Options configures an Engine.
type Options struct {
	// MaxLines caps the combined line count of both inputs. Zero selects
	// DefaultMaxLines; a negative value disables the cap.
	MaxLines int

	// ContextLines is the radius of unchanged lines kept by Window.
	ContextLines int
}

// DefaultOptions returns the default diff options.
func DefaultOptions() Options {
	return Options{
		MaxLines:     DefaultMaxLines,
		ContextLines: DefaultContextLines,
	}
}

// Engine diffs line sequences under a size ceiling.
type Engine struct {
	maxLines     int
	contextLines int
}

// NewEngine creates an Engine from opts.
func NewEngine(opts Options) *Engine {
	maxLines := opts.MaxLines
	if maxLines == 0 {
		maxLines = DefaultMaxLines
	}
	contextLines := opts.ContextLines
	if contextLines < 0 {
		contextLines = 0
	}
	return &Engine{maxLines: maxLines, contextLines: contextLines}
}

// MaxLines returns the combined line ceiling; negative means unlimited.
func (e *Engine) MaxLines() int { return e.maxLines }

// ContextLines returns the context radius used by Window.
func (e *Engine) ContextLines() int { return e.contextLines }

// Diff compares base and next line by line with exact string equality.
func (e *Engine) Diff(base, next []string) Result {
	if e.maxLines >= 0 && len(base)+len(next) > e.maxLines {
		return Result{Status: StatusTooLarge}
	}
	edits := Myers(base, next)
	res := Result{Status: StatusOK, Edits: edits}
	for _, ed := range edits {
		switch ed.Op {
		case OpInsert:
			res.Added++
		case OpDelete:
			res.Deleted++
		}
	}
	return res
}

// DiffText splits both texts on "\n" and diffs the lines.
func (e *Engine) DiffText(baseText, nextText string) Result {
	return e.Diff(SplitLines(baseText), SplitLines(nextText))
}

// Window applies the engine's context radius to edits.
func (e *Engine) Window(edits []Edit) []Line {
	return Window(edits, e.contextLines)
}

// SplitLines splits text on "\n". The empty text is one empty line.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// Base reconstructs the base input from an edit script.
func Base(edits []Edit) []string {
	out := make([]string, 0, len(edits))
	for _, ed := range edits {
		if ed.Op != OpInsert {
			out = append(out, ed.Line)
		}
	}
	return out
}

// Next reconstructs the next input from an edit script.
func Next(edits []Edit) []string {
	out := make([]string, 0, len(edits))
	for _, ed := range edits {
		if ed.Op != OpDelete {
			out = append(out, ed.Line)
		}
	}
	return out
}
