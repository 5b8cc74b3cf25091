package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mcncl/jsonlayer/internal/analyzer"
	"github.com/mcncl/jsonlayer/internal/diff"
	"github.com/mcncl/jsonlayer/internal/errors"
	"github.com/mcncl/jsonlayer/internal/formatter"
	"github.com/mcncl/jsonlayer/internal/models"
)

var (
	colorGreen = lipgloss.Color("35")  // Green - insertions
	colorRed   = lipgloss.Color("167") // Soft red - deletions
	colorCyan  = lipgloss.Color("36")  // Teal - headings
	colorDim   = lipgloss.Color("240") // Dim gray - omitted context
)

var (
	styleInsert  = lipgloss.NewStyle().Foreground(colorGreen)
	styleDelete  = lipgloss.NewStyle().Foreground(colorRed)
	styleOmitted = lipgloss.NewStyle().Foreground(colorDim)
	styleLabel   = lipgloss.NewStyle().Foreground(colorCyan)
	styleSummary = lipgloss.NewStyle().Bold(true)
)

// printer renders terminal output, with or without colour.
type printer struct {
	color bool
}

func newPrinter(color bool) *printer {
	return &printer{color: color}
}

func (p *printer) render(style lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return style.Render(text)
}

// diffLines renders windowed diff rows, one string per row.
func (p *printer) diffLines(lines []diff.Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		text := l.String()
		switch {
		case l.Omitted:
			out[i] = p.render(styleOmitted, text)
		case l.Edit.Op == diff.OpInsert:
			out[i] = p.render(styleInsert, text)
		case l.Edit.Op == diff.OpDelete:
			out[i] = p.render(styleDelete, text)
		default:
			out[i] = text
		}
	}
	return out
}

func (p *printer) summary(res diff.Result) string {
	return p.render(styleSummary, res.Summary())
}

// writeDiff prints a windowed diff followed by its summary.
func (p *printer) writeDiff(w io.Writer, engine *diff.Engine, res diff.Result, withSummary bool) error {
	var sb strings.Builder
	if res.Status == diff.StatusOK && !res.Identical() {
		for _, line := range p.diffLines(engine.Window(res.Edits)) {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	if withSummary {
		sb.WriteString(p.summary(res))
		sb.WriteByte('\n')
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return errors.NewOutputError("failed to write diff", err)
	}
	return nil
}

// writeReport prints an analyzer report as aligned label/value rows.
func (p *printer) writeReport(w io.Writer, r analyzer.Report) error {
	var sb strings.Builder
	row := func(label, value string) {
		sb.WriteString(p.render(styleLabel, fmt.Sprintf("%-10s", label)))
		sb.WriteString(" ")
		sb.WriteString(value)
		sb.WriteByte('\n')
	}

	row("values", fmt.Sprint(r.Total()))
	row("max depth", fmt.Sprint(r.MaxDepth))
	for k := models.KindNull; k <= models.KindObject; k++ {
		if n := r.Kinds[k]; n > 0 {
			row(k.String(), fmt.Sprint(n))
		}
	}
	for _, f := range r.Strings {
		label := f.Class.String()
		if f.Class == analyzer.ClassCustom {
			label = f.Pattern
		}
		row(label, displayPath(f.Path))
	}
	for _, path := range r.BigInts {
		row("bigint", displayPath(path))
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return errors.NewOutputError("failed to write report", err)
	}
	return nil
}

// reportValue converts an analyzer report into a JSON document.
func reportValue(r analyzer.Report) models.Value {
	kinds := models.NewObject()
	for k := models.KindNull; k <= models.KindObject; k++ {
		if n := r.Kinds[k]; n > 0 {
			kinds.Set(k.String(), models.Number(n))
		}
	}

	strs := models.NewArray()
	for _, f := range r.Strings {
		entry := models.NewObject()
		entry.Set("path", pathValue(f.Path))
		entry.Set("class", models.String(f.Class.String()))
		if f.Pattern != "" {
			entry.Set("pattern", models.String(f.Pattern))
		}
		strs.Append(entry)
	}

	bigs := models.NewArray()
	for _, path := range r.BigInts {
		bigs.Append(pathValue(path))
	}

	out := models.NewObject()
	out.Set("values", models.Number(r.Total()))
	out.Set("max_depth", models.Number(r.MaxDepth))
	out.Set("kinds", kinds)
	out.Set("strings", strs)
	out.Set("big_integers", bigs)
	return out
}

// pathValue renders a path as a JSON array of keys and indices, the form
// ParsePath accepts.
func pathValue(p models.Path) models.Value {
	arr := models.NewArray()
	for _, seg := range p {
		if seg.IsIndex() {
			arr.Append(models.Number(seg.Index()))
		} else {
			arr.Append(models.String(seg.Key()))
		}
	}
	return arr
}

func displayPath(p models.Path) string {
	if len(p) == 0 {
		return "(root)"
	}
	return p.String()
}

// serialize renders v as JSON, compact or pretty.
func serialize(v models.Value, compact bool) (string, error) {
	if compact {
		return formatter.Compact(v)
	}
	return formatter.Pretty(v)
}

// writeOutput writes text to the file at path, or to w when path is empty.
// A trailing newline is added for terminal output.
func writeOutput(w io.Writer, path, text string) error {
	if path != "" {
		if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
		}
		return nil
	}

	if _, err := fmt.Fprintln(w, text); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}
