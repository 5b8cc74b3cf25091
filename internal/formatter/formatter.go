// Package formatter serializes models.Value trees back to JSON text.
package formatter

import (
	"fmt"
	"strings"

	"github.com/mcncl/jsonlayer/internal/errors"
	"github.com/mcncl/jsonlayer/internal/models"
)

const indentUnit = "  "

// Options controls serialization.
type Options struct {
	// Pretty puts every member of a non-empty container on its own line,
	// indented two spaces per level. Otherwise no insignificant whitespace
	// is written.
	Pretty bool
}

// Formatter is responsible for turning JSON values into text
type Formatter struct {
	opts Options
}

// NewFormatter creates a new Formatter instance
func NewFormatter(opts Options) *Formatter {
	return &Formatter{opts: opts}
}

// Pretty serializes v with two-space indentation.
func Pretty(v models.Value) (string, error) {
	return NewFormatter(Options{Pretty: true}).Format(v)
}

// Compact serializes v without insignificant whitespace.
func Compact(v models.Value) (string, error) {
	return NewFormatter(Options{}).Format(v)
}

// Format serializes v. Object members keep the order in which they were
// set. A container that contains itself yields a cycle error.
func (f *Formatter) Format(v models.Value) (string, error) {
	e := &encoder{
		pretty:  f.opts.Pretty,
		visited: make(map[models.Value]struct{}),
	}
	if err := e.encode(v, 0); err != nil {
		return "", err
	}
	return e.sb.String(), nil
}

// encoder carries the output buffer and the set of containers on the
// current recursion path.
type encoder struct {
	sb      strings.Builder
	pretty  bool
	visited map[models.Value]struct{}
}

func (e *encoder) encode(v models.Value, depth int) error {
	switch x := v.(type) {
	case nil, models.Null:
		e.sb.WriteString("null")
	case models.Bool:
		if x {
			e.sb.WriteString("true")
		} else {
			e.sb.WriteString("false")
		}
	case models.String:
		writeQuoted(&e.sb, string(x))
	case models.Number:
		e.sb.WriteString(FormatNumber(float64(x)))
	case models.BigInt:
		e.sb.WriteString(x.String())
	case *models.Array:
		return e.encodeArray(x, depth)
	case *models.Object:
		return e.encodeObject(x, depth)
	default:
		return errors.NewOutputError(fmt.Sprintf("unsupported value type %T", v), nil)
	}
	return nil
}

func (e *encoder) enter(v models.Value, what string) error {
	if _, seen := e.visited[v]; seen {
		return errors.NewCycleError(fmt.Sprintf("%s contains itself", what))
	}
	e.visited[v] = struct{}{}
	return nil
}

func (e *encoder) encodeArray(a *models.Array, depth int) error {
	if len(a.Items) == 0 {
		e.sb.WriteString("[]")
		return nil
	}
	if err := e.enter(a, "array"); err != nil {
		return err
	}
	defer delete(e.visited, a)

	e.sb.WriteByte('[')
	for i, item := range a.Items {
		if i > 0 {
			e.sb.WriteByte(',')
		}
		e.newline(depth + 1)
		if err := e.encode(item, depth+1); err != nil {
			return err
		}
	}
	e.newline(depth)
	e.sb.WriteByte(']')
	return nil
}

func (e *encoder) encodeObject(o *models.Object, depth int) error {
	if o.Len() == 0 {
		e.sb.WriteString("{}")
		return nil
	}
	if err := e.enter(o, "object"); err != nil {
		return err
	}
	defer delete(e.visited, o)

	e.sb.WriteByte('{')
	var err error
	i := 0
	o.Range(func(key string, v models.Value) bool {
		if i > 0 {
			e.sb.WriteByte(',')
		}
		i++
		e.newline(depth + 1)
		writeQuoted(&e.sb, key)
		e.sb.WriteByte(':')
		if e.pretty {
			e.sb.WriteByte(' ')
		}
		err = e.encode(v, depth+1)
		return err == nil
	})
	if err != nil {
		return err
	}
	e.newline(depth)
	e.sb.WriteByte('}')
	return nil
}

func (e *encoder) newline(depth int) {
	if !e.pretty {
		return
	}
	e.sb.WriteByte('\n')
	for i := 0; i < depth; i++ {
		e.sb.WriteString(indentUnit)
	}
}

const hexDigits = "0123456789abcdef"

// writeQuoted writes s as a JSON string literal. Only the quote, the
// backslash and control characters are escaped.
func writeQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		sb.WriteString(s[start:i])
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteString(`\u00`)
			sb.WriteByte(hexDigits[c>>4])
			sb.WriteByte(hexDigits[c&0xf])
		}
		start = i + 1
	}
	sb.WriteString(s[start:])
	sb.WriteByte('"')
}
