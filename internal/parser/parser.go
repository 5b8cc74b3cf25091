package parser

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"math/big"
	"os"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/mcncl/jsonlayer/internal/errors" // Custom errors package
	"github.com/mcncl/jsonlayer/internal/models"
)

// SyntaxError describes malformed JSON text. Offset is the byte position
// where the problem was detected.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return e.Msg
}

// Unwrap lets errors.Is match errors.ErrInvalidJSON.
func (e *SyntaxError) Unwrap() error {
	return errors.ErrInvalidJSON
}

// MaxDepth is the deepest container nesting the parser accepts.
const MaxDepth = 10000

// decoder is a single-pass recursive-descent reader over a byte slice.
type decoder struct {
	data  []byte
	pos   int
	depth int
}

// ParseBytes parses exactly one JSON value from data. Integers beyond the
// float64 safe range become models.BigInt. Anything but whitespace after the
// value is an error.
func ParseBytes(data []byte) (models.Value, error) {
	d := &decoder{data: data}
	d.skipWhitespace()
	v, err := d.parseValue()
	if err != nil {
		return nil, wrap(err)
	}
	d.skipWhitespace()
	if d.pos != len(d.data) {
		return nil, wrap(d.errorf("unexpected trailing data"))
	}
	return v, nil
}

// ParseString parses JSON from a string
func ParseString(text string) (models.Value, error) {
	return ParseBytes([]byte(text))
}

// Parse reads r to the end and parses its contents as one JSON value
func Parse(reader io.Reader) (models.Value, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewInputError("failed to read input", err)
	}
	return ParseBytes(data)
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to read file '%s'", filePath),
			err,
		)
	}
	if len(data) == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}
	return ParseBytes(data)
}

func wrap(se *SyntaxError) error {
	return errors.NewParsingError(fmt.Sprintf("syntax error at offset %d", se.Offset), se)
}

func (d *decoder) errorf(format string, args ...any) *SyntaxError {
	return &SyntaxError{Offset: d.pos, Msg: fmt.Sprintf(format, args...)}
}

func (d *decoder) skipWhitespace() {
	for d.pos < len(d.data) {
		switch d.data[d.pos] {
		case ' ', '\t', '\n', '\r':
			d.pos++
		default:
			return
		}
	}
}

func (d *decoder) parseValue() (models.Value, *SyntaxError) {
	d.skipWhitespace()
	if d.pos >= len(d.data) {
		return nil, d.errorf("unexpected end of input")
	}
	switch c := d.data[d.pos]; {
	case c == '{':
		return d.parseObject()
	case c == '[':
		return d.parseArray()
	case c == '"':
		s, err := d.parseString()
		if err != nil {
			return nil, err
		}
		return models.String(s), nil
	case c == 't':
		return d.parseLiteral("true", models.Bool(true))
	case c == 'f':
		return d.parseLiteral("false", models.Bool(false))
	case c == 'n':
		return d.parseLiteral("null", models.Null{})
	case c == '-' || isDigit(c):
		return d.parseNumber()
	default:
		return nil, d.errorf("invalid character %q looking for beginning of value", c)
	}
}

func (d *decoder) parseLiteral(word string, v models.Value) (models.Value, *SyntaxError) {
	if !bytes.HasPrefix(d.data[d.pos:], []byte(word)) {
		return nil, d.errorf("invalid literal, expected %q", word)
	}
	d.pos += len(word)
	return v, nil
}

// enter counts one more level of container nesting.
func (d *decoder) enter() *SyntaxError {
	d.depth++
	if d.depth > MaxDepth {
		return d.errorf("exceeded max nesting depth of %d", MaxDepth)
	}
	return nil
}

func (d *decoder) leave() {
	d.depth--
}

func (d *decoder) parseObject() (models.Value, *SyntaxError) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()
	d.pos++ // '{'
	obj := models.NewObject()
	d.skipWhitespace()
	if d.pos < len(d.data) && d.data[d.pos] == '}' {
		d.pos++
		return obj, nil
	}
	for {
		d.skipWhitespace()
		if d.pos >= len(d.data) || d.data[d.pos] != '"' {
			return nil, d.errorf("expected string for object key")
		}
		key, err := d.parseString()
		if err != nil {
			return nil, err
		}
		d.skipWhitespace()
		if d.pos >= len(d.data) || d.data[d.pos] != ':' {
			return nil, d.errorf("expected ':' after object key")
		}
		d.pos++
		v, err := d.parseValue()
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
		d.skipWhitespace()
		if d.pos >= len(d.data) {
			return nil, d.errorf("unterminated object")
		}
		switch d.data[d.pos] {
		case ',':
			d.pos++
		case '}':
			d.pos++
			return obj, nil
		default:
			return nil, d.errorf("expected ',' or '}' after object member")
		}
	}
}

func (d *decoder) parseArray() (models.Value, *SyntaxError) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()
	d.pos++ // '['
	arr := &models.Array{Items: []models.Value{}}
	d.skipWhitespace()
	if d.pos < len(d.data) && d.data[d.pos] == ']' {
		d.pos++
		return arr, nil
	}
	for {
		v, err := d.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, v)
		d.skipWhitespace()
		if d.pos >= len(d.data) {
			return nil, d.errorf("unterminated array")
		}
		switch d.data[d.pos] {
		case ',':
			d.pos++
		case ']':
			d.pos++
			return arr, nil
		default:
			return nil, d.errorf("expected ',' or ']' after array element")
		}
	}
}

// parseString reads a quoted string starting at the opening quote.
// Raw control characters are passed through.
func (d *decoder) parseString() (string, *SyntaxError) {
	start := d.pos
	d.pos++ // '"'
	var sb strings.Builder
	runStart := d.pos
	for d.pos < len(d.data) {
		c := d.data[d.pos]
		if c == '"' {
			sb.Write(d.data[runStart:d.pos])
			d.pos++
			return sb.String(), nil
		}
		if c != '\\' {
			d.pos++
			continue
		}
		sb.Write(d.data[runStart:d.pos])
		d.pos++
		if d.pos >= len(d.data) {
			break
		}
		esc := d.data[d.pos]
		switch esc {
		case '"', '\\', '/':
			sb.WriteByte(esc)
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'u':
			r, err := d.readUnicodeEscape()
			if err != nil {
				return "", err
			}
			sb.WriteRune(r)
			runStart = d.pos
			continue
		default:
			return "", d.errorf("invalid escape character %q in string", esc)
		}
		d.pos++
		runStart = d.pos
	}
	return "", &SyntaxError{Offset: start, Msg: "unterminated string"}
}

// readUnicodeEscape decodes \uXXXX with d.pos on the 'u'. A surrogate pair
// written as two escapes becomes one rune; a lone surrogate becomes U+FFFD.
func (d *decoder) readUnicodeEscape() (rune, *SyntaxError) {
	r1, err := d.readHex4()
	if err != nil {
		return 0, err
	}
	if !utf16.IsSurrogate(r1) {
		return r1, nil
	}
	if bytes.HasPrefix(d.data[d.pos:], []byte(`\u`)) {
		save := d.pos
		d.pos++
		r2, err := d.readHex4()
		if err == nil {
			if r := utf16.DecodeRune(r1, r2); r != utf8.RuneError {
				return r, nil
			}
		}
		d.pos = save
	}
	return utf8.RuneError, nil
}

// readHex4 reads four hex digits following the 'u' at d.pos.
func (d *decoder) readHex4() (rune, *SyntaxError) {
	if d.pos+5 > len(d.data) {
		return 0, d.errorf("invalid unicode escape")
	}
	n, err := strconv.ParseUint(string(d.data[d.pos+1:d.pos+5]), 16, 32)
	if err != nil || !isHex4(d.data[d.pos+1:d.pos+5]) {
		return 0, d.errorf("invalid unicode escape")
	}
	d.pos += 5
	return rune(n), nil
}

func (d *decoder) parseNumber() (models.Value, *SyntaxError) {
	start := d.pos
	if d.data[d.pos] == '-' {
		d.pos++
	}
	if d.pos >= len(d.data) {
		return nil, d.errorf("unexpected end of input in number")
	}
	if d.data[d.pos] == '0' {
		d.pos++
	} else {
		if d.data[d.pos] < '1' || d.data[d.pos] > '9' {
			return nil, d.errorf("invalid character %q in number", d.data[d.pos])
		}
		d.skipDigits()
	}

	isInt := true
	if d.pos < len(d.data) && d.data[d.pos] == '.' {
		isInt = false
		d.pos++
		if d.pos >= len(d.data) || !isDigit(d.data[d.pos]) {
			return nil, d.errorf("expected digit after decimal point")
		}
		d.skipDigits()
	}
	if d.pos < len(d.data) && (d.data[d.pos] == 'e' || d.data[d.pos] == 'E') {
		isInt = false
		d.pos++
		if d.pos < len(d.data) && (d.data[d.pos] == '+' || d.data[d.pos] == '-') {
			d.pos++
		}
		if d.pos >= len(d.data) || !isDigit(d.data[d.pos]) {
			return nil, d.errorf("expected digit in exponent")
		}
		d.skipDigits()
	}

	raw := string(d.data[start:d.pos])
	if !isInt {
		// Out-of-range literals saturate to ±Inf or 0, matching ECMAScript.
		f, _ := strconv.ParseFloat(raw, 64)
		return models.Number(f), nil
	}
	if raw == "-0" {
		return models.Number(math.Copysign(0, -1)), nil
	}
	n, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, &SyntaxError{Offset: start, Msg: "malformed number"}
	}
	return models.NewInteger(n), nil
}

func (d *decoder) skipDigits() {
	for d.pos < len(d.data) && isDigit(d.data[d.pos]) {
		d.pos++
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex4(b []byte) bool {
	for _, c := range b {
		if !isDigit(c) && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
