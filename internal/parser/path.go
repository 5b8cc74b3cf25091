package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mcncl/jsonlayer/internal/errors"
	"github.com/mcncl/jsonlayer/internal/models"
)

// ParsePath reads a document path in one of two forms:
//
//	["a", 0, "x y"]    a JSON array of keys and non-negative indices
//	a[0]["x y"]        the display form produced by models.Path.String
//
// Blank text is the root path.
func ParsePath(text string) (models.Path, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.Path{}, nil
	}
	if trimmed[0] == '[' {
		if v, err := ParseString(trimmed); err == nil {
			return pathFromArray(v, text)
		}
	}
	return parseDisplayPath(trimmed, text)
}

// maxIndex bounds array indices accepted in a path.
const maxIndex = math.MaxInt32

func pathFromArray(v models.Value, text string) (models.Path, error) {
	arr, ok := v.(*models.Array)
	if !ok {
		return nil, invalidPath(text, "not an array")
	}
	p := make(models.Path, 0, arr.Len())
	for i, item := range arr.Items {
		switch seg := item.(type) {
		case models.String:
			p = append(p, models.Key(string(seg)))
		case models.Number:
			f := float64(seg)
			if f < 0 || f != math.Trunc(f) || math.IsInf(f, 0) {
				return nil, invalidPath(text, fmt.Sprintf("segment %d is not a non-negative integer", i))
			}
			if f > maxIndex {
				return nil, invalidPath(text, fmt.Sprintf("segment %d is out of range", i))
			}
			p = append(p, models.Index(int(f)))
		default:
			return nil, invalidPath(text, fmt.Sprintf("segment %d must be a string or an index", i))
		}
	}
	return p, nil
}

func parseDisplayPath(s, text string) (models.Path, error) {
	p := models.Path{}
	i := 0
	// The leading key is written bare, whatever characters it holds.
	if s[0] != '[' {
		end := strings.IndexAny(s, ".[")
		if end < 0 {
			end = len(s)
		}
		p = append(p, models.Key(s[:end]))
		i = end
	}
	for i < len(s) {
		switch s[i] {
		case '.':
			i++
			end := i
			for end < len(s) && s[end] != '.' && s[end] != '[' {
				end++
			}
			if end == i {
				return nil, invalidPath(text, fmt.Sprintf("empty key at offset %d", i))
			}
			p = append(p, models.Key(s[i:end]))
			i = end
		case '[':
			i++
			if i < len(s) && s[i] == '"' {
				key, next, err := readQuotedKey(s, i+1)
				if err != nil {
					return nil, invalidPath(text, err.Error())
				}
				if next >= len(s) || s[next] != ']' {
					return nil, invalidPath(text, fmt.Sprintf("expected ']' at offset %d", next))
				}
				p = append(p, models.Key(key))
				i = next + 1
				continue
			}
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, invalidPath(text, "unterminated index")
			}
			n, err := strconv.Atoi(s[i : i+end])
			if err != nil || n < 0 || n > maxIndex {
				return nil, invalidPath(text, fmt.Sprintf("bad index %q", s[i:i+end]))
			}
			p = append(p, models.Index(n))
			i += end + 1
		default:
			return nil, invalidPath(text, fmt.Sprintf("unexpected %q at offset %d", s[i], i))
		}
	}
	return p, nil
}

// readQuotedKey reads up to the closing quote; only \" is an escape.
func readQuotedKey(s string, i int) (string, int, error) {
	var sb strings.Builder
	for i < len(s) {
		switch {
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == '"':
			sb.WriteByte('"')
			i += 2
		case s[i] == '"':
			return sb.String(), i + 1, nil
		default:
			sb.WriteByte(s[i])
			i++
		}
	}
	return "", i, fmt.Errorf("unterminated quoted key")
}

func invalidPath(text, reason string) error {
	return errors.NewInputError(fmt.Sprintf("invalid path %q: %s", text, reason), errors.ErrInvalidPath)
}
