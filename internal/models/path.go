package models

import (
	"regexp"
	"strconv"
	"strings"
)

var identifierRegex = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Segment is one step of a Path: an object key or an array index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a segment addressing an object member.
func Key(k string) Segment {
	return Segment{key: k}
}

// Index returns a segment addressing an array item. It panics if i is negative.
func Index(i int) Segment {
	if i < 0 {
		panic("models: negative path index " + strconv.Itoa(i))
	}
	return Segment{index: i, isIndex: true}
}

// IsIndex reports whether the segment addresses an array item.
func (s Segment) IsIndex() bool { return s.isIndex }

// Key returns the object key. It is empty for index segments.
func (s Segment) Key() string { return s.key }

// Index returns the array index. It is zero for key segments.
func (s Segment) Index() int { return s.index }

// Path addresses a location inside a Value. The empty path is the value itself.
type Path []Segment

// NewPath builds a path from strings (keys) and ints (indices).
// Any other element type panics.
func NewPath(parts ...any) Path {
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		switch v := part.(type) {
		case string:
			p = append(p, Key(v))
		case int:
			p = append(p, Index(v))
		default:
			panic("models: path segments must be string or int")
		}
	}
	return p
}

// Append returns a new path with segs added; p is not modified.
func (p Path) Append(segs ...Segment) Path {
	out := make(Path, 0, len(p)+len(segs))
	out = append(out, p...)
	return append(out, segs...)
}

// Equal reports whether both paths address the same location.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Key returns a stable identity string for the path, suitable as a map key.
func (p Path) Key() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, seg := range p {
		if i > 0 {
			b.WriteByte(',')
		}
		if seg.isIndex {
			b.WriteString(strconv.Itoa(seg.index))
		} else {
			b.WriteString(strconv.Quote(seg.key))
		}
	}
	b.WriteByte(']')
	return b.String()
}

// String renders the display form: identifier keys joined with dots, indices
// in brackets and any other key as a quoted bracket member, e.g. a.b[0]["x y"].
func (p Path) String() string {
	var b strings.Builder
	for _, seg := range p {
		switch {
		case seg.isIndex:
			b.WriteString("[" + strconv.Itoa(seg.index) + "]")
		case identifierRegex.MatchString(seg.key):
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(seg.key)
		default:
			b.WriteString(`["` + strings.ReplaceAll(seg.key, `"`, `\"`) + `"]`)
		}
	}
	return b.String()
}

// JoinFullPath appends the display form of rel to an already rendered parent path.
func JoinFullPath(parentFullPath string, rel Path) string {
	r := rel.String()
	if parentFullPath == "" {
		return r
	}
	if r == "" {
		return parentFullPath
	}
	if strings.HasPrefix(r, "[") {
		return parentFullPath + r
	}
	return parentFullPath + "." + r
}

// Resolve returns the value at p inside root.
func Resolve(root Value, p Path) (Value, bool) {
	cur := root
	for _, seg := range p {
		switch c := cur.(type) {
		case *Array:
			if !seg.isIndex {
				return nil, false
			}
			v, ok := c.Get(seg.index)
			if !ok {
				return nil, false
			}
			cur = v
		case *Object:
			if seg.isIndex {
				return nil, false
			}
			v, ok := c.Get(seg.key)
			if !ok {
				return nil, false
			}
			cur = v
		default:
			return nil, false
		}
	}
	if cur == nil {
		return Null{}, true
	}
	return cur, true
}

// Reachable reports whether SetAt(root, p, v) adds at most one item to any
// array: every index is at most the length of the array it addresses, and
// zero where SetAt would create the array.
func Reachable(root Value, p Path) bool {
	cur := root
	for _, seg := range p {
		switch c := cur.(type) {
		case *Array:
			if !seg.isIndex {
				cur = nil
				continue
			}
			if seg.index > len(c.Items) {
				return false
			}
			cur, _ = c.Get(seg.index)
		case *Object:
			if seg.isIndex {
				if seg.index > 0 {
					return false
				}
				cur = nil
				continue
			}
			cur, _ = c.Get(seg.key)
		default:
			if seg.isIndex && seg.index > 0 {
				return false
			}
			cur = nil
		}
	}
	return true
}

// SetAt writes v at p inside root and returns the resulting root.
//
// The write never fails: missing members are inserted, arrays shorter than
// the index are padded with null, and an intermediate value of the wrong
// kind is replaced by the container the next segment needs. Containers that
// already match are mutated in place. An empty path returns v.
func SetAt(root Value, p Path, v Value) Value {
	if len(p) == 0 {
		return v
	}
	seg := p[0]
	if seg.isIndex {
		arr, ok := root.(*Array)
		if !ok {
			arr = &Array{}
		}
		for len(arr.Items) <= seg.index {
			arr.Items = append(arr.Items, Null{})
		}
		arr.Items[seg.index] = SetAt(arr.Items[seg.index], p[1:], v)
		return arr
	}
	obj, ok := root.(*Object)
	if !ok {
		obj = NewObject()
	}
	child, _ := obj.Get(seg.key)
	obj.Set(seg.key, SetAt(child, p[1:], v))
	return obj
}
