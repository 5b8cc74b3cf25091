package diff

// OmissionMarker is the text shown in place of a run of hidden context lines.
const OmissionMarker = "..."

// Line is one row of a windowed diff: either an edit or an omission marker
// standing for one or more hidden context lines.
type Line struct {
	Edit    Edit
	Omitted bool
}

// Window keeps every insert and delete plus radius lines on either side of
// each, and collapses every run of other lines into a single omission
// marker. The edit script itself is not changed.
func Window(edits []Edit, radius int) []Line {
	if radius < 0 {
		radius = 0
	}
	keep := make([]bool, len(edits))
	for i, ed := range edits {
		if ed.Op == OpContext {
			continue
		}
		start := max(0, i-radius)
		end := min(len(edits)-1, i+radius)
		for j := start; j <= end; j++ {
			keep[j] = true
		}
	}

	var out []Line
	skipped := false
	for i, ed := range edits {
		if !keep[i] {
			if !skipped {
				out = append(out, Line{Omitted: true})
				skipped = true
			}
			continue
		}
		skipped = false
		out = append(out, Line{Edit: ed})
	}
	return out
}

// Prefix returns the gutter text for the line: "+ ", "- " or two spaces.
func (l Line) Prefix() string {
	if l.Omitted {
		return ""
	}
	switch l.Edit.Op {
	case OpInsert:
		return "+ "
	case OpDelete:
		return "- "
	default:
		return "  "
	}
}

// String renders the line with its prefix, or the omission marker.
func (l Line) String() string {
	if l.Omitted {
		return OmissionMarker
	}
	return l.Prefix() + l.Edit.Line
}

// Render turns windowed lines into display text, one entry per row.
func Render(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}
