package session

import (
	"sort"

	"github.com/mcncl/jsonlayer/internal/models"
)

// Mode is the interaction state of a layer or of the root panel.
type Mode int

const (
	ModeViewing Mode = iota
	ModeEditing
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeViewing:
		return "viewing"
	case ModeEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// Relation says how a layer's value is stored in its parent.
type Relation int

const (
	// RelationReparse: the parent slot holds the layer's value encoded as a
	// JSON string. Commit re-encodes to compact text before writing.
	RelationReparse Relation = iota

	// RelationValue: the parent slot holds the value itself. Commit writes
	// it as-is.
	RelationValue
)

// String returns a human-readable name for the relation.
func (r Relation) String() string {
	switch r {
	case RelationReparse:
		return "reparse"
	case RelationValue:
		return "value"
	default:
		return "unknown"
	}
}

// LayerRef addresses an open layer by its stack index.
type LayerRef int

// RootRef addresses the document root instead of a layer.
const RootRef LayerRef = -1

// Layer is one open view onto a value reached from an ancestor.
// Values returned by Session are snapshots; changing them has no effect on
// the session except through the Value tree they share.
type Layer struct {
	index       int
	value       models.Value
	parent      LayerRef
	parentPath  models.Path
	relation    Relation
	mode        Mode
	pendingText string
	fullPath    string
	collapsed   CollapseSet
}

// Ref addresses the layer in Session operations.
func (l *Layer) Ref() LayerRef { return LayerRef(l.index) }

// Index is the layer's position in the stack, zero at the bottom.
func (l *Layer) Index() int { return l.index }

// Value is the layer's current value.
func (l *Layer) Value() models.Value { return l.value }

// Parent is the layer this one was opened from, or RootRef.
func (l *Layer) Parent() LayerRef { return l.parent }

// ParentPath returns a copy of the path of this layer's slot in its parent.
func (l *Layer) ParentPath() models.Path { return l.parentPath.Append() }

// Relation tells how commit writes the value back into the parent.
func (l *Layer) Relation() Relation { return l.relation }

// Mode is Viewing or Editing.
func (l *Layer) Mode() Mode { return l.mode }

// PendingText is the edit buffer. It is empty unless the layer is editing.
func (l *Layer) PendingText() string { return l.pendingText }

// FullPath is the display path from the root to this layer's value.
func (l *Layer) FullPath() string { return l.fullPath }

// IsCollapsed reports whether p is in the layer's collapsed set.
func (l *Layer) IsCollapsed(p models.Path) bool { return l.collapsed.Contains(p) }

// Collapsed returns the collapsed paths ordered by their identity key.
func (l *Layer) Collapsed() []models.Path { return l.collapsed.Paths() }

func (l *Layer) snapshot() *Layer {
	cp := *l
	cp.collapsed = l.collapsed.clone()
	return &cp
}

// CollapseSet is a set of paths currently shown collapsed.
type CollapseSet struct {
	paths map[string]models.Path
}

// Toggle flips membership of p and reports whether p is now collapsed.
func (c *CollapseSet) Toggle(p models.Path) bool {
	if c.paths == nil {
		c.paths = make(map[string]models.Path)
	}
	key := p.Key()
	if _, ok := c.paths[key]; ok {
		delete(c.paths, key)
		return false
	}
	c.paths[key] = p.Append()
	return true
}

// Contains reports whether p is collapsed.
func (c CollapseSet) Contains(p models.Path) bool {
	_, ok := c.paths[p.Key()]
	return ok
}

// Len returns the number of collapsed paths.
func (c CollapseSet) Len() int {
	return len(c.paths)
}

// Paths returns the members ordered by their identity key.
func (c CollapseSet) Paths() []models.Path {
	keys := make([]string, 0, len(c.paths))
	for k := range c.paths {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]models.Path, len(keys))
	for i, k := range keys {
		out[i] = c.paths[k]
	}
	return out
}

func (c CollapseSet) clone() CollapseSet {
	if c.paths == nil {
		return CollapseSet{}
	}
	cp := CollapseSet{paths: make(map[string]models.Path, len(c.paths))}
	for k, p := range c.paths {
		cp.paths[k] = p
	}
	return cp
}
