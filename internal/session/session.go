// Package session holds a JSON document together with the stack of layers
// opened on top of it.
//
// A layer is either a reparse of a JSON string found in its parent, or a
// direct edit of one of the parent's values. Committing a layer writes its
// value back into the parent and on up to the document root, re-encoding
// the value as compact JSON text wherever the parent slot held a string.
package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mcncl/jsonlayer/internal/diff"
	"github.com/mcncl/jsonlayer/internal/errors"
	"github.com/mcncl/jsonlayer/internal/formatter"
	"github.com/mcncl/jsonlayer/internal/models"
	"github.com/mcncl/jsonlayer/internal/parser"
)

// Session owns a document root and the layers opened on it.
// All methods are safe for concurrent use; operations never interleave.
type Session struct {
	mu sync.Mutex

	id     string
	engine *diff.Engine

	root          models.Value
	rootMode      Mode
	rootPending   string
	rootCollapsed CollapseSet

	layers []*Layer
}

// Option configures a Session.
type Option func(*Session)

// WithDiffEngine sets the engine used by PreviewDiff.
func WithDiffEngine(e *diff.Engine) Option {
	return func(s *Session) {
		if e != nil {
			s.engine = e
		}
	}
}

// New creates a session that takes ownership of root.
func New(root models.Value, opts ...Option) *Session {
	if root == nil {
		root = models.Null{}
	}
	s := &Session{
		id:     uuid.NewString(),
		engine: diff.NewEngine(diff.DefaultOptions()),
		root:   root,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromText parses text and creates a session on the result.
func NewFromText(text string, opts ...Option) (*Session, error) {
	root, err := parser.ParseString(text)
	if err != nil {
		return nil, err
	}
	return New(root, opts...), nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Root returns the current document root.
func (s *Session) Root() models.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// Depth returns the number of open layers.
func (s *Session) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.layers)
}

// Layers returns snapshots of the open layers, bottom first.
func (s *Session) Layers() []*Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Layer, len(s.layers))
	for i, l := range s.layers {
		out[i] = l.snapshot()
	}
	return out
}

// Layer returns a snapshot of the layer at ref.
func (s *Session) Layer(ref LayerRef) (*Layer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.layer(ref)
	if err != nil {
		return nil, err
	}
	return l.snapshot(), nil
}

// Mode returns the mode of the layer at ref, or of the root panel for RootRef.
func (s *Session) Mode(ref LayerRef) (Mode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ref == RootRef {
		return s.rootMode, nil
	}
	l, err := s.layer(ref)
	if err != nil {
		return ModeViewing, err
	}
	return l.mode, nil
}

// PendingText returns the edit buffer of the layer at ref, or of the root
// panel for RootRef.
func (s *Session) PendingText(ref LayerRef) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ref == RootRef {
		return s.rootPending, nil
	}
	l, err := s.layer(ref)
	if err != nil {
		return "", err
	}
	return l.pendingText, nil
}

// Open resolves path in the value of parent and, if it holds a JSON string
// encoding an object or array, pushes a viewing layer on the decoded value.
// On failure nothing changes.
func (s *Session) Open(parent LayerRef, path models.Path) (*Layer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base, parentFull, err := s.valueOf(parent)
	if err != nil {
		return nil, err
	}
	target, ok := models.Resolve(base, path)
	if !ok {
		return nil, errors.NewNotParseableError(fmt.Sprintf("nothing at %s", displayPath(path)))
	}
	str, ok := target.(models.String)
	if !ok {
		return nil, errors.NewNotParseableError(
			fmt.Sprintf("value at %s is a %s, not a string", displayPath(path), target.Kind()),
		)
	}
	v, ok := parser.ParseEmbedded(string(str))
	if !ok {
		return nil, errors.NewNotParseableError(
			fmt.Sprintf("string at %s does not hold a JSON object or array", displayPath(path)),
		)
	}
	l := s.push(v, parent, path, RelationReparse, parentFull)
	return l.snapshot(), nil
}

// OpenValueEditor pushes an editing layer on a copy of the value at path in
// parent. The edit buffer starts as the pretty form of that value, or
// "null" when nothing is there. A path that would leave a gap in an array
// is a no-op error.
func (s *Session) OpenValueEditor(parent LayerRef, path models.Path) (*Layer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base, parentFull, err := s.valueOf(parent)
	if err != nil {
		return nil, err
	}
	if !models.Reachable(base, path) {
		return nil, errors.NewNoOpError(
			fmt.Sprintf("%s lies beyond the end of an array", displayPath(path)), nil,
		)
	}
	var v models.Value = models.Null{}
	pending := "null"
	if target, ok := models.Resolve(base, path); ok {
		text, err := formatter.Pretty(target)
		if err != nil {
			return nil, err
		}
		v = models.Clone(target)
		pending = text
	}
	l := s.push(v, parent, path, RelationValue, parentFull)
	l.mode = ModeEditing
	l.pendingText = pending
	return l.snapshot(), nil
}

// Edit switches the layer at ref (or the root panel) to editing and returns
// the seeded edit buffer, the pretty form of its current value.
func (s *Session) Edit(ref LayerRef) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ref == RootRef {
		if s.rootMode == ModeEditing {
			return "", errors.NewNoOpError("document is already being edited", nil)
		}
		text, err := formatter.Pretty(s.root)
		if err != nil {
			return "", err
		}
		s.rootMode, s.rootPending = ModeEditing, text
		return text, nil
	}

	l, err := s.layer(ref)
	if err != nil {
		return "", err
	}
	if l.mode == ModeEditing {
		return "", errors.NewNoOpError(fmt.Sprintf("layer %d is already being edited", ref), nil)
	}
	text, err := formatter.Pretty(l.value)
	if err != nil {
		return "", err
	}
	l.mode, l.pendingText = ModeEditing, text
	return text, nil
}

// SetPendingText replaces the edit buffer of an editing layer or root panel.
func (s *Session) SetPendingText(ref LayerRef, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ref == RootRef {
		if s.rootMode != ModeEditing {
			return errors.NewNoOpError("document is not being edited", nil)
		}
		s.rootPending = text
		return nil
	}
	l, err := s.layer(ref)
	if err != nil {
		return err
	}
	if l.mode != ModeEditing {
		return errors.NewNoOpError(fmt.Sprintf("layer %d is not being edited", ref), nil)
	}
	l.pendingText = text
	return nil
}

// Commit parses the edit buffer of the layer at ref and installs the result
// as its value, then writes it into each ancestor in turn up to the root.
// Layers above ref are discarded. If the buffer does not parse, the parse
// error is returned and the layer stays in editing mode.
//
// For RootRef the parsed buffer replaces the root and every layer is closed.
//
// The write into each parent is blind: the parent path is not checked
// again, and whatever structure it needs is created.
func (s *Session) Commit(ref LayerRef) (models.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ref == RootRef {
		return s.commitRoot()
	}

	l, err := s.layer(ref)
	if err != nil {
		return nil, err
	}
	if l.mode != ModeEditing {
		return nil, errors.NewNoOpError(fmt.Sprintf("layer %d has no pending edit", ref), nil)
	}
	v, err := parser.ParseString(l.pendingText)
	if err != nil {
		return nil, err
	}
	l.value = v
	l.mode, l.pendingText = ModeViewing, ""

	if err := s.syncUp(l); err != nil {
		return nil, err
	}
	s.layers = s.layers[:l.index+1]
	return s.root, nil
}

func (s *Session) commitRoot() (models.Value, error) {
	if s.rootMode != ModeEditing {
		return nil, errors.NewNoOpError("document has no pending edit", nil)
	}
	v, err := parser.ParseString(s.rootPending)
	if err != nil {
		return nil, err
	}
	s.root = v
	s.rootMode, s.rootPending = ModeViewing, ""
	s.layers = nil
	return s.root, nil
}

// syncUp writes l's value into its parent, then the parent's value into its
// own parent, until the root is written. Layer values are acyclic, so the
// encoding step cannot fail once the first write has happened.
func (s *Session) syncUp(l *Layer) error {
	cur := l
	for {
		next := cur.value
		if cur.relation == RelationReparse {
			text, err := formatter.Compact(cur.value)
			if err != nil {
				return err
			}
			next = models.String(text)
		}
		if cur.parent == RootRef {
			s.root = models.SetAt(s.root, cur.parentPath, next)
			return nil
		}
		parent := s.layers[cur.parent]
		parent.value = models.SetAt(parent.value, cur.parentPath, next)
		cur = parent
	}
}

// Cancel discards the edit buffer of the layer at ref (or the root panel)
// and returns it to viewing.
func (s *Session) Cancel(ref LayerRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ref == RootRef {
		if s.rootMode != ModeEditing {
			return errors.NewNoOpError("document is not being edited", nil)
		}
		s.rootMode, s.rootPending = ModeViewing, ""
		return nil
	}
	l, err := s.layer(ref)
	if err != nil {
		return err
	}
	if l.mode != ModeEditing {
		return errors.NewNoOpError(fmt.Sprintf("layer %d is not being edited", ref), nil)
	}
	l.mode, l.pendingText = ModeViewing, ""
	return nil
}

// Close discards the layer at ref and every layer above it. Uncommitted
// edits are abandoned.
func (s *Session) Close(ref LayerRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.layer(ref); err != nil {
		return err
	}
	s.layers = s.layers[:ref]
	return nil
}

// CloseTop discards the topmost layer.
func (s *Session) CloseTop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.layers) == 0 {
		return errors.NewNoOpError("no layers are open", errors.ErrLayerNotFound)
	}
	s.layers = s.layers[:len(s.layers)-1]
	return nil
}

// CloseAll discards every layer and returns how many were open.
func (s *Session) CloseAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.layers)
	s.layers = nil
	return n
}

// ToggleCollapse flips whether the container at path is shown collapsed in
// the layer at ref (or the root panel) and returns the new state. Values
// are never modified.
func (s *Session) ToggleCollapse(ref LayerRef, path models.Path) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base, _, err := s.valueOf(ref)
	if err != nil {
		return false, err
	}
	target, ok := models.Resolve(base, path)
	if !ok || !models.IsContainer(target) {
		return false, errors.NewNoOpError(
			fmt.Sprintf("nothing to collapse at %s", displayPath(path)), nil,
		)
	}
	if ref == RootRef {
		return s.rootCollapsed.Toggle(path), nil
	}
	return s.layers[ref].collapsed.Toggle(path), nil
}

// IsCollapsed reports whether path is collapsed in the layer at ref or the
// root panel. Unknown layers report false.
func (s *Session) IsCollapsed(ref LayerRef, path models.Path) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ref == RootRef {
		return s.rootCollapsed.Contains(path)
	}
	l, err := s.layer(ref)
	if err != nil {
		return false
	}
	return l.collapsed.Contains(path)
}

// PreviewDiff compares the pretty form of the current value with the edit
// buffer of an editing layer or root panel.
func (s *Session) PreviewDiff(ref LayerRef) (diff.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current models.Value
	var pending string
	if ref == RootRef {
		if s.rootMode != ModeEditing {
			return diff.Result{}, errors.NewNoOpError("document is not being edited", nil)
		}
		current, pending = s.root, s.rootPending
	} else {
		l, err := s.layer(ref)
		if err != nil {
			return diff.Result{}, err
		}
		if l.mode != ModeEditing {
			return diff.Result{}, errors.NewNoOpError(fmt.Sprintf("layer %d is not being edited", ref), nil)
		}
		current, pending = l.value, l.pendingText
	}
	base, err := formatter.Pretty(current)
	if err != nil {
		return diff.Result{}, err
	}
	return s.engine.DiffText(base, pending), nil
}

// CopyText returns the clipboard text of the value at path in the layer at
// ref or the root.
func (s *Session) CopyText(ref LayerRef, path models.Path, compact bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base, _, err := s.valueOf(ref)
	if err != nil {
		return "", err
	}
	target, ok := models.Resolve(base, path)
	if !ok {
		return "", errors.NewNoOpError(fmt.Sprintf("nothing at %s", displayPath(path)), nil)
	}
	return formatter.ClipboardText(target, compact)
}

// CopyFullPath returns the display path from the root to the value of the
// layer at ref. The root's own path is empty.
func (s *Session) CopyFullPath(ref LayerRef) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, full, err := s.valueOf(ref)
	return full, err
}

func (s *Session) push(v models.Value, parent LayerRef, path models.Path, rel Relation, parentFull string) *Layer {
	l := &Layer{
		index:      len(s.layers),
		value:      v,
		parent:     parent,
		parentPath: path.Append(),
		relation:   rel,
		mode:       ModeViewing,
		fullPath:   models.JoinFullPath(parentFull, path),
	}
	s.layers = append(s.layers, l)
	return l
}

func (s *Session) layer(ref LayerRef) (*Layer, error) {
	if ref < 0 || int(ref) >= len(s.layers) {
		return nil, errors.NewNoOpError(fmt.Sprintf("layer %d does not exist", ref), errors.ErrLayerNotFound)
	}
	return s.layers[ref], nil
}

// valueOf returns the current value and full display path of the layer at
// ref, or of the root for RootRef.
func (s *Session) valueOf(ref LayerRef) (models.Value, string, error) {
	if ref == RootRef {
		return s.root, "", nil
	}
	l, err := s.layer(ref)
	if err != nil {
		return nil, "", err
	}
	return l.value, l.fullPath, nil
}

func displayPath(p models.Path) string {
	if len(p) == 0 {
		return "the root"
	}
	return p.String()
}
