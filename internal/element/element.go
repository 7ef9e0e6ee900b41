// Package element defines the backend-agnostic element model: the single
// representation that the UIA, JAB, and CV backends all populate, and that
// the query engine traverses and filters.
package element

import (
	"sync"
	"sync/atomic"

	derrors "github.com/echo-go/uiauto/internal/core/errors"
	"github.com/echo-go/uiauto/internal/geometry"
)

// Backend identifies which accessibility backend produced an Element.
type Backend string

const (
	BackendUIA Backend = "uia"
	BackendJAB Backend = "jab"
	BackendCV  Backend = "cv"
)

// Handle is the backend-native reference an Element wraps: a COM IUIAutomationElement
// pointer for UIA, a (vmid, accessibleContext) pair for JAB, or a matched
// Rectangle for CV. Backends define their own concrete Handle types; the
// query engine and driver only ever see it as an opaque value passed back
// into backend calls.
type Handle any

// Role is the element's semantic kind, normalized across backends (UIA
// control types, JAB accessible roles, and CV's single synthetic role all
// map into this vocabulary).
type Role string

const (
	RoleUnknown   Role = "unknown"
	RoleWindow    Role = "window"
	RolePane      Role = "pane"
	RoleButton    Role = "button"
	RoleLink      Role = "link"
	RoleText      Role = "text"
	RoleEdit      Role = "edit"
	RoleCheckBox  Role = "checkbox"
	RoleRadio     Role = "radio"
	RoleComboBox  Role = "combobox"
	RoleList      Role = "list"
	RoleListItem  Role = "listitem"
	RoleMenu      Role = "menu"
	RoleMenuItem  Role = "menuitem"
	RoleTab       Role = "tab"
	RoleTable     Role = "table"
	RoleTree      Role = "tree"
	RoleTreeItem  Role = "treeitem"
	RoleToolBar   Role = "toolbar"
	RoleImage     Role = "image"
	RoleGroup     Role = "group"
	RoleScrollBar Role = "scrollbar"
	RoleSlider    Role = "slider"
	RoleCV        Role = "cv_match"
)

// Attributes is the capability-set of flags a backend can report about an
// element's current state. Backends that cannot determine a flag leave it
// at its zero value (false) rather than guessing.
type Attributes struct {
	Visible          bool
	Enabled          bool
	Focused          bool
	Focusable        bool
	Selected         bool
	Selectable       bool
	Checked          bool
	Editable         bool
	Resizable        bool
	Collapsed        bool
	Multiselectable  bool
	Showing          bool
}

// Identity carries the taxonomy fields the query engine's predicate algebra
// resolves dotted property paths against.
type Identity struct {
	Name          string
	Description   string
	AutomationID  string
	ClassName     string
	Text          string
}

// ReleaseFunc is called when an Element is no longer needed, so the owning
// backend can free native resources (COM references, JAB (vmid,ctx) pairs).
// It must be idempotent: calling it more than once is a no-op, never an error.
type ReleaseFunc func()

// Element is the single representation every backend populates and the
// query engine traverses. Constructing one directly is only valid for
// backends; callers elsewhere receive Elements from Driver/query calls.
type Element struct {
	id      string
	backend Backend
	handle  Handle

	bounds     geometry.Rectangle
	role       Role
	identity   Identity
	attributes Attributes

	indexInParent int
	childrenCount int
	depth         int

	parent   *Element
	previous *Element
	next     *Element
	children []*Element

	release ReleaseFunc
	released atomic.Bool
	mu       sync.Mutex
}

// Option configures an Element at construction time.
type Option func(*Element)

// WithParent sets the element's parent and derives its depth from it.
func WithParent(parent *Element) Option {
	return func(e *Element) {
		e.parent = parent
		if parent != nil {
			e.depth = parent.depth + 1
		}
	}
}

// WithIndexInParent records the element's ordinal position among its siblings.
func WithIndexInParent(index int) Option {
	return func(e *Element) { e.indexInParent = index }
}

// WithIdentity sets the element's name/description/automation-id/class/text taxonomy.
func WithIdentity(identity Identity) Option {
	return func(e *Element) { e.identity = identity }
}

// WithAttributes sets the element's state flag capability set.
func WithAttributes(attrs Attributes) Option {
	return func(e *Element) { e.attributes = attrs }
}

// WithRelease attaches the backend-specific cleanup function Release() will
// invoke exactly once.
func WithRelease(fn ReleaseFunc) Option {
	return func(e *Element) { e.release = fn }
}

// New constructs an Element. id must be non-empty and bounds must have
// positive area; both are required for the query engine and click targeting
// to function.
func New(id string, backend Backend, handle Handle, bounds geometry.Rectangle, role Role, opts ...Option) (*Element, error) {
	if id == "" {
		return nil, derrors.New(derrors.CodeInvalidArgument, "element id must not be empty")
	}

	if bounds.Empty() {
		return nil, derrors.New(derrors.CodeInvalidArgument, "element bounds must have positive area")
	}

	e := &Element{
		id:      id,
		backend: backend,
		handle:  handle,
		bounds:  bounds,
		role:    role,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// ID returns the element's backend-scoped identifier.
func (e *Element) ID() string { return e.id }

// Backend returns which accessibility backend produced this element.
func (e *Element) Backend() Backend { return e.backend }

// Handle returns the backend-native reference, for use by the backend that
// produced this element only.
func (e *Element) Handle() Handle { return e.handle }

// Bounds returns a copy of the element's screen rectangle; mutating the
// returned value never affects the element.
func (e *Element) Bounds() geometry.Rectangle { return e.bounds }

// Role returns the element's normalized semantic role.
func (e *Element) Role() Role { return e.role }

// Name returns the element's accessible name.
func (e *Element) Name() string { return e.identity.Name }

// Description returns the element's accessible description.
func (e *Element) Description() string { return e.identity.Description }

// AutomationID returns the element's backend automation/accessibility identifier.
func (e *Element) AutomationID() string { return e.identity.AutomationID }

// ClassName returns the element's native class name.
func (e *Element) ClassName() string { return e.identity.ClassName }

// Text returns the element's text content, when the backend exposes one.
func (e *Element) Text() string { return e.identity.Text }

// Attributes returns a copy of the element's current state flags.
func (e *Element) Attributes() Attributes { return e.attributes }

// IsVisible reports whether the element's Visible flag is set.
func (e *Element) IsVisible() bool { return e.attributes.Visible }

// IsEnabled reports whether the element's Enabled flag is set.
func (e *Element) IsEnabled() bool { return e.attributes.Enabled }

// Center returns the midpoint of the element's bounds.
func (e *Element) Center() geometry.Point { return e.bounds.Center() }

// Contains reports whether p lies within the element's bounds.
func (e *Element) Contains(p geometry.Point) bool { return e.bounds.Contains(p) }

// Overlaps reports whether the element's bounds overlap other's.
func (e *Element) Overlaps(other *Element) bool { return e.bounds.Overlaps(other.bounds) }

// IndexInParent returns the element's ordinal position among its siblings.
func (e *Element) IndexInParent() int { return e.indexInParent }

// Depth returns the element's distance from its tree root (root is 0).
func (e *Element) Depth() int { return e.depth }

// ChildrenCount returns the number of children attached to this element.
func (e *Element) ChildrenCount() int { return len(e.children) }

// Parent returns the element's parent, or nil at the tree root.
func (e *Element) Parent() *Element { return e.parent }

// Previous returns the element's preceding sibling, or nil if it is first.
func (e *Element) Previous() *Element { return e.previous }

// Next returns the element's following sibling, or nil if it is last.
func (e *Element) Next() *Element { return e.next }

// Children returns the element's direct children. The returned slice is a
// copy; mutating it never affects the element's tree structure.
func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.children))
	copy(out, e.children)

	return out
}

// AttachChildren wires child elements into this element's tree structure,
// assigning each child's parent, index, depth, and sibling pointers.
// Intended for use by backends while building a snapshot, not by callers of
// the query engine.
func (e *Element) AttachChildren(children []*Element) {
	e.children = children
	e.childrenCount = len(children)

	for i, child := range children {
		child.parent = e
		child.indexInParent = i
		child.setDepth(e.depth + 1)

		if i > 0 {
			child.previous = children[i-1]
		}

		if i < len(children)-1 {
			child.next = children[i+1]
		}
	}
}

// setDepth assigns depth and propagates it through every already-attached
// descendant, so building a subtree bottom-up (attaching grandchildren
// before their grandparent) still ends with correct depths throughout.
func (e *Element) setDepth(depth int) {
	e.depth = depth

	for _, child := range e.children {
		child.setDepth(depth + 1)
	}
}

// Released reports whether Release has already been called on this element.
func (e *Element) Released() bool { return e.released.Load() }

// Release invokes the backend's cleanup for this element exactly once.
// Calling it again, or calling any other method after it, is always safe;
// Release itself never errors.
func (e *Element) Release() {
	if !e.released.CompareAndSwap(false, true) {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.release != nil {
		e.release()
	}
}

// CheckReleased returns CodeElementReleased if the element has already been
// released, so backend call sites can refuse to operate on stale handles.
func (e *Element) CheckReleased() error {
	if e.Released() {
		return derrors.New(derrors.CodeElementReleased, "operation attempted on a released element")
	}

	return nil
}
