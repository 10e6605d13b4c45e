package banyan

import (
	"os"

	"github.com/charmbracelet/log"
)

// DrawFunc is the custom-draw hook for NodeTypeCustom nodes. It receives the
// surface, the node's compound draw matrix (viewport ∘ world), and the node
// itself. Panics inside the hook are recovered per frame by the pipeline.
type DrawFunc func(s Surface, m [6]float64, n *Node)

// nodeIDCounter is a plain counter; node creation is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the fundamental scene graph element. A single flat struct is used
// for all node types to avoid interface dispatch on the hot path.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy. A node exclusively owns its children; Parent is a lookup
	// back-reference only and never implies ownership.
	Parent   *Node
	children []*Node

	// Transform (local, relative to parent)
	X, Y     float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64

	// Bounds (local, untransformed)
	Width, Height float64

	// Appearance
	Style   Style
	Visible bool

	// Text content (NodeTypeText)
	Text string

	// Custom-draw hook (NodeTypeCustom)
	Draw DrawFunc

	// Cached matrices (valid when dirty is false)
	localMatrix [6]float64
	worldMatrix [6]float64
	dirty       bool

	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Visible = true
	n.Style = DefaultStyle()
	n.dirty = true
	n.localMatrix = identityMatrix
	n.worldMatrix = identityMatrix
}

// NewGroup creates a structural node with no visual representation.
func NewGroup(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeGroup}
	nodeDefaults(n)
	return n
}

// NewRectangle creates a rectangle node with the given bounds.
func NewRectangle(name string, width, height float64) *Node {
	n := &Node{Name: name, Type: NodeTypeRectangle, Width: width, Height: height}
	nodeDefaults(n)
	return n
}

// NewText creates a text node. Bounds default to zero; set Width/Height for
// alignment anchoring to work against a box rather than a point.
func NewText(name, text string) *Node {
	n := &Node{Name: name, Type: NodeTypeText, Text: text}
	nodeDefaults(n)
	return n
}

// NewCustom creates a node that draws itself through the given hook.
func NewCustom(name string, draw DrawFunc) *Node {
	n := &Node{Name: name, Type: NodeTypeCustom, Draw: draw}
	nodeDefaults(n)
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("banyan: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("banyan: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("banyan: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by
// the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Find returns the first node in this subtree (including n itself) with the
// given name, or nil.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, child := range n.children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Draw = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets the dirty flag on node and all its descendants.
// Structural changes invalidate cached world matrices without going through a
// Transformer; the next Update recomputes them.
func markSubtreeDirty(node *Node) {
	node.dirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}

// logger is the package logger. Draw errors and other recovered conditions
// are reported here rather than escaping the frame loop.
var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "banyan"})

// SetLogger replaces the package logger.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}
