package renderer

import (
	"math"

	"github.com/phanxgames/banyan"
	"github.com/phanxgames/banyan/view"
)

// MouseEventKind distinguishes the pointer transitions the canvas reacts to.
type MouseEventKind uint8

const (
	MouseDown MouseEventKind = iota
	MouseUp
	MouseMove
)

// MouseEvent is a pointer event in screen coordinates.
type MouseEvent struct {
	Kind MouseEventKind
	X, Y float64
}

// WheelEvent is a scroll event in screen coordinates. Positive DeltaY scrolls
// down (zooms out).
type WheelEvent struct {
	X, Y   float64
	DeltaY float64
}

// wheelZoomBase converts wheel delta to a zoom factor: factor = base^(-dy).
const wheelZoomBase = 1.0015

// Interaction tracks pan/drag/select/zoom state between events. It mutates
// the view store (drag, select) and the viewport (pan, zoom) and raises
// needsRedraw for the frame loop to pick up.
type Interaction struct {
	store    *view.Store
	viewport *banyan.Viewport

	dragID      string  // view node being dragged, "" when panning
	lastWX      float64 // last pointer position in world space
	lastWY      float64
	pointerDown bool

	needsRedraw bool
}

// NewInteraction wires interaction state to a store and viewport.
func NewInteraction(store *view.Store, vp *banyan.Viewport) *Interaction {
	return &Interaction{store: store, viewport: vp}
}

// NeedsRedraw reports and clears the redraw flag.
func (in *Interaction) NeedsRedraw() bool {
	n := in.needsRedraw
	in.needsRedraw = false
	return n
}

// MouseEvent applies one pointer event: press hit-tests and either begins a
// node drag (selecting the node) or a canvas pan; move applies the active
// drag or pan; release ends it.
func (in *Interaction) MouseEvent(e MouseEvent) {
	wx, wy := in.viewport.ScreenToWorld(e.X, e.Y)

	switch e.Kind {
	case MouseDown:
		in.pointerDown = true
		in.lastWX, in.lastWY = wx, wy
		if hit := in.hitTest(wx, wy); hit != nil {
			in.dragID = hit.ID
			in.selectOnly(hit.ID)
		} else {
			in.dragID = ""
			in.selectOnly("")
		}
		in.needsRedraw = true

	case MouseMove:
		if !in.pointerDown {
			return
		}
		dx, dy := wx-in.lastWX, wy-in.lastWY
		if in.dragID != "" {
			if n := in.store.Node(in.dragID); n != nil {
				n.X += dx
				n.Y += dy
				in.store.Touch()
			}
			in.lastWX, in.lastWY = wx, wy
		} else {
			// Panning moves the world opposite to the pointer. The anchor
			// stays fixed in world space, so recompute against it rather
			// than accumulating.
			in.viewport.SetPan(in.viewport.X-dx, in.viewport.Y-dy)
		}
		in.needsRedraw = true

	case MouseUp:
		in.pointerDown = false
		in.dragID = ""
	}
}

// WheelEvent zooms about the pointer position.
func (in *Interaction) WheelEvent(e WheelEvent) {
	factor := math.Pow(wheelZoomBase, -e.DeltaY)
	in.viewport.ZoomAtPoint(factor, e.X, e.Y)
	in.needsRedraw = true
}

// selectOnly marks the given node selected and clears every other selection.
// An empty id clears all.
func (in *Interaction) selectOnly(id string) {
	changed := false
	for _, n := range in.store.Nodes() {
		want := n.ID == id && id != ""
		if n.Selected != want {
			n.Selected = want
			changed = true
		}
	}
	if changed {
		in.store.Touch()
	}
}

// hitTest returns the topmost visible node containing the world point, or
// nil. Later siblings and deeper descendants draw on top, so the scan runs
// in reverse paint order.
func (in *Interaction) hitTest(wx, wy float64) *view.Node {
	nodes := in.store.Nodes()
	var best *view.Node
	bestDepth := -1
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if !n.Visible {
			continue
		}
		ax, ay := AbsolutePosition(in.store, n)
		r := banyan.Rect{X: ax, Y: ay, Width: n.Width, Height: n.EffectiveHeight()}
		if !r.Contains(wx, wy) {
			continue
		}
		if d := in.depth(n); d > bestDepth {
			best = n
			bestDepth = d
		}
	}
	return best
}

func (in *Interaction) depth(n *view.Node) int {
	d := 0
	for cur := n; cur.ParentID != ""; d++ {
		parent := in.store.Node(cur.ParentID)
		if parent == nil {
			break
		}
		cur = parent
	}
	return d
}

// AbsolutePosition resolves a view node's world position by accumulating
// ancestor offsets; view-node X/Y are relative to the parent container.
func AbsolutePosition(s *view.Store, n *view.Node) (x, y float64) {
	x, y = n.X, n.Y
	for cur := n; cur.ParentID != ""; {
		parent := s.Node(cur.ParentID)
		if parent == nil {
			break
		}
		x += parent.X
		y += parent.Y
		cur = parent
	}
	return x, y
}

// ContentBounds returns the world-space bounding box around every visible
// root node, or a zero rect when nothing is visible.
func ContentBounds(s *view.Store) banyan.Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	found := false
	for _, n := range s.Roots() {
		if !n.Visible {
			continue
		}
		found = true
		minX = math.Min(minX, n.X)
		minY = math.Min(minY, n.Y)
		maxX = math.Max(maxX, n.X+n.Width)
		maxY = math.Max(maxY, n.Y+n.EffectiveHeight())
	}
	if !found {
		return banyan.Rect{}
	}
	return banyan.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
