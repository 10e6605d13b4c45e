// Package reflow repositions sibling nodes and resizes containers when a
// node collapses or expands. It operates purely on view records (positions
// and sizes); the scene graph picks the new geometry up through its own
// dirty tracking.
package reflow

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/phanxgames/banyan"
	"github.com/phanxgames/banyan/view"
)

// Behavior selects what collapsing a node does to its surroundings.
type Behavior string

const (
	// BehaviorShrink reflows siblings to reclaim the freed space.
	BehaviorShrink Behavior = "shrink"
	// BehaviorHide leaves the layout untouched.
	BehaviorHide Behavior = "hide"
)

// Layout constants. Positions inside a container start at Padding from its
// content origin; Spacing separates adjacent siblings.
const (
	Padding = 20.0
	Spacing = 10.0

	// Containers wider than this get the column-grid layout.
	gridMinWidth = 800.0

	// Effective layout bounds never exceed this fraction of the viewport.
	viewportFrac = 0.90
	// Container growth is clamped to this fraction of the viewport.
	containerMaxFrac = 0.95

	// Shrink hysteresis: containers only shrink when the relative change
	// exceeds these thresholds, to avoid jitter from small content changes.
	shrinkHysteresis     = 0.20
	rootShrinkHysteresis = 0.10

	MinContainerWidth  = 400.0
	MinContainerHeight = 200.0
)

// ReflowSiblings relayouts the sibling group of the changed node after a
// collapse or expand. No-op unless behavior is BehaviorShrink. The changed
// node's parent grows to contain its children when needed, and an expanded
// node's own children are restacked top to bottom.
func ReflowSiblings(s *view.Store, changedID string, behavior Behavior, container, viewport *banyan.Rect) {
	if behavior != BehaviorShrink {
		return
	}
	changed := s.Node(changedID)
	if changed == nil {
		return
	}

	siblings := visibleNodes(s.Children(changed.ParentID))
	ReflowContainer(siblings, container, viewport)

	if changed.ParentID != "" {
		if parent := s.Node(changed.ParentID); parent != nil {
			EnsureParentContainsChildren(s, parent, viewport)
		}
	}

	if !changed.Collapsed {
		if kids := visibleNodes(s.Children(changed.ID)); len(kids) > 0 {
			stackVertical(kids)
		}
	}
	s.Touch()
}

// ReflowContainer lays out one sibling group inside its container. Wide
// containers use a column grid; otherwise the current positional spread
// picks a horizontal flow or a vertical stack.
func ReflowContainer(nodes []*view.Node, container, viewport *banyan.Rect) {
	if len(nodes) == 0 {
		return
	}

	effW := effectiveWidth(nodes, container, viewport)
	if effW > gridMinWidth {
		layoutGrid(nodes, effW)
		return
	}
	if horizontalSpread(nodes) {
		layoutFlow(nodes, effW)
		return
	}
	layoutStack(nodes)
}

// effectiveWidth is the width layout may use: the container width clamped to
// viewportFrac of the viewport. With no bounds given, the nodes' current
// bounding box decides.
func effectiveWidth(nodes []*view.Node, container, viewport *banyan.Rect) float64 {
	w := math.Inf(1)
	if container != nil {
		w = container.Width
	}
	if viewport != nil {
		w = math.Min(w, viewport.Width*viewportFrac)
	}
	if math.IsInf(w, 1) {
		minX, maxX := math.Inf(1), math.Inf(-1)
		for _, n := range nodes {
			minX = math.Min(minX, n.X)
			maxX = math.Max(maxX, n.X+n.Width)
		}
		w = maxX - minX
	}
	return w
}

// horizontalSpread reports whether the group reads as a row: the X variance
// of the node centers dominates the Y variance.
func horizontalSpread(nodes []*view.Node) bool {
	if len(nodes) < 2 {
		return false
	}
	xs := make([]float64, len(nodes))
	ys := make([]float64, len(nodes))
	for i, n := range nodes {
		xs[i] = n.X + n.Width/2
		ys[i] = n.Y + n.EffectiveHeight()/2
	}
	varX, errX := stats.Variance(xs)
	varY, errY := stats.Variance(ys)
	if errX != nil || errY != nil {
		return false
	}
	return varX > 2*varY
}

// layoutGrid places nodes left to right in a fixed number of columns derived
// from the average node width, wrapping on the column count or on overflow.
// Row height is the tallest node in the row.
func layoutGrid(nodes []*view.Node, width float64) {
	var avgW float64
	for _, n := range nodes {
		avgW += n.Width
	}
	avgW /= float64(len(nodes))

	cols := int(width / (avgW + Spacing))
	if cols < 1 {
		cols = 1
	}
	if cols > len(nodes) {
		cols = len(nodes)
	}

	x, y := Padding, Padding
	col := 0
	rowH := 0.0
	for _, n := range nodes {
		if col >= cols || (col > 0 && x+n.Width > width) {
			x = Padding
			y += rowH + Spacing
			col = 0
			rowH = 0
		}
		n.X = x
		n.Y = y
		x += n.Width + Spacing
		rowH = math.Max(rowH, n.EffectiveHeight())
		col++
	}
}

// layoutFlow is a width-bounded flow: reading order preserved, rows wrap at
// the container width.
func layoutFlow(nodes []*view.Node, width float64) {
	ordered := byReadingOrder(nodes)
	x, y := Padding, Padding
	rowH := 0.0
	for _, n := range ordered {
		if x > Padding && x+n.Width > width {
			x = Padding
			y += rowH + Spacing
			rowH = 0
		}
		n.X = x
		n.Y = y
		x += n.Width + Spacing
		rowH = math.Max(rowH, n.EffectiveHeight())
	}
}

// layoutStack restacks nodes in a single column at the group's minimum X,
// preserving relative Y order. The gap between two neighbors is recovered
// from their stored (expanded) heights and floored at Spacing, so collapsing
// a node frees exactly the height it gave up and nothing else moves.
func layoutStack(nodes []*view.Node) {
	ordered := make([]*view.Node, len(nodes))
	copy(ordered, nodes)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Y < ordered[j].Y })

	minX := math.Inf(1)
	origY := make([]float64, len(ordered))
	for i, n := range ordered {
		minX = math.Min(minX, n.X)
		origY[i] = n.Y
	}

	y := origY[0]
	for i, n := range ordered {
		if i > 0 {
			prev := ordered[i-1]
			gap := origY[i] - (origY[i-1] + prev.Height)
			if gap < Spacing {
				gap = Spacing
			}
			y += gap
		}
		n.X = minX
		n.Y = y
		y += n.EffectiveHeight()
	}
}

// stackVertical stacks an expanded node's children top to bottom with fixed
// padding and spacing, ignoring their previous gaps.
func stackVertical(nodes []*view.Node) {
	ordered := make([]*view.Node, len(nodes))
	copy(ordered, nodes)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Y < ordered[j].Y })

	y := Padding
	for _, n := range ordered {
		n.X = Padding
		n.Y = y
		y += n.EffectiveHeight() + Spacing
	}
}

// byReadingOrder sorts a copy of nodes top-to-bottom, then left-to-right.
func byReadingOrder(nodes []*view.Node) []*view.Node {
	out := make([]*view.Node, len(nodes))
	copy(out, nodes)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// visibleNodes filters a sibling list down to the visible members.
func visibleNodes(nodes []*view.Node) []*view.Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n.Visible {
			out = append(out, n)
		}
	}
	return out
}
