package banyan

import (
	"math"
	"time"
)

// CullMode selects how the pipeline treats a node whose world-space AABB
// misses the viewport.
type CullMode uint8

const (
	// CullNodeOnly skips drawing the culled node but still visits its
	// children, since descendants can have local offsets that place them back
	// inside the viewport. This is the safe default.
	CullNodeOnly CullMode = iota
	// CullSubtrees skips the culled node's entire subtree. Faster, but can
	// under-render when children escape their parent's bounds.
	CullSubtrees
)

// RenderStats is the per-frame report returned by Pipeline.Render.
type RenderStats struct {
	NodesRendered int
	NodesCulled   int
	RenderTime    time.Duration
	// Batches counts contiguous same-type runs in the sorted draw list, i.e.
	// the number of like-kind draw groups submitted.
	Batches int
}

// Milliseconds returns the frame time in milliseconds.
func (s RenderStats) Milliseconds() float64 {
	return float64(s.RenderTime) / float64(time.Millisecond)
}

// renderItem is one culled-in drawable collected during traversal.
type renderItem struct {
	node        *Node
	world       [6]float64
	worldBounds Rect
	depth       int
	treeOrder   int // assigned during traversal for stable sort
}

const defaultItemCap = 1024

// Pipeline turns a scene tree into draw calls each frame: collect visible
// drawables with their precomputed world matrices, cull against the viewport,
// sort depth-ascending with same-depth type grouping, and submit in order.
type Pipeline struct {
	Transformer *Transformer
	Background  Color
	CullMode    CullMode

	items   []renderItem
	sortBuf []renderItem
}

// NewPipeline creates a Pipeline using the given Transformer.
func NewPipeline(t *Transformer) *Pipeline {
	return &Pipeline{
		Transformer: t,
		Background:  ColorWhite,
		items:       make([]renderItem, 0, defaultItemCap),
		sortBuf:     make([]renderItem, 0, defaultItemCap),
	}
}

// Render draws one frame of the tree rooted at root onto surface, viewed
// through vp (nil = identity view, no culling). When debug is true a frame
// stats overlay is drawn in screen space after the scene.
func (p *Pipeline) Render(surface Surface, root *Node, vp *Viewport, debug bool) RenderStats {
	t0 := time.Now()
	var stats RenderStats

	surface.Clear(p.Background)
	p.Transformer.Update(root)

	view := identityMatrix
	cullBounds := Rect{}
	cullActive := false
	if vp != nil {
		view = vp.ViewMatrix()
		cullBounds = vp.VisibleBounds()
		cullActive = true
	}

	p.items = p.items[:0]
	order := 0
	p.collect(root, 0, cullBounds, cullActive, &order, &stats)

	p.mergeSort()

	for i := range p.items {
		if p.drawItem(surface, &p.items[i], view) {
			stats.NodesRendered++
		}
	}

	stats.Batches = countTypeBatches(p.items)
	stats.RenderTime = time.Since(t0)

	if debug {
		surface.DrawOverlay(overlayLines(stats))
	}
	return stats
}

// collect walks the tree depth-first, emitting a renderItem for every
// drawable node that passes culling. Matrices flagged dirty by structural
// changes are recomputed in place; traversal order guarantees the parent is
// clean before any child composes against it.
func (p *Pipeline) collect(n *Node, depth int, cullBounds Rect, cullActive bool, order *int, stats *RenderStats) {
	if !n.Visible {
		return
	}
	if n.dirty {
		p.Transformer.recompute(n)
	}

	drawable := n.Type != NodeTypeGroup
	culled := false
	var bounds Rect
	if drawable {
		bounds = worldAABB(n.worldMatrix, n.Width, n.Height)
		// Zero-sized nodes (typically Custom hooks) can't be measured, so
		// they are never culled.
		if cullActive && (n.Width > 0 || n.Height > 0) && !bounds.Intersects(cullBounds) {
			culled = true
			stats.NodesCulled++
		}
	}

	if drawable && !culled {
		*order++
		p.items = append(p.items, renderItem{
			node:        n,
			world:       n.worldMatrix,
			worldBounds: bounds,
			depth:       depth,
			treeOrder:   *order,
		})
	}

	if culled && p.CullMode == CullSubtrees {
		return
	}
	for _, child := range n.children {
		p.collect(child, depth+1, cullBounds, cullActive, order, stats)
	}
}

// drawItem submits one item to the surface. A panic inside a draw call is
// recovered and logged; the frame continues with the next item.
func (p *Pipeline) drawItem(surface Surface, it *renderItem, view [6]float64) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			logger.Error("draw failed", "node", it.node.Name, "type", it.node.Type, "panic", r)
		}
	}()

	m := mulAffine(view, it.world)
	n := it.node
	switch n.Type {
	case NodeTypeRectangle:
		surface.DrawRect(m, n.Width, n.Height, &n.Style)
	case NodeTypeText:
		surface.DrawText(m, n.Text, n.Width, n.Height, &n.Style)
	case NodeTypeCustom:
		if n.Draw != nil {
			n.Draw(surface, m, n)
		}
	}
	return true
}

// worldAABB computes the axis-aligned bounding box of a (w × h) rectangle at
// local origin transformed by the given affine matrix. Zero allocations.
func worldAABB(m [6]float64, w, h float64) Rect {
	a, b, c, d, tx, ty := m[0], m[1], m[2], m[3], m[4], m[5]

	// Transform four corners: (0,0), (w,0), (w,h), (0,h)
	x0, y0 := tx, ty
	x1, y1 := a*w+tx, b*w+ty
	x2, y2 := a*w+c*h+tx, b*w+d*h+ty
	x3, y3 := c*h+tx, d*h+ty

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// --- Merge sort ---

// itemLessOrEqual orders items depth-ascending, grouping same-depth items by
// node type so like draw calls land adjacent. Using <= on treeOrder keeps the
// sort stable.
func itemLessOrEqual(a, b renderItem) bool {
	if a.depth != b.depth {
		return a.depth < b.depth
	}
	if a.node.Type != b.node.Type {
		return a.node.Type < b.node.Type
	}
	return a.treeOrder <= b.treeOrder
}

// mergeSort sorts p.items in-place using p.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches its
// high-water mark.
func (p *Pipeline) mergeSort() {
	n := len(p.items)
	if n <= 1 {
		return
	}
	if cap(p.sortBuf) < n {
		p.sortBuf = make([]renderItem, n)
	}
	p.sortBuf = p.sortBuf[:n]

	a := p.items
	b := p.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := lo + width
			if mid > n {
				mid = n
			}
			hi := lo + 2*width
			if hi > n {
				hi = n
			}
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(p.items, p.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []renderItem, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if itemLessOrEqual(src[i], src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}
