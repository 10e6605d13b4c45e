package renderer

import (
	"github.com/phanxgames/banyan"
	"github.com/phanxgames/banyan/view"
)

// Default diagram palette.
var (
	nodeFill      = banyan.Color{R: 0.93, G: 0.95, B: 0.98, A: 1}
	nodeStroke    = banyan.Color{R: 0.45, G: 0.52, B: 0.62, A: 1}
	selectedColor = banyan.Color{R: 0.20, G: 0.45, B: 0.95, A: 1}
	labelColor    = banyan.Color{R: 0.15, G: 0.17, B: 0.20, A: 1}
	edgeColor     = banyan.Color{R: 0.55, G: 0.58, B: 0.64, A: 1}
)

const labelInset = 8.0

// SceneBuilder converts a view store into a renderable scene tree. Build
// runs only when the observed store versions change; the Canvas frame loop
// swaps the whole tree atomically between frames.
type SceneBuilder struct {
	store *view.Store

	builtNodesVer uint64
	builtEdgesVer uint64
	builtViewVer  uint64
	root          *banyan.Node
}

// NewSceneBuilder creates a builder over the given store.
func NewSceneBuilder(store *view.Store) *SceneBuilder {
	return &SceneBuilder{store: store}
}

// Root returns the current scene tree, rebuilding it if the store changed
// since the last build.
func (b *SceneBuilder) Root() *banyan.Node {
	if b.root != nil &&
		b.builtNodesVer == b.store.NodesVersion() &&
		b.builtEdgesVer == b.store.EdgesVersion() &&
		b.builtViewVer == b.store.ViewVersion() {
		return b.root
	}

	if b.root != nil {
		b.root.Dispose()
	}
	b.root = b.build()
	b.builtNodesVer = b.store.NodesVersion()
	b.builtEdgesVer = b.store.EdgesVersion()
	b.builtViewVer = b.store.ViewVersion()
	return b.root
}

// build assembles the scene: an edge layer underneath, then the nested node
// rectangles with their labels. Edge endpoints resolve through inheritance,
// so collapsed containers pick up rerouted connections automatically.
func (b *SceneBuilder) build() *banyan.Node {
	root := banyan.NewGroup("scene")
	root.AddChild(b.buildEdgeLayer())

	nodes := banyan.NewGroup("nodes")
	root.AddChild(nodes)
	for _, vn := range b.store.Roots() {
		if child := b.buildNode(vn); child != nil {
			nodes.AddChild(child)
		}
	}
	return root
}

// buildNode converts one view node and its visible descendants.
func (b *SceneBuilder) buildNode(vn *view.Node) *banyan.Node {
	if !vn.Visible {
		return nil
	}

	rect := banyan.NewRectangle(vn.ID, vn.Width, vn.EffectiveHeight())
	rect.X = vn.X
	rect.Y = vn.Y
	rect.Style.Fill = nodeFill
	rect.Style.Stroke = nodeStroke
	rect.Style.StrokeWidth = 1
	rect.Style.CornerRadius = 4
	if vn.Collapsed {
		rect.Style.Fill = nodeFill.Darken(0.08)
	}
	if vn.Selected {
		rect.Style.Stroke = selectedColor
		rect.Style.StrokeWidth = 2
	}

	if label := b.labelFor(vn); label != "" {
		text := banyan.NewText(vn.ID+"/label", label)
		text.X = labelInset
		text.Width = vn.Width - 2*labelInset
		text.Height = view.CollapsedHeight
		text.Style.Fill = labelColor
		text.Style.Font = banyan.Font{Size: 13}
		text.Style.Align = banyan.TextAlignLeft
		text.Style.Baseline = banyan.BaselineMiddle
		rect.AddChild(text)
	}

	if !vn.Collapsed {
		for _, child := range b.store.Children(vn.ID) {
			if sub := b.buildNode(child); sub != nil {
				rect.AddChild(sub)
			}
		}
	}
	return rect
}

// labelFor prefers the domain node's first label, falling back to the id.
func (b *SceneBuilder) labelFor(vn *view.Node) string {
	if dn := b.store.DomainNode(vn.ID); dn != nil && len(dn.Labels) > 0 {
		return dn.Labels[0]
	}
	return vn.ID
}

// buildEdgeLayer emits a single custom node that draws every resolved edge
// between the absolute centers of its endpoints. Inherited edges draw
// thicker, dashed, and darker.
func (b *SceneBuilder) buildEdgeLayer() *banyan.Node {
	store := b.store
	edges := store.Edges()

	return banyan.NewCustom("edges", func(s banyan.Surface, m [6]float64, _ *banyan.Node) {
		base := banyan.DefaultStyle()
		base.Stroke = edgeColor
		base.StrokeWidth = 1

		inherited := base
		inherited.Stroke = edgeColor.Darken(0.35)
		inherited.StrokeWidth = 2
		inherited.Dashed = true

		for _, e := range edges {
			src := store.Node(e.SourceID)
			dst := store.Node(e.TargetID)
			if src == nil || dst == nil {
				continue
			}
			sx, sy := AbsolutePosition(store, src)
			dx, dy := AbsolutePosition(store, dst)
			sx += src.Width / 2
			sy += src.EffectiveHeight() / 2
			dx += dst.Width / 2
			dy += dst.EffectiveHeight() / 2

			st := base
			if e.Inherited {
				st = inherited
			}
			s.DrawLine(m, sx, sy, dx, dy, &st)
		}
	})
}
