// Package banyan is a retained-mode 2D canvas for interactive, hierarchical
// diagrams: nodes nested inside containers, connected by edges, rendered and
// kept in sync with a mutable scene graph at interactive frame rates.
//
// The root package holds the scene-graph core: [Node] trees with cached
// local/world affine matrices, a [Transformer] that propagates dirty state
// and recomputes matrices lazily, a [Pipeline] that culls, sorts, and draws
// onto any [Surface], and a [Viewport] with pan/zoom and smooth tweened
// navigation.
//
// # Quick start
//
//	tr := banyan.NewTransformer()
//	pipe := banyan.NewPipeline(tr)
//
//	root := banyan.NewGroup("root")
//	box := banyan.NewRectangle("box", 120, 60)
//	box.X, box.Y = 40, 40
//	box.Style.Fill = banyan.Color{R: 0.3, G: 0.7, B: 1, A: 1}
//	root.AddChild(box)
//	tr.MarkDirty(root)
//
//	vp := banyan.NewViewport(800, 600)
//	stats := pipe.Render(surface, root, vp, false)
//
// Surfaces are pluggable: banyan/renderer/soft rasterizes through fogleman/gg,
// banyan/renderer/accel draws through Ebitengine. The banyan/renderer package
// selects between them by capability and owns renderer lifecycles; banyan/view
// holds the domain/view split for diagram content and banyan/reflow
// repositions siblings when containers collapse or expand.
package banyan
