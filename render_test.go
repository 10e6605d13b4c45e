package banyan

import (
	"testing"
	"time"
)

// recordSurface records draw calls for inspection.
type recordSurface struct {
	w, h    float64
	cleared int
	calls   []recordedCall
	overlay []string
}

type recordedCall struct {
	kind string // "rect", "text", "line", "custom"
	m    [6]float64
	text string
}

func newRecordSurface(w, h float64) *recordSurface {
	return &recordSurface{w: w, h: h}
}

func (s *recordSurface) Size() (float64, float64) { return s.w, s.h }
func (s *recordSurface) Clear(bg Color)           { s.cleared++; s.calls = s.calls[:0] }

func (s *recordSurface) DrawRect(m [6]float64, w, h float64, st *Style) {
	s.calls = append(s.calls, recordedCall{kind: "rect", m: m})
}

func (s *recordSurface) DrawText(m [6]float64, text string, w, h float64, st *Style) {
	s.calls = append(s.calls, recordedCall{kind: "text", m: m, text: text})
}

func (s *recordSurface) DrawLine(m [6]float64, x1, y1, x2, y2 float64, st *Style) {
	s.calls = append(s.calls, recordedCall{kind: "line", m: m})
}

func (s *recordSurface) DrawOverlay(lines []string) { s.overlay = lines }

// --- Basic rendering ---

func TestRenderEmptyScene(t *testing.T) {
	tr := NewTransformer()
	p := NewPipeline(tr)
	surf := newRecordSurface(800, 600)
	root := NewGroup("root")
	tr.MarkDirty(root)

	stats := p.Render(surf, root, nil, false)
	if surf.cleared != 1 {
		t.Errorf("cleared %d times, want 1", surf.cleared)
	}
	if stats.NodesRendered != 0 || stats.Batches != 0 {
		t.Errorf("stats = %+v, want zero rendered/batches", stats)
	}
}

func TestRenderCountsDrawables(t *testing.T) {
	tr := NewTransformer()
	p := NewPipeline(tr)
	surf := newRecordSurface(800, 600)

	root := NewGroup("root")
	root.AddChild(NewRectangle("a", 10, 10))
	root.AddChild(NewRectangle("b", 10, 10))
	label := NewText("label", "hi")
	root.AddChild(label)
	tr.MarkDirty(root)

	stats := p.Render(surf, root, nil, false)
	if stats.NodesRendered != 3 {
		t.Errorf("rendered = %d, want 3", stats.NodesRendered)
	}
	if len(surf.calls) != 3 {
		t.Errorf("draw calls = %d, want 3", len(surf.calls))
	}
}

func TestRenderSkipsInvisibleSubtree(t *testing.T) {
	tr := NewTransformer()
	p := NewPipeline(tr)
	surf := newRecordSurface(800, 600)

	root := NewGroup("root")
	hidden := NewRectangle("hidden", 10, 10)
	hidden.Visible = false
	hiddenChild := NewRectangle("hiddenChild", 10, 10)
	hidden.AddChild(hiddenChild)
	root.AddChild(hidden)
	root.AddChild(NewRectangle("shown", 10, 10))
	tr.MarkDirty(root)

	stats := p.Render(surf, root, nil, false)
	if stats.NodesRendered != 1 {
		t.Errorf("rendered = %d, want 1 (invisible prunes the subtree)", stats.NodesRendered)
	}
}

func TestRenderGroupsNotDrawn(t *testing.T) {
	tr := NewTransformer()
	p := NewPipeline(tr)
	surf := newRecordSurface(800, 600)

	root := NewGroup("root")
	inner := NewGroup("inner")
	inner.AddChild(NewRectangle("leaf", 10, 10))
	root.AddChild(inner)
	tr.MarkDirty(root)

	stats := p.Render(surf, root, nil, false)
	if stats.NodesRendered != 1 {
		t.Errorf("rendered = %d, want 1 (groups emit nothing)", stats.NodesRendered)
	}
}

// --- Draw ordering ---

func TestRenderDepthOrdering(t *testing.T) {
	tr := NewTransformer()
	p := NewPipeline(tr)
	surf := newRecordSurface(800, 600)

	// Text at depth 1, rect at depth 2: the shallower item draws first even
	// though type ordering would put the rect ahead.
	root := NewGroup("root")
	label := NewText("label", "under")
	child := NewGroup("mid")
	child.AddChild(NewRectangle("over", 10, 10))
	root.AddChild(label)
	root.AddChild(child)
	tr.MarkDirty(root)

	p.Render(surf, root, nil, false)
	if len(surf.calls) != 2 {
		t.Fatalf("draw calls = %d, want 2", len(surf.calls))
	}
	if surf.calls[0].kind != "text" || surf.calls[1].kind != "rect" {
		t.Errorf("order = [%s, %s], want [text, rect]", surf.calls[0].kind, surf.calls[1].kind)
	}
}

func TestRenderTypeGroupingWithinDepth(t *testing.T) {
	tr := NewTransformer()
	p := NewPipeline(tr)
	surf := newRecordSurface(800, 600)

	// Interleaved rect/text siblings regroup into rects first, then texts.
	root := NewGroup("root")
	root.AddChild(NewRectangle("r1", 10, 10))
	root.AddChild(NewText("t1", "a"))
	root.AddChild(NewRectangle("r2", 10, 10))
	root.AddChild(NewText("t2", "b"))
	tr.MarkDirty(root)

	stats := p.Render(surf, root, nil, false)
	want := []string{"rect", "rect", "text", "text"}
	for i, call := range surf.calls {
		if call.kind != want[i] {
			t.Errorf("call[%d] = %s, want %s", i, call.kind, want[i])
		}
	}
	if stats.Batches != 2 {
		t.Errorf("batches = %d, want 2", stats.Batches)
	}
}

func TestRenderStableOrderWithinType(t *testing.T) {
	tr := NewTransformer()
	p := NewPipeline(tr)
	surf := newRecordSurface(800, 600)

	root := NewGroup("root")
	first := NewText("first", "first")
	second := NewText("second", "second")
	root.AddChild(first)
	root.AddChild(second)
	tr.MarkDirty(root)

	p.Render(surf, root, nil, false)
	if surf.calls[0].text != "first" || surf.calls[1].text != "second" {
		t.Errorf("tree order not preserved within a type group: %s, %s",
			surf.calls[0].text, surf.calls[1].text)
	}
}

// --- Culling ---

func cullScene() (*Transformer, *Node) {
	tr := NewTransformer()
	root := NewGroup("root")

	inside := NewRectangle("inside", 50, 50)
	inside.X, inside.Y = 100, 100

	outside := NewRectangle("outside", 50, 50)
	outside.X, outside.Y = 5000, 5000

	// Child of the off-screen node that reaches back on-screen.
	escapee := NewRectangle("escapee", 50, 50)
	escapee.X, escapee.Y = -4900, -4900
	outside.AddChild(escapee)

	root.AddChild(inside)
	root.AddChild(outside)
	tr.MarkDirty(root)
	return tr, root
}

func TestCullNodeOnlyVisitsChildren(t *testing.T) {
	tr, root := cullScene()
	p := NewPipeline(tr)
	surf := newRecordSurface(800, 600)
	vp := NewViewport(800, 600)
	vp.SetPan(400, 300) // world view = [0,0]..[800,600]

	stats := p.Render(surf, root, vp, false)
	if stats.NodesCulled != 1 {
		t.Errorf("culled = %d, want 1", stats.NodesCulled)
	}
	// "inside" and "escapee" both render: the culled parent is skipped but
	// its children still get visited.
	if stats.NodesRendered != 2 {
		t.Errorf("rendered = %d, want 2", stats.NodesRendered)
	}
}

func TestCullSubtreesPrunes(t *testing.T) {
	tr, root := cullScene()
	p := NewPipeline(tr)
	p.CullMode = CullSubtrees
	surf := newRecordSurface(800, 600)
	vp := NewViewport(800, 600)
	vp.SetPan(400, 300)

	stats := p.Render(surf, root, vp, false)
	if stats.NodesRendered != 1 {
		t.Errorf("rendered = %d, want 1 (subtree pruned)", stats.NodesRendered)
	}
}

func TestCullingDisabledWithoutViewport(t *testing.T) {
	tr, root := cullScene()
	p := NewPipeline(tr)
	surf := newRecordSurface(800, 600)

	stats := p.Render(surf, root, nil, false)
	if stats.NodesCulled != 0 {
		t.Errorf("culled = %d, want 0 when no viewport is given", stats.NodesCulled)
	}
	if stats.NodesRendered != 3 {
		t.Errorf("rendered = %d, want 3", stats.NodesRendered)
	}
}

func TestZeroSizeNodeNeverCulled(t *testing.T) {
	tr := NewTransformer()
	p := NewPipeline(tr)
	surf := newRecordSurface(800, 600)
	vp := NewViewport(800, 600)
	vp.SetPan(400, 300)

	root := NewGroup("root")
	hook := NewCustom("hook", func(s Surface, m [6]float64, n *Node) {
		s.DrawLine(m, 0, 0, 10, 10, &n.Style)
	})
	hook.X, hook.Y = 99999, 99999
	root.AddChild(hook)
	tr.MarkDirty(root)

	stats := p.Render(surf, root, vp, false)
	if stats.NodesCulled != 0 || stats.NodesRendered != 1 {
		t.Errorf("zero-size custom node should bypass culling: %+v", stats)
	}
}

func TestRotatedNodeCulledByAABB(t *testing.T) {
	tr := NewTransformer()
	p := NewPipeline(tr)
	surf := newRecordSurface(800, 600)
	vp := NewViewport(800, 600)
	vp.SetPan(400, 300)

	// A rotated rect whose AABB still clips the viewport edge must render.
	root := NewGroup("root")
	r := NewRectangle("edge", 200, 20)
	r.X, r.Y = 790, 300
	r.Rotation = 0.5
	root.AddChild(r)
	tr.MarkDirty(root)

	stats := p.Render(surf, root, vp, false)
	if stats.NodesRendered != 1 {
		t.Errorf("rendered = %d, want 1", stats.NodesRendered)
	}
}

// --- Viewport transform applied to draws ---

func TestRenderAppliesViewMatrix(t *testing.T) {
	tr := NewTransformer()
	p := NewPipeline(tr)
	surf := newRecordSurface(800, 600)
	vp := NewViewport(800, 600)
	vp.SetPan(400, 300)
	vp.SetZoom(2)

	root := NewGroup("root")
	r := NewRectangle("r", 10, 10)
	r.X, r.Y = 400, 300 // at the view center
	root.AddChild(r)
	tr.MarkDirty(root)

	p.Render(surf, root, vp, false)
	if len(surf.calls) != 1 {
		t.Fatalf("draw calls = %d, want 1", len(surf.calls))
	}
	m := surf.calls[0].m
	assertNear(t, "scale", m[0], 2)
	assertNear(t, "tx (center)", m[4], 400)
	assertNear(t, "ty (center)", m[5], 300)
}

// --- Panic recovery ---

func TestDrawPanicRecovered(t *testing.T) {
	tr := NewTransformer()
	p := NewPipeline(tr)
	surf := newRecordSurface(800, 600)

	root := NewGroup("root")
	root.AddChild(NewCustom("boom", func(s Surface, m [6]float64, n *Node) {
		panic("draw exploded")
	}))
	after := NewRectangle("after", 10, 10)
	root.AddChild(after)
	tr.MarkDirty(root)

	stats := p.Render(surf, root, nil, false)
	// The panicking node does not count as rendered; the frame continues.
	if stats.NodesRendered != 1 {
		t.Errorf("rendered = %d, want 1", stats.NodesRendered)
	}
	if len(surf.calls) != 1 || surf.calls[0].kind != "rect" {
		t.Error("the node after the panic should still have been drawn")
	}
}

// --- Stats / overlay ---

func TestRenderStatsTiming(t *testing.T) {
	tr := NewTransformer()
	p := NewPipeline(tr)
	surf := newRecordSurface(800, 600)
	root := NewGroup("root")
	tr.MarkDirty(root)

	stats := p.Render(surf, root, nil, false)
	if stats.RenderTime < 0 || stats.RenderTime > time.Second {
		t.Errorf("implausible frame time %v", stats.RenderTime)
	}
}

func TestDebugOverlayDrawn(t *testing.T) {
	tr := NewTransformer()
	p := NewPipeline(tr)
	surf := newRecordSurface(800, 600)
	root := NewGroup("root")
	root.AddChild(NewRectangle("r", 10, 10))
	tr.MarkDirty(root)

	p.Render(surf, root, nil, true)
	if len(surf.overlay) != 2 {
		t.Fatalf("overlay lines = %d, want 2", len(surf.overlay))
	}

	surf.overlay = nil
	p.Render(surf, root, nil, false)
	if surf.overlay != nil {
		t.Error("overlay drawn with debug disabled")
	}
}

// --- countTypeBatches ---

func TestCountTypeBatches(t *testing.T) {
	mk := func(types ...NodeType) []renderItem {
		items := make([]renderItem, len(types))
		for i, ty := range types {
			items[i] = renderItem{node: &Node{Type: ty}}
		}
		return items
	}
	if got := countTypeBatches(nil); got != 0 {
		t.Errorf("empty = %d, want 0", got)
	}
	if got := countTypeBatches(mk(NodeTypeRectangle, NodeTypeRectangle)); got != 1 {
		t.Errorf("single run = %d, want 1", got)
	}
	if got := countTypeBatches(mk(NodeTypeRectangle, NodeTypeText, NodeTypeRectangle)); got != 3 {
		t.Errorf("alternating = %d, want 3", got)
	}
}

// --- Benchmarks ---

func BenchmarkRender1000Nodes(b *testing.B) {
	tr := NewTransformer()
	p := NewPipeline(tr)
	surf := newRecordSurface(800, 600)
	vp := NewViewport(800, 600)
	vp.SetPan(400, 300)

	root := NewGroup("root")
	for i := 0; i < 1000; i++ {
		r := NewRectangle("", 20, 20)
		r.X = float64((i % 100) * 30)
		r.Y = float64((i / 100) * 30)
		root.AddChild(r)
	}
	tr.MarkDirty(root)
	p.Render(surf, root, vp, false)

	b.ReportAllocs()
	for b.Loop() {
		p.Render(surf, root, vp, false)
	}
}
