package renderer

import (
	"github.com/phanxgames/banyan"
	"github.com/phanxgames/banyan/reflow"
	"github.com/phanxgames/banyan/view"
)

// Canvas is the backend-independent core of a renderer instance: scene
// building, transform/render plumbing, viewport, interaction, and the frame
// loop. Backends embed it and supply a Surface at initialization.
//
// A Canvas is single-threaded by contract. With the default ticker driver
// the frame callback runs on the driver goroutine, so event handlers and
// store mutations must be funneled there by the host (an ebiten Update loop,
// a test's manual driver, ...). Nothing here locks.
type Canvas struct {
	cfg         Config
	transformer *banyan.Transformer
	pipeline    *banyan.Pipeline
	viewport    *banyan.Viewport
	scene       *SceneBuilder
	interact    *Interaction

	surface banyan.Surface

	lastStats   banyan.RenderStats
	renderedVer [3]uint64
	everDrawn   bool
	started     bool
	disposed    bool
}

// NewCanvas builds the shared canvas core for a config that has already been
// through defaulting.
func NewCanvas(cfg Config) *Canvas {
	t := banyan.NewTransformer()
	p := banyan.NewPipeline(t)
	p.Background = cfg.Background
	vp := banyan.NewViewport(cfg.Width, cfg.Height)

	return &Canvas{
		cfg:         cfg,
		transformer: t,
		pipeline:    p,
		viewport:    vp,
		scene:       NewSceneBuilder(cfg.Store),
		interact:    NewInteraction(cfg.Store, vp),
	}
}

// Start attaches the drawing surface and begins the frame loop. Called by
// the backend at the end of its Initialize.
func (c *Canvas) Start(surface banyan.Surface) {
	if c.started || c.disposed {
		return
	}
	c.surface = surface
	c.started = true
	c.cfg.Driver.Start(c.frame)
}

// frame is the per-tick callback: advance animations, redraw when anything
// changed.
func (c *Canvas) frame(dt float64) {
	if c.disposed {
		return
	}
	c.viewport.Update(dt)
	if c.needsFrame() {
		c.Render()
	}
}

func (c *Canvas) needsFrame() bool {
	if !c.everDrawn || c.viewport.Animating() || c.interact.NeedsRedraw() {
		return true
	}
	cur := c.storeVersions()
	return cur != c.renderedVer
}

func (c *Canvas) storeVersions() [3]uint64 {
	s := c.cfg.Store
	return [3]uint64{s.NodesVersion(), s.EdgesVersion(), s.ViewVersion()}
}

// Render performs one synchronous draw pass and records the stats.
func (c *Canvas) Render() banyan.RenderStats {
	if c.disposed || c.surface == nil {
		return banyan.RenderStats{}
	}
	root := c.scene.Root()
	c.lastStats = c.pipeline.Render(c.surface, root, c.viewport, c.cfg.DebugOverlay)
	c.renderedVer = c.storeVersions()
	c.everDrawn = true
	return c.lastStats
}

// LastStats returns the stats of the most recent draw pass.
func (c *Canvas) LastStats() banyan.RenderStats { return c.lastStats }

// HandleMouseEvent feeds a pointer event to the interaction state.
func (c *Canvas) HandleMouseEvent(e MouseEvent) {
	if c.disposed {
		return
	}
	c.interact.MouseEvent(e)
}

// HandleWheelEvent feeds a scroll event to the interaction state.
func (c *Canvas) HandleWheelEvent(e WheelEvent) {
	if c.disposed {
		return
	}
	c.interact.WheelEvent(e)
}

// SetCollapsed folds or unfolds a node and reflows its sibling group using
// the configured collapse behavior.
func (c *Canvas) SetCollapsed(id string, collapsed bool) {
	if c.disposed {
		return
	}
	store := c.cfg.Store
	n := store.Node(id)
	if n == nil || n.Collapsed == collapsed {
		return
	}
	if collapsed {
		store.Fold(id)
	} else {
		store.Unfold(id)
	}

	var container *banyan.Rect
	if parent := store.Node(n.ParentID); parent != nil {
		container = &banyan.Rect{X: parent.X, Y: parent.Y, Width: parent.Width, Height: parent.Height}
	}
	vp := c.viewport.VisibleBounds()
	reflow.ReflowSiblings(store, id, c.cfg.CollapseBehavior, container, &vp)
}

// FitToContent pans and zooms so every visible root node fits the canvas
// with a small margin.
func (c *Canvas) FitToContent() {
	bounds := ContentBounds(c.cfg.Store)
	x, y, zoom := banyan.FitContent(c.cfg.Width, c.cfg.Height, bounds, 2*reflow.Padding)
	c.viewport.SetPan(x, y)
	c.viewport.SetZoom(zoom)
}

// Viewport exposes the canvas viewport for host-driven pan/zoom.
func (c *Canvas) Viewport() *banyan.Viewport { return c.viewport }

// Store exposes the backing view store.
func (c *Canvas) Store() *view.Store { return c.cfg.Store }

// Dispose stops the frame loop and releases the scene. Idempotent.
func (c *Canvas) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	if c.started {
		c.cfg.Driver.Stop()
	}
	if root := c.scene.root; root != nil {
		root.Dispose()
	}
	c.surface = nil
}
