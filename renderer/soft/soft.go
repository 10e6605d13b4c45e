package soft

import (
	"context"
	"image"

	"github.com/phanxgames/banyan/renderer"
)

// ContextKind is the graphics-context capability this backend offers.
const ContextKind = "raster"

// Renderer is the software renderer instance: the shared canvas core drawing
// into a raster surface.
type Renderer struct {
	*renderer.Canvas
	cfg     renderer.Config
	surface *Surface
}

// Initialize allocates the raster surface and starts the frame loop. Never
// fails: software rendering has no external resources to acquire.
func (r *Renderer) Initialize(ctx context.Context) error {
	r.surface = NewSurface(int(r.cfg.Width), int(r.cfg.Height))
	r.Start(r.surface)
	return nil
}

// Image returns the last rendered frame.
func (r *Renderer) Image() image.Image { return r.surface.Image() }

// SavePNG writes the last rendered frame to path.
func (r *Renderer) SavePNG(path string) error { return r.surface.SavePNG(path) }

// Factory builds software renderers. It accepts every view type and context
// request, making it the unconditional fallback tier.
type Factory struct{}

func (Factory) Name() string { return "soft" }

func (Factory) SupportsViewType(viewType string) bool { return true }

func (Factory) HardwareAccelerated() bool { return false }

func (Factory) SupportsContext(kind string) bool {
	return kind == ContextKind || kind == "2d"
}

func (Factory) New(cfg renderer.Config) renderer.Renderer {
	return &Renderer{Canvas: renderer.NewCanvas(cfg), cfg: cfg}
}
