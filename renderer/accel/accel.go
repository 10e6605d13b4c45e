package accel

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/banyan/renderer"
)

// ContextKind is the graphics-context capability this backend offers.
const ContextKind = "gpu"

// Renderer is the accelerated renderer instance. It owns an offscreen image
// sized to the canvas; Render draws into it synchronously and the Game
// adapter blits it each ebiten frame.
type Renderer struct {
	*renderer.Canvas
	cfg       renderer.Config
	offscreen *ebiten.Image
}

// Initialize allocates the offscreen image and starts the frame loop. Fails
// when the canvas size is unusable; the registry tears the instance down on
// error.
func (r *Renderer) Initialize(ctx context.Context) error {
	w, h := int(r.cfg.Width), int(r.cfg.Height)
	if w <= 0 || h <= 0 {
		return fmt.Errorf("accel: invalid canvas size %dx%d", w, h)
	}
	r.offscreen = ebiten.NewImage(w, h)
	r.Start(NewSurface(r.offscreen))
	return nil
}

// Offscreen returns the image holding the last rendered frame.
func (r *Renderer) Offscreen() *ebiten.Image { return r.offscreen }

// Dispose stops the frame loop and releases the offscreen image.
func (r *Renderer) Dispose() {
	r.Canvas.Dispose()
	if r.offscreen != nil {
		r.offscreen.Deallocate()
		r.offscreen = nil
	}
}

// Factory builds accelerated renderers.
type Factory struct{}

func (Factory) Name() string { return "accel" }

func (Factory) SupportsViewType(viewType string) bool { return true }

func (Factory) HardwareAccelerated() bool { return true }

func (Factory) SupportsContext(kind string) bool { return kind == ContextKind }

func (Factory) New(cfg renderer.Config) renderer.Renderer {
	return &Renderer{Canvas: renderer.NewCanvas(cfg), cfg: cfg}
}
