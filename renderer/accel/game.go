package accel

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/banyan/renderer"
)

// Game adapts a Renderer to the ebiten game loop: Update forwards pointer
// and wheel input, Draw blits the offscreen frame. Run it with
// ebiten.RunGame.
type Game struct {
	Renderer *Renderer

	// OnUpdate, when set, runs once per tick before input forwarding.
	OnUpdate func()
}

// NewGame wraps a renderer for ebiten.RunGame.
func NewGame(r *Renderer) *Game {
	return &Game{Renderer: r}
}

// Update forwards input to the renderer. Because ebiten calls Update and
// Draw on one goroutine, pairing this adapter with a ManualDriver stepped
// from OnUpdate keeps all canvas work on that goroutine.
func (g *Game) Update() error {
	if g.OnUpdate != nil {
		g.OnUpdate()
	}

	x, y := ebiten.CursorPosition()
	fx, fy := float64(x), float64(y)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.Renderer.HandleMouseEvent(renderer.MouseEvent{Kind: renderer.MouseDown, X: fx, Y: fy})
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.Renderer.HandleMouseEvent(renderer.MouseEvent{Kind: renderer.MouseUp, X: fx, Y: fy})
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.Renderer.HandleMouseEvent(renderer.MouseEvent{Kind: renderer.MouseMove, X: fx, Y: fy})
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		g.Renderer.HandleWheelEvent(renderer.WheelEvent{X: fx, Y: fy, DeltaY: -dy * 120})
	}
	return nil
}

// Draw blits the offscreen frame to the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	if off := g.Renderer.Offscreen(); off != nil {
		screen.DrawImage(off, nil)
	}
}

// Layout reports the fixed canvas size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.Renderer.Offscreen().Bounds().Dx(), g.Renderer.Offscreen().Bounds().Dy()
	return w, h
}
