package banyan

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// panAnim holds active pan-to tweens for viewport X and Y.
type panAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Viewport is the pan/zoom view into the scene. (X, Y) is the world-space
// point the viewport centers on; Zoom is the scale factor (1.0 = no zoom).
type Viewport struct {
	X, Y float64
	Zoom float64
	// Width and Height are the screen-space dimensions of the viewport.
	Width, Height float64

	viewMatrix    [6]float64
	invViewMatrix [6]float64
	dirty         bool

	panTween  *panAnim
	zoomTween *gween.Tween
}

// NewViewport creates a viewport of the given screen size centered on the
// world origin at zoom 1.
func NewViewport(width, height float64) *Viewport {
	return &Viewport{
		Zoom:   1,
		Width:  width,
		Height: height,
		dirty:  true,
	}
}

// SetPan centers the viewport on the given world point.
func (v *Viewport) SetPan(x, y float64) {
	v.X = x
	v.Y = y
	v.dirty = true
}

// SetZoom sets the zoom factor, keeping the current center fixed.
func (v *Viewport) SetZoom(zoom float64) {
	v.Zoom = zoom
	v.dirty = true
}

// Resize updates the screen-space dimensions.
func (v *Viewport) Resize(width, height float64) {
	v.Width = width
	v.Height = height
	v.dirty = true
}

// PanTo animates the viewport center to the given world position over
// duration seconds.
func (v *Viewport) PanTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	v.panTween = &panAnim{
		tweenX: gween.New(float32(v.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(v.Y), float32(y), duration, easeFn),
	}
}

// ZoomTo animates the zoom factor over duration seconds, keeping the current
// center fixed.
func (v *Viewport) ZoomTo(zoom float64, duration float32, easeFn ease.TweenFunc) {
	v.zoomTween = gween.New(float32(v.Zoom), float32(zoom), duration, easeFn)
}

// Update advances pan/zoom animations by dt seconds. Called once per frame
// from the frame loop.
func (v *Viewport) Update(dt float64) {
	if v.panTween != nil {
		if !v.panTween.doneX {
			val, done := v.panTween.tweenX.Update(float32(dt))
			v.X = float64(val)
			v.panTween.doneX = done
			v.dirty = true
		}
		if !v.panTween.doneY {
			val, done := v.panTween.tweenY.Update(float32(dt))
			v.Y = float64(val)
			v.panTween.doneY = done
			v.dirty = true
		}
		if v.panTween.doneX && v.panTween.doneY {
			v.panTween = nil
		}
	}
	if v.zoomTween != nil {
		val, done := v.zoomTween.Update(float32(dt))
		v.Zoom = float64(val)
		v.dirty = true
		if done {
			v.zoomTween = nil
		}
	}
}

// Animating reports whether a pan or zoom tween is in progress.
func (v *Viewport) Animating() bool {
	return v.panTween != nil || v.zoomTween != nil
}

// ViewMatrix returns the compound pan/zoom matrix, recomputing the cache if
// dirty.
//
//	viewMatrix = Translate(cx, cy) * Scale(zoom) * Translate(-X, -Y)
//
// where (cx, cy) is the viewport center in screen space.
func (v *Viewport) ViewMatrix() [6]float64 {
	if v.dirty {
		cx := v.Width / 2
		cy := v.Height / 2
		z := v.Zoom
		v.viewMatrix = [6]float64{z, 0, 0, z, cx - z*v.X, cy - z*v.Y}
		v.invViewMatrix = invertAffine(v.viewMatrix)
		v.dirty = false
	}
	return v.viewMatrix
}

// WorldToScreen converts world coordinates to screen coordinates.
func (v *Viewport) WorldToScreen(wx, wy float64) (sx, sy float64) {
	v.ViewMatrix()
	return transformPoint(v.viewMatrix, wx, wy)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (v *Viewport) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	v.ViewMatrix()
	return transformPoint(v.invViewMatrix, sx, sy)
}

// VisibleBounds returns the world-space rectangle currently visible through
// the viewport.
func (v *Viewport) VisibleBounds() Rect {
	v.ViewMatrix()
	x0, y0 := transformPoint(v.invViewMatrix, 0, 0)
	x1, y1 := transformPoint(v.invViewMatrix, v.Width, v.Height)
	return Rect{
		X:      math.Min(x0, x1),
		Y:      math.Min(y0, y1),
		Width:  math.Abs(x1 - x0),
		Height: math.Abs(y1 - y0),
	}
}

// ZoomAtPoint multiplies the zoom by factor while keeping the world point
// under the screen position (sx, sy) fixed. Wheel-zoom uses this so content
// zooms toward the cursor.
func (v *Viewport) ZoomAtPoint(factor, sx, sy float64) {
	wx, wy := v.ScreenToWorld(sx, sy)
	newZoom := v.Zoom * factor
	v.X, v.Y = zoomedPan(wx, wy, sx, sy, v.Width, v.Height, newZoom)
	v.Zoom = newZoom
	v.dirty = true
}

// zoomedPan returns the viewport center that places world point (wx, wy) at
// screen point (sx, sy) for the given zoom. Pure function of its inputs.
func zoomedPan(wx, wy, sx, sy, width, height, zoom float64) (x, y float64) {
	cx := width / 2
	cy := height / 2
	return wx - (sx-cx)/zoom, wy - (sy-cy)/zoom
}

// FitContent returns the pan center and zoom that fit the given world-space
// content rectangle inside a canvas of the given size with margin pixels of
// padding on every side. Pure function of the content bounding box and
// canvas size; a degenerate content rect yields zoom 1 centered on it.
func FitContent(canvasW, canvasH float64, content Rect, margin float64) (x, y, zoom float64) {
	x = content.X + content.Width/2
	y = content.Y + content.Height/2
	availW := canvasW - 2*margin
	availH := canvasH - 2*margin
	if content.Width <= 0 || content.Height <= 0 || availW <= 0 || availH <= 0 {
		return x, y, 1
	}
	zoom = math.Min(availW/content.Width, availH/content.Height)
	return x, y, zoom
}
