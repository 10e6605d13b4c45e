// Package soft is the software-rendering backend: a raster surface on
// fogleman/gg that every view type can fall back to. It draws into an
// in-memory image, so it also serves headless rendering and PNG export.
package soft

import (
	"image"

	"github.com/fogleman/gg"

	"github.com/phanxgames/banyan"
)

// Surface rasterizes draw calls through a gg context.
type Surface struct {
	dc     *gg.Context
	width  float64
	height float64
}

// NewSurface allocates a raster surface of the given pixel size.
func NewSurface(width, height int) *Surface {
	return &Surface{
		dc:     gg.NewContext(width, height),
		width:  float64(width),
		height: float64(height),
	}
}

// Image returns the backing image.
func (s *Surface) Image() image.Image { return s.dc.Image() }

// SavePNG writes the current image to path.
func (s *Surface) SavePNG(path string) error { return s.dc.SavePNG(path) }

// Size returns the surface dimensions in pixels.
func (s *Surface) Size() (float64, float64) { return s.width, s.height }

// Clear fills the surface with the background color.
func (s *Surface) Clear(bg banyan.Color) {
	s.dc.SetRGBA(bg.R, bg.G, bg.B, bg.A)
	s.dc.Clear()
}

// DrawRect draws a transformed rectangle. Axis-aligned matrices take the
// fast path and keep corner radii; rotated ones go through a polygon path.
func (s *Surface) DrawRect(m [6]float64, width, height float64, st *banyan.Style) {
	axisAligned := m[1] == 0 && m[2] == 0

	if axisAligned {
		x, y := m[4], m[5]
		w := width * m[0]
		h := height * m[3]
		if st.CornerRadius > 0 {
			s.dc.DrawRoundedRectangle(x, y, w, h, st.CornerRadius*m[0])
		} else {
			s.dc.DrawRectangle(x, y, w, h)
		}
	} else {
		x0, y0 := apply(m, 0, 0)
		x1, y1 := apply(m, width, 0)
		x2, y2 := apply(m, width, height)
		x3, y3 := apply(m, 0, height)
		s.dc.MoveTo(x0, y0)
		s.dc.LineTo(x1, y1)
		s.dc.LineTo(x2, y2)
		s.dc.LineTo(x3, y3)
		s.dc.ClosePath()
	}

	if st.Fill.A > 0 {
		s.setColor(st.Fill, st.Opacity)
		if st.StrokeWidth > 0 {
			s.dc.FillPreserve()
		} else {
			s.dc.Fill()
		}
	}
	if st.StrokeWidth > 0 {
		s.strokeWith(st)
	} else if st.Fill.A == 0 {
		s.dc.ClearPath()
	}
}

// DrawText draws anchored text. The anchor point goes through the matrix;
// glyphs themselves stay screen-sized (the default bitmap face does not
// scale with zoom).
func (s *Surface) DrawText(m [6]float64, text string, width, height float64, st *banyan.Style) {
	if text == "" {
		return
	}

	var lx float64
	var ax float64
	switch st.Align {
	case banyan.TextAlignCenter:
		lx, ax = width/2, 0.5
	case banyan.TextAlignRight:
		lx, ax = width, 1
	}

	var ly float64
	var ay float64
	switch st.Baseline {
	case banyan.BaselineTop:
		ly, ay = 0, 1
	case banyan.BaselineMiddle:
		ly, ay = height/2, 0.4
	default: // alphabetic
		ly, ay = 0, 0
	}

	x, y := apply(m, lx, ly)
	if st.StrokeWidth > 0 && st.Stroke.A > 0 {
		// gg exposes no glyph outlines; the stroke pass redraws the string
		// shifted one stroke-width in eight directions under the fill.
		s.setColor(st.Stroke, st.Opacity)
		for _, d := range textStrokeOffsets {
			s.dc.DrawStringAnchored(text, x+d[0]*st.StrokeWidth, y+d[1]*st.StrokeWidth, ax, ay)
		}
	}
	s.setColor(st.Fill, st.Opacity)
	s.dc.DrawStringAnchored(text, x, y, ax, ay)
}

// textStrokeOffsets are the unit directions of the offset redraws that stand
// in for a glyph outline pass.
var textStrokeOffsets = [8][2]float64{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{0.7071, 0.7071}, {-0.7071, 0.7071}, {0.7071, -0.7071}, {-0.7071, -0.7071},
}

// DrawLine draws a transformed line segment.
func (s *Surface) DrawLine(m [6]float64, x1, y1, x2, y2 float64, st *banyan.Style) {
	sx1, sy1 := apply(m, x1, y1)
	sx2, sy2 := apply(m, x2, y2)
	s.dc.MoveTo(sx1, sy1)
	s.dc.LineTo(sx2, sy2)
	s.strokeWith(st)
}

// DrawOverlay prints debug lines in the top-left corner, screen space.
func (s *Surface) DrawOverlay(lines []string) {
	s.dc.SetRGBA(0, 0, 0, 0.75)
	for i, line := range lines {
		s.dc.DrawString(line, 8, 16+float64(i)*14)
	}
}

// strokeWith strokes the current path using the style's stroke settings.
func (s *Surface) strokeWith(st *banyan.Style) {
	lw := st.StrokeWidth
	if lw <= 0 {
		lw = 1
	}
	s.setColor(st.Stroke, st.Opacity)
	s.dc.SetLineWidth(lw)
	if st.Dashed {
		s.dc.SetDash(6, 4)
	}
	s.dc.Stroke()
	if st.Dashed {
		s.dc.SetDash()
	}
}

func (s *Surface) setColor(c banyan.Color, opacity float64) {
	s.dc.SetRGBA(c.R, c.G, c.B, c.A*opacity)
}

// apply transforms a local point by the affine matrix [a b c d tx ty].
func apply(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}
