// Package accel is the hardware-accelerated backend on ebiten. The renderer
// draws into an owned offscreen image so a draw pass stays synchronous; an
// ebiten Game adapter blits it to the screen and forwards input.
package accel

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/phanxgames/banyan"
)

// whiteSubImage is the 1×1 texture used for triangle fills.
var whiteSubImage *ebiten.Image

func init() {
	whiteImage := ebiten.NewImage(3, 3)
	whiteImage.Fill(color.White)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

const dashOn, dashOff = 6.0, 4.0

// Surface draws into an ebiten image.
type Surface struct {
	dst    *ebiten.Image
	width  float64
	height float64
	face   text.Face

	vertices []ebiten.Vertex
	indices  []uint16
}

// NewSurface wraps the destination image as a drawing surface.
func NewSurface(dst *ebiten.Image) *Surface {
	b := dst.Bounds()
	return &Surface{
		dst:    dst,
		width:  float64(b.Dx()),
		height: float64(b.Dy()),
		face:   text.NewGoXFace(basicfont.Face7x13),
	}
}

// Size returns the surface dimensions in pixels.
func (s *Surface) Size() (float64, float64) { return s.width, s.height }

// Clear fills the destination with the background color.
func (s *Surface) Clear(bg banyan.Color) {
	s.dst.Fill(toNRGBA(bg, 1))
}

// DrawRect draws a transformed rectangle. Axis-aligned fills and strokes go
// through the vector helpers; rotated ones are filled as triangles against
// the white texture and stroked as a path.
func (s *Surface) DrawRect(m [6]float64, width, height float64, st *banyan.Style) {
	axisAligned := m[1] == 0 && m[2] == 0

	if axisAligned && st.CornerRadius == 0 {
		x, y := float32(m[4]), float32(m[5])
		w := float32(width * m[0])
		h := float32(height * m[3])
		if st.Fill.A > 0 {
			vector.DrawFilledRect(s.dst, x, y, w, h, toNRGBA(st.Fill, st.Opacity), true)
		}
		if st.StrokeWidth > 0 {
			vector.StrokeRect(s.dst, x, y, w, h, float32(st.StrokeWidth), toNRGBA(st.Stroke, st.Opacity), true)
		}
		return
	}

	path := s.rectPath(m, width, height, st.CornerRadius)
	if st.Fill.A > 0 {
		s.fillPath(path, st.Fill, st.Opacity)
	}
	if st.StrokeWidth > 0 {
		s.strokePath(path, st.Stroke, st.Opacity, st.StrokeWidth)
	}
}

// rectPath builds the outline of a transformed rectangle. Corner radius is
// honored on the axis-aligned path only.
func (s *Surface) rectPath(m [6]float64, width, height, radius float64) *vector.Path {
	var p vector.Path
	if m[1] == 0 && m[2] == 0 && radius > 0 {
		x, y := float32(m[4]), float32(m[5])
		w := float32(width * m[0])
		h := float32(height * m[3])
		r := float32(radius * m[0])
		p.MoveTo(x+r, y)
		p.ArcTo(x+w, y, x+w, y+h, r)
		p.ArcTo(x+w, y+h, x, y+h, r)
		p.ArcTo(x, y+h, x, y, r)
		p.ArcTo(x, y, x+w, y, r)
		p.Close()
		return &p
	}

	x0, y0 := apply(m, 0, 0)
	x1, y1 := apply(m, width, 0)
	x2, y2 := apply(m, width, height)
	x3, y3 := apply(m, 0, height)
	p.MoveTo(float32(x0), float32(y0))
	p.LineTo(float32(x1), float32(y1))
	p.LineTo(float32(x2), float32(y2))
	p.LineTo(float32(x3), float32(y3))
	p.Close()
	return &p
}

func (s *Surface) fillPath(p *vector.Path, c banyan.Color, opacity float64) {
	s.vertices, s.indices = p.AppendVerticesAndIndicesForFilling(s.vertices[:0], s.indices[:0])
	s.drawTriangles(c, opacity)
}

func (s *Surface) strokePath(p *vector.Path, c banyan.Color, opacity, width float64) {
	op := &vector.StrokeOptions{Width: float32(width)}
	s.vertices, s.indices = p.AppendVerticesAndIndicesForStroke(s.vertices[:0], s.indices[:0], op)
	s.drawTriangles(c, opacity)
}

func (s *Surface) drawTriangles(c banyan.Color, opacity float64) {
	r := float32(c.R)
	g := float32(c.G)
	b := float32(c.B)
	a := float32(c.A * opacity)
	for i := range s.vertices {
		s.vertices[i].SrcX = 1
		s.vertices[i].SrcY = 1
		s.vertices[i].ColorR = r
		s.vertices[i].ColorG = g
		s.vertices[i].ColorB = b
		s.vertices[i].ColorA = a
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	s.dst.DrawTriangles(s.vertices, s.indices, whiteSubImage, op)
}

// DrawText draws anchored text. The anchor point goes through the matrix;
// glyphs stay screen-sized.
func (s *Surface) DrawText(m [6]float64, str string, width, height float64, st *banyan.Style) {
	if str == "" {
		return
	}

	op := &text.DrawOptions{}
	var lx, ly float64
	switch st.Align {
	case banyan.TextAlignCenter:
		lx = width / 2
		op.PrimaryAlign = text.AlignCenter
	case banyan.TextAlignRight:
		lx = width
		op.PrimaryAlign = text.AlignEnd
	}
	switch st.Baseline {
	case banyan.BaselineTop:
		op.SecondaryAlign = text.AlignStart
	case banyan.BaselineMiddle:
		ly = height / 2
		op.SecondaryAlign = text.AlignCenter
	default: // alphabetic: bottom of the glyph box sits on the anchor
		op.SecondaryAlign = text.AlignEnd
	}

	x, y := apply(m, lx, ly)
	if st.StrokeWidth > 0 && st.Stroke.A > 0 {
		// The bitmap face has no outline geometry; the stroke pass redraws
		// the string shifted one stroke-width in eight directions under the
		// fill.
		sc := toNRGBA(st.Stroke, st.Opacity)
		for _, d := range textStrokeOffsets {
			so := &text.DrawOptions{LayoutOptions: op.LayoutOptions}
			so.GeoM.Translate(x+d[0]*st.StrokeWidth, y+d[1]*st.StrokeWidth)
			so.ColorScale.ScaleWithColor(sc)
			text.Draw(s.dst, str, s.face, so)
		}
	}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(toNRGBA(st.Fill, st.Opacity))
	text.Draw(s.dst, str, s.face, op)
}

// textStrokeOffsets are the unit directions of the offset redraws that stand
// in for a glyph outline pass.
var textStrokeOffsets = [8][2]float64{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{0.7071, 0.7071}, {-0.7071, 0.7071}, {0.7071, -0.7071}, {-0.7071, -0.7071},
}

// DrawLine draws a transformed line segment; dashed styles are emitted as
// alternating sub-segments.
func (s *Surface) DrawLine(m [6]float64, x1, y1, x2, y2 float64, st *banyan.Style) {
	sx1, sy1 := apply(m, x1, y1)
	sx2, sy2 := apply(m, x2, y2)
	w := float32(st.StrokeWidth)
	if w <= 0 {
		w = 1
	}
	clr := toNRGBA(st.Stroke, st.Opacity)

	if !st.Dashed {
		vector.StrokeLine(s.dst, float32(sx1), float32(sy1), float32(sx2), float32(sy2), w, clr, true)
		return
	}

	dx, dy := sx2-sx1, sy2-sy1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	ux, uy := dx/length, dy/length
	for pos := 0.0; pos < length; pos += dashOn + dashOff {
		end := math.Min(pos+dashOn, length)
		vector.StrokeLine(s.dst,
			float32(sx1+ux*pos), float32(sy1+uy*pos),
			float32(sx1+ux*end), float32(sy1+uy*end),
			w, clr, true)
	}
}

// DrawOverlay prints debug lines in the top-left corner.
func (s *Surface) DrawOverlay(lines []string) {
	ebitenutil.DebugPrintAt(s.dst, strings.Join(lines, "\n"), 8, 8)
}

func toNRGBA(c banyan.Color, opacity float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A*opacity) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// apply transforms a local point by the affine matrix [a b c d tx ty].
func apply(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}
