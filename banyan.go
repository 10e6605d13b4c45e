package banyan

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// Common colors used by defaults and examples.
var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
)

// WithAlpha returns the color with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

// Darken returns the color with its RGB components scaled toward black by f
// (0 = unchanged, 1 = black). Alpha is preserved.
func (c Color) Darken(f float64) Color {
	k := 1 - f
	return Color{c.R * k, c.G * k, c.B * k, c.A}
}

// Point is a 2D point or vector.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.X+r.Width, other.X+other.Width)
	maxY := max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// NodeType distinguishes drawing behavior for a Node.
type NodeType uint8

const (
	NodeTypeGroup     NodeType = iota // structural node with no visual output
	NodeTypeRectangle                 // fills/strokes its bounds, optional corner radius
	NodeTypeText                      // draws Text with alignment and baseline
	NodeTypeCustom                    // invokes the node's Draw hook
)

// TextAlign controls horizontal text placement within a node's bounds.
type TextAlign uint8

const (
	TextAlignLeft   TextAlign = iota // anchor at the left edge (default)
	TextAlignCenter                  // anchor at the horizontal center
	TextAlignRight                   // anchor at the right edge
)

// TextBaseline controls vertical text placement within a node's bounds.
type TextBaseline uint8

const (
	BaselineAlphabetic TextBaseline = iota // anchor at the text baseline (default)
	BaselineTop                            // anchor at the top of the bounds
	BaselineMiddle                         // anchor at the vertical center
)

// Font selects a typeface for text nodes. Backends resolve Family to whatever
// face they have available; Size is in pixels.
type Font struct {
	Family string
	Size   float64
}

// Style carries the visual properties of a node. A fill is drawn when
// Fill.A > 0; a stroke is drawn when StrokeWidth > 0.
type Style struct {
	Fill         Color
	Stroke       Color
	StrokeWidth  float64
	Opacity      float64 // multiplies both fill and stroke alpha; 1 = opaque
	CornerRadius float64
	Dashed       bool

	// Text-only properties.
	Font     Font
	Align    TextAlign
	Baseline TextBaseline
}

// DefaultStyle returns a style with full opacity and no fill or stroke.
func DefaultStyle() Style {
	return Style{Opacity: 1}
}
