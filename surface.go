package banyan

// Surface is the 2D drawing target the render pipeline draws into. Backends
// (software raster, GPU) implement it; each draw op receives the compound
// draw matrix (viewport ∘ world) directly, so implementations never maintain
// a nested save/restore stack.
type Surface interface {
	// Size returns the surface dimensions in pixels.
	Size() (w, h float64)

	// Clear fills the whole surface with the background color.
	Clear(bg Color)

	// DrawRect draws a width×height rectangle with local origin (0, 0)
	// transformed by m. Fill and stroke passes follow the style; corner
	// radius applies when the matrix is axis-aligned.
	DrawRect(m [6]float64, width, height float64, st *Style)

	// DrawText draws text anchored within a width×height box at local
	// origin (0, 0) transformed by m, honoring the style's alignment and
	// baseline, with fill and optional stroke passes.
	DrawText(m [6]float64, text string, width, height float64, st *Style)

	// DrawLine draws a line between two local points transformed by m.
	DrawLine(m [6]float64, x1, y1, x2, y2 float64, st *Style)

	// DrawOverlay draws debug text lines in screen space, after any viewport
	// transform has been conceptually restored.
	DrawOverlay(lines []string)
}
