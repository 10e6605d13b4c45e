package reflow

import (
	"math"

	"github.com/phanxgames/banyan"
	"github.com/phanxgames/banyan/view"
)

// EnsureParentContainsChildren resizes parent so its visible children fit
// inside it with Padding on every side. Growth happens unconditionally (up to
// the viewport clamp); shrinking goes through hysteresis.
func EnsureParentContainsChildren(s *view.Store, parent *view.Node, viewport *banyan.Rect) {
	kids := visibleNodes(s.Children(parent.ID))
	if len(kids) == 0 {
		return
	}

	maxX, maxY := 0.0, 0.0
	for _, k := range kids {
		maxX = math.Max(maxX, k.X+k.Width)
		maxY = math.Max(maxY, k.Y+k.EffectiveHeight())
	}
	ResizeContainerToFitChildren(parent, maxX+Padding, maxY+Padding, viewport)
}

// ResizeContainerToFitChildren applies the required content size to a
// container. Required sizes larger than the current size always win; smaller
// sizes only apply when the relative change along either axis exceeds the
// shrink hysteresis (20% for nested containers, 10% for roots). The result
// is clamped to the minimum container size and to containerMaxFrac of the
// viewport.
func ResizeContainerToFitChildren(n *view.Node, requiredW, requiredH float64, viewport *banyan.Rect) {
	maxW, maxH := math.Inf(1), math.Inf(1)
	if viewport != nil {
		maxW = viewport.Width * containerMaxFrac
		maxH = viewport.Height * containerMaxFrac
	}

	newW, newH := n.Width, n.Height
	grow := requiredW > n.Width || requiredH > n.Height
	if grow {
		newW = math.Max(n.Width, requiredW)
		newH = math.Max(n.Height, requiredH)
	} else if shouldShrink(n, requiredW, requiredH) {
		newW = requiredW
		newH = requiredH
	}

	n.Width = clamp(newW, MinContainerWidth, maxW)
	n.Height = clamp(newH, MinContainerHeight, maxH)
}

// shouldShrink reports whether the drop from the current to the required
// size is big enough to act on.
func shouldShrink(n *view.Node, requiredW, requiredH float64) bool {
	threshold := shrinkHysteresis
	if n.ParentID == "" {
		threshold = rootShrinkHysteresis
	}
	dw, dh := 0.0, 0.0
	if n.Width > 0 {
		dw = (n.Width - requiredW) / n.Width
	}
	if n.Height > 0 {
		dh = (n.Height - requiredH) / n.Height
	}
	return dw > threshold || dh > threshold
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
