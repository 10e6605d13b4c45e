package banyan

import "fmt"

// overlayLines formats frame stats for the screen-space debug overlay.
func overlayLines(stats RenderStats) []string {
	return []string{
		fmt.Sprintf("frame: %.2fms", stats.Milliseconds()),
		fmt.Sprintf("rendered: %d  culled: %d  batches: %d",
			stats.NodesRendered, stats.NodesCulled, stats.Batches),
	}
}

// countTypeBatches counts contiguous runs of same-type items in the sorted
// draw list. This reports how many grouped submissions the frame produced.
func countTypeBatches(items []renderItem) int {
	if len(items) == 0 {
		return 0
	}
	count := 1
	prev := items[0].node.Type
	for i := 1; i < len(items); i++ {
		if items[i].node.Type != prev {
			count++
			prev = items[i].node.Type
		}
	}
	return count
}
