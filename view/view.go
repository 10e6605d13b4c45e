// Package view holds the domain/view split for diagram content: domain
// entities carry business facts, view records carry layout state, and a Store
// keys the two halves by the same identity. Version counters on each bucket
// let derived lists (render order, inherited edges) recompute only when the
// underlying state actually changed.
package view

// CollapsedHeight is the display height of a collapsed node. Collapsing never
// rewrites the stored Height, so expanding restores the node exactly.
const CollapsedHeight = 60.0

// DomainNode is the business half of a diagram element: what it is, not where
// it sits.
type DomainNode struct {
	ID         string
	Type       string
	Labels     []string
	Properties map[string]string
}

// DomainEdge connects two domain nodes. SourceID and TargetID reference
// domain identities, never view records, so folding a container does not
// invalidate the edge's true endpoints.
type DomainEdge struct {
	ID       string
	SourceID string
	TargetID string
	Type     string
}

// Node is the visual half of a diagram element, keyed by the same ID as the
// domain node it visualizes.
type Node struct {
	ID        string
	X, Y      float64
	Width     float64
	Height    float64 // expanded height; see EffectiveHeight
	ParentID  string  // "" for root nodes
	Collapsed bool
	Visible   bool
	Selected  bool
}

// EffectiveHeight returns the height the node currently occupies on screen:
// the stored height, or CollapsedHeight when collapsed.
func (n *Node) EffectiveHeight() float64 {
	if n.Collapsed {
		return CollapsedHeight
	}
	return n.Height
}

// Edge is a renderable connection. Base edges mirror a DomainEdge one-to-one;
// inherited edges are synthesized when an endpoint is hidden inside a
// collapsed container and reroute to the nearest visible ancestor.
type Edge struct {
	ID        string
	SourceID  string // resolved view-node id
	TargetID  string // resolved view-node id
	Type      string
	Inherited bool
}
