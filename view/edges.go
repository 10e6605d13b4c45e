package view

// Edges returns the renderable edge list with inheritance applied. Base edges
// whose endpoints are both visible pass through unchanged; an edge with a
// hidden endpoint reroutes that endpoint to its nearest visible ancestor and
// is marked Inherited. Edges fully hidden inside one collapsed subtree
// (resolved source == resolved target) are dropped, as are edges referencing
// missing nodes.
//
// The result is cached and reused until the edge or view bucket version
// changes.
func (s *Store) Edges() []Edge {
	if s.edgeCache != nil &&
		s.edgeCacheEdgeVer == s.edgesVersion &&
		s.edgeCacheViewVer == s.viewVersion {
		return s.edgeCache
	}

	out := make([]Edge, 0, len(s.domainEdges))
	for _, id := range s.edgeOrder {
		e, ok := s.domainEdges[id]
		if !ok {
			continue
		}
		src, srcRerouted := s.resolveVisible(e.SourceID)
		dst, dstRerouted := s.resolveVisible(e.TargetID)
		if src == "" || dst == "" {
			continue // dangling reference
		}
		if src == dst {
			continue // fully contained in one collapsed subtree
		}
		out = append(out, Edge{
			ID:        e.ID,
			SourceID:  src,
			TargetID:  dst,
			Type:      e.Type,
			Inherited: srcRerouted || dstRerouted,
		})
	}

	s.edgeCache = out
	s.edgeCacheEdgeVer = s.edgesVersion
	s.edgeCacheViewVer = s.viewVersion
	return out
}

// resolveVisible maps a domain identity to the view node that should anchor
// an edge endpoint: the node itself when visible, otherwise the nearest
// visible ancestor. Returns "" when the node is unknown or no visible
// ancestor exists; rerouted reports whether the endpoint moved.
func (s *Store) resolveVisible(id string) (resolved string, rerouted bool) {
	n := s.viewNodes[id]
	if n == nil {
		return "", false
	}
	if n.Visible {
		return n.ID, false
	}
	for cur := n; cur.ParentID != ""; {
		parent := s.viewNodes[cur.ParentID]
		if parent == nil {
			return "", true
		}
		if parent.Visible {
			return parent.ID, true
		}
		cur = parent
	}
	return "", true
}
