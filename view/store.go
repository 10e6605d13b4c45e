package view

import (
	"github.com/google/uuid"
)

// Store holds the domain and view buckets plus their version counters. Not
// safe for concurrent use; all mutation happens on the single scheduling
// thread (see the renderer package).
type Store struct {
	domainNodes map[string]*DomainNode
	domainEdges map[string]*DomainEdge
	viewNodes   map[string]*Node

	// Insertion-order slices keep traversals deterministic regardless of
	// map iteration. nodeOrder/edgeOrder track the domain buckets,
	// viewOrder the view bucket.
	nodeOrder []string
	edgeOrder []string
	viewOrder []string

	nodesVersion uint64
	edgesVersion uint64
	viewVersion  uint64

	// inherited-edge cache, valid for the recorded versions
	edgeCache        []Edge
	edgeCacheEdgeVer uint64
	edgeCacheViewVer uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		domainNodes: make(map[string]*DomainNode),
		domainEdges: make(map[string]*DomainEdge),
		viewNodes:   make(map[string]*Node),
	}
}

// --- Versions ---

// NodesVersion returns the domain-node bucket version.
func (s *Store) NodesVersion() uint64 { return s.nodesVersion }

// EdgesVersion returns the domain-edge bucket version.
func (s *Store) EdgesVersion() uint64 { return s.edgesVersion }

// ViewVersion returns the view bucket version. Any layout or visibility
// change bumps it.
func (s *Store) ViewVersion() uint64 { return s.viewVersion }

// --- Domain bucket ---

// PutDomainNode inserts or replaces a domain node.
func (s *Store) PutDomainNode(n *DomainNode) {
	if _, exists := s.domainNodes[n.ID]; !exists {
		s.nodeOrder = append(s.nodeOrder, n.ID)
	}
	s.domainNodes[n.ID] = n
	s.nodesVersion++
}

// DomainNode returns the domain node with the given id, or nil.
func (s *Store) DomainNode(id string) *DomainNode {
	return s.domainNodes[id]
}

// PutDomainEdge inserts or replaces a domain edge. An empty ID is assigned a
// generated one.
func (s *Store) PutDomainEdge(e *DomainEdge) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if _, exists := s.domainEdges[e.ID]; !exists {
		s.edgeOrder = append(s.edgeOrder, e.ID)
	}
	s.domainEdges[e.ID] = e
	s.edgesVersion++
}

// DomainEdge returns the domain edge with the given id, or nil.
func (s *Store) DomainEdge(id string) *DomainEdge {
	return s.domainEdges[id]
}

// --- View bucket ---

// PutNode inserts or replaces a view node. New nodes default to visible;
// replacements keep the caller's visibility.
func (s *Store) PutNode(n *Node) {
	if _, exists := s.viewNodes[n.ID]; !exists {
		s.viewOrder = append(s.viewOrder, n.ID)
		n.Visible = true
	}
	s.viewNodes[n.ID] = n
	s.viewVersion++
}

// Node returns the view node with the given id, or nil.
func (s *Store) Node(id string) *Node {
	return s.viewNodes[id]
}

// Remove deletes the domain node, its view record, and every view descendant
// (with their domain halves). Edges referencing removed nodes are left in
// place; edge resolution skips dangling references.
func (s *Store) Remove(id string) {
	for _, child := range s.Children(id) {
		s.Remove(child.ID)
	}
	delete(s.viewNodes, id)
	for i, vid := range s.viewOrder {
		if vid == id {
			s.viewOrder = append(s.viewOrder[:i], s.viewOrder[i+1:]...)
			break
		}
	}
	if _, ok := s.domainNodes[id]; ok {
		delete(s.domainNodes, id)
		for i, nid := range s.nodeOrder {
			if nid == id {
				s.nodeOrder = append(s.nodeOrder[:i], s.nodeOrder[i+1:]...)
				break
			}
		}
		s.nodesVersion++
	}
	s.viewVersion++
}

// Touch bumps the view version. Callers that mutate a *Node's fields in place
// use this to invalidate derived lists.
func (s *Store) Touch() {
	s.viewVersion++
}

// Nodes returns all view nodes in insertion order. Nodes without a domain
// half follow the domain-ordered ones, in their own insertion order.
func (s *Store) Nodes() []*Node {
	out := make([]*Node, 0, len(s.viewNodes))
	seen := make(map[string]bool, len(s.viewNodes))
	for _, id := range s.nodeOrder {
		if n, ok := s.viewNodes[id]; ok {
			out = append(out, n)
			seen[id] = true
		}
	}
	for _, id := range s.viewOrder {
		if seen[id] {
			continue
		}
		if n, ok := s.viewNodes[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Children returns the view nodes whose ParentID is id, in insertion order.
func (s *Store) Children(id string) []*Node {
	var out []*Node
	for _, n := range s.Nodes() {
		if n.ParentID == id {
			out = append(out, n)
		}
	}
	return out
}

// Roots returns the view nodes with no parent, in insertion order.
func (s *Store) Roots() []*Node {
	return s.Children("")
}

// --- Fold / Unfold ---

// Fold collapses the node with the given id: the node itself stays visible
// (drawn at CollapsedHeight), every strict descendant becomes invisible.
// No-op for unknown ids or already-collapsed nodes.
func (s *Store) Fold(id string) {
	n := s.viewNodes[id]
	if n == nil || n.Collapsed {
		return
	}
	n.Collapsed = true
	s.hideDescendants(id)
	s.viewVersion++
}

func (s *Store) hideDescendants(id string) {
	for _, child := range s.Children(id) {
		child.Visible = false
		s.hideDescendants(child.ID)
	}
}

// Unfold expands a collapsed node: direct descendants become visible again,
// but recursion stops at descendants that are themselves collapsed, so nested
// folds survive an outer unfold.
func (s *Store) Unfold(id string) {
	n := s.viewNodes[id]
	if n == nil || !n.Collapsed {
		return
	}
	n.Collapsed = false
	s.showDescendants(id)
	s.viewVersion++
}

func (s *Store) showDescendants(id string) {
	for _, child := range s.Children(id) {
		child.Visible = true
		if !child.Collapsed {
			s.showDescendants(child.ID)
		}
	}
}

// IsVisible reports whether the node with the given id exists and is visible.
func (s *Store) IsVisible(id string) bool {
	n := s.viewNodes[id]
	return n != nil && n.Visible
}
