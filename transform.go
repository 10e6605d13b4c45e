package banyan

import "math"

// identityMatrix is the identity affine matrix.
var identityMatrix = [6]float64{1, 0, 0, 1, 0, 0}

// composeLocal computes the local affine matrix from the node's transform
// properties. Returns [a, b, c, d, tx, ty].
//
// Composition order is fixed: Translate(X, Y) * Rotate * Scale.
func composeLocal(n *Node) [6]float64 {
	sin, cos := math.Sincos(n.Rotation)
	return [6]float64{
		cos * n.ScaleX,
		sin * n.ScaleX,
		-sin * n.ScaleY,
		cos * n.ScaleY,
		n.X,
		n.Y,
	}
}

// mulAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func mulAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityMatrix
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// --- Transformer ---

// Transformer owns the dirty bookkeeping for one scene tree and recomputes
// cached local/world matrices on demand. The dirty set is lifecycle-scoped to
// the Transformer instance; sharing one tree between two Transformers is not
// supported.
type Transformer struct {
	dirty map[*Node]struct{}
}

// NewTransformer creates an empty Transformer.
func NewTransformer() *Transformer {
	return &Transformer{dirty: make(map[*Node]struct{})}
}

// MarkDirty flags n and every descendant as needing matrix recomputation and
// registers them in the dirty set. Idempotence is keyed off set membership,
// not the node flag: constructors and structural changes pre-set the flag
// without registering, and those nodes must still be picked up here.
func (t *Transformer) MarkDirty(n *Node) {
	if n == nil {
		return
	}
	if _, registered := t.dirty[n]; registered {
		return
	}
	n.dirty = true
	t.dirty[n] = struct{}{}
	for _, child := range n.children {
		t.MarkDirty(child)
	}
}

// DirtyCount returns the number of nodes currently in the dirty set.
func (t *Transformer) DirtyCount() int {
	return len(t.dirty)
}

// Update recomputes matrices for all dirty nodes in the tree rooted at root.
// No-op when the dirty set is empty. The walk is top-down, so a parent's
// world matrix is always recomputed before any of its children read it.
func (t *Transformer) Update(root *Node) {
	if len(t.dirty) == 0 {
		return
	}
	t.update(root)
	// The walk drains every registered node under root, so anything still
	// registered was detached from this tree. Drop those entries or the
	// empty-set fast path would never fire again.
	clear(t.dirty)
}

func (t *Transformer) update(n *Node) {
	if n.dirty {
		t.recompute(n)
	}
	for _, child := range n.children {
		t.update(child)
	}
}

// recompute rebuilds n's matrices assuming n.Parent (if any) is clean.
func (t *Transformer) recompute(n *Node) {
	n.localMatrix = composeLocal(n)
	if n.Parent != nil {
		n.worldMatrix = mulAffine(n.Parent.worldMatrix, n.localMatrix)
	} else {
		n.worldMatrix = n.localMatrix
	}
	n.dirty = false
	delete(t.dirty, n)
}

// EnsureWorld returns n's world matrix, lazily recomputing the parent chain
// first if any ancestor is dirty. This is the direct-lookup path: a child
// queried before Update still observes parent-before-child evaluation.
func (t *Transformer) EnsureWorld(n *Node) [6]float64 {
	t.ensure(n)
	return n.worldMatrix
}

func (t *Transformer) ensure(n *Node) {
	if n == nil {
		return
	}
	t.ensure(n.Parent)
	if n.dirty {
		t.recompute(n)
	}
}

// LocalToWorld transforms a point from n's local space to world space.
func (t *Transformer) LocalToWorld(n *Node, p Point) Point {
	m := t.EnsureWorld(n)
	x, y := transformPoint(m, p.X, p.Y)
	return Point{x, y}
}

// WorldToLocal transforms a point from world space to n's local space.
// A singular world matrix (zero scale) inverts to identity, so the result is
// the input point unchanged rather than NaN.
func (t *Transformer) WorldToLocal(n *Node, p Point) Point {
	m := t.EnsureWorld(n)
	x, y := transformPoint(invertAffine(m), p.X, p.Y)
	return Point{x, y}
}

// --- Mutation helpers ---

// TranslateNode moves n by (dx, dy) in its parent's space and marks it dirty.
func (t *Transformer) TranslateNode(n *Node, dx, dy float64) {
	n.X += dx
	n.Y += dy
	t.MarkDirty(n)
}

// ScaleNode multiplies n's scale by (fx, fy). When origin is non-nil the
// scaling pivots around that point (in parent space): the pivot offset is
// absorbed algebraically into X/Y instead of going through a matrix stack.
func (t *Transformer) ScaleNode(n *Node, fx, fy float64, origin *Point) {
	if origin != nil {
		n.X = origin.X + (n.X-origin.X)*fx
		n.Y = origin.Y + (n.Y-origin.Y)*fy
	}
	n.ScaleX *= fx
	n.ScaleY *= fy
	t.MarkDirty(n)
}

// RotateNode adds angle (radians) to n's rotation. When origin is non-nil the
// rotation pivots around that point in parent space, rotating n's position
// about it.
func (t *Transformer) RotateNode(n *Node, angle float64, origin *Point) {
	if origin != nil {
		sin, cos := math.Sincos(angle)
		dx := n.X - origin.X
		dy := n.Y - origin.Y
		n.X = origin.X + cos*dx - sin*dy
		n.Y = origin.Y + sin*dx + cos*dy
	}
	n.Rotation += angle
	t.MarkDirty(n)
}
