package banyan

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

// --- composeLocal ---

func TestLocalMatrixIdentity(t *testing.T) {
	n := NewGroup("test")
	assertMatrix(t, "identity", composeLocal(n), identityMatrix)
}

func TestLocalMatrixTranslation(t *testing.T) {
	n := NewGroup("test")
	n.X = 10
	n.Y = 20
	assertMatrix(t, "translation", composeLocal(n), [6]float64{1, 0, 0, 1, 10, 20})
}

func TestLocalMatrixScale(t *testing.T) {
	n := NewGroup("test")
	n.ScaleX = 2
	n.ScaleY = 3
	assertMatrix(t, "scale", composeLocal(n), [6]float64{2, 0, 0, 3, 0, 0})
}

func TestLocalMatrixRotation90(t *testing.T) {
	n := NewGroup("test")
	n.Rotation = math.Pi / 2
	// cos(90)=0, sin(90)=1 → a=0, b=1, c=-1, d=0
	assertMatrix(t, "rot90", composeLocal(n), [6]float64{0, 1, -1, 0, 0, 0})
}

func TestLocalMatrixOrderTranslateRotateScale(t *testing.T) {
	n := NewGroup("test")
	n.X = 50
	n.Y = 100
	n.ScaleX = 2
	n.ScaleY = 2
	n.Rotation = math.Pi / 2
	// T(50,100) * R(90°) * S(2,2): rotation does not touch the translation,
	// scale feeds through the rotated basis.
	assertMatrix(t, "trs", composeLocal(n), [6]float64{0, 2, -2, 0, 50, 100})
}

// --- mulAffine / invertAffine ---

func TestMulAffineIdentity(t *testing.T) {
	m := [6]float64{2, 1, 3, 4, 5, 6}
	assertMatrix(t, "id*m", mulAffine(identityMatrix, m), m)
	assertMatrix(t, "m*id", mulAffine(m, identityMatrix), m)
}

func TestMulAffineTranslations(t *testing.T) {
	a := [6]float64{1, 0, 0, 1, 10, 20}
	b := [6]float64{1, 0, 0, 1, 5, 3}
	assertMatrix(t, "translations", mulAffine(a, b), [6]float64{1, 0, 0, 1, 15, 23})
}

func TestInvertAffine(t *testing.T) {
	m := [6]float64{2, 0, 0, 3, 10, 20}
	assertMatrix(t, "m*inv=id", mulAffine(m, invertAffine(m)), identityMatrix)
}

func TestInvertAffineSingularReturnsIdentity(t *testing.T) {
	// ScaleX=0 produces a singular matrix (determinant=0).
	m := [6]float64{0, 0, 0, 1, 10, 20}
	assertMatrix(t, "singular→identity", invertAffine(m), identityMatrix)
}

// --- MarkDirty ---

func TestMarkDirtyPropagatesToDescendants(t *testing.T) {
	tr := NewTransformer()
	root := NewGroup("root")
	child := NewGroup("child")
	grandchild := NewGroup("grandchild")
	root.AddChild(child)
	child.AddChild(grandchild)
	tr.MarkDirty(root)
	tr.Update(root)

	tr.MarkDirty(child)
	if !child.dirty || !grandchild.dirty {
		t.Error("MarkDirty should flag the node and every descendant")
	}
	if root.dirty {
		t.Error("MarkDirty should not flag ancestors")
	}
	if tr.DirtyCount() != 2 {
		t.Errorf("DirtyCount = %d, want 2", tr.DirtyCount())
	}
}

func TestMarkDirtyRegistersFreshTree(t *testing.T) {
	// Constructors pre-set the node flag; MarkDirty must still register the
	// whole tree so Update actually recomputes it.
	tr := NewTransformer()
	root := NewGroup("root")
	child := NewGroup("child")
	root.AddChild(child)
	root.X = 100
	child.X = 10

	tr.MarkDirty(root)
	if tr.DirtyCount() != 2 {
		t.Fatalf("DirtyCount = %d, want 2", tr.DirtyCount())
	}
	tr.Update(root)
	assertNear(t, "root.tx", root.worldMatrix[4], 100)
	assertNear(t, "child.tx", child.worldMatrix[4], 110)
	if root.dirty || child.dirty {
		t.Error("Update left nodes flagged dirty")
	}
}

func TestMarkDirtyIdempotent(t *testing.T) {
	tr := NewTransformer()
	root := NewGroup("root")
	child := NewGroup("child")
	root.AddChild(child)

	tr.MarkDirty(root)
	count := tr.DirtyCount()
	tr.MarkDirty(root)
	if tr.DirtyCount() != count {
		t.Errorf("repeated MarkDirty grew the dirty set: %d → %d", count, tr.DirtyCount())
	}
}

// --- Update ---

func TestUpdateNoopWhenClean(t *testing.T) {
	tr := NewTransformer()
	root := NewGroup("root")
	child := NewGroup("child")
	root.AddChild(child)
	tr.MarkDirty(root)
	tr.Update(root)

	// Mutate a field directly without marking: update must not observe it.
	child.X = 999
	tr.Update(root)
	assertNear(t, "child.tx (stale)", child.worldMatrix[4], 0)
}

func TestUpdateDropsDetachedNodes(t *testing.T) {
	tr := NewTransformer()
	root := NewGroup("root")
	child := NewGroup("child")
	root.AddChild(child)

	tr.MarkDirty(root)
	root.RemoveChild(child)
	tr.Update(root)

	// The detached child can never be drained by walking root; its entry
	// must not keep the dirty set non-empty forever.
	if tr.DirtyCount() != 0 {
		t.Fatalf("DirtyCount after Update = %d, want 0", tr.DirtyCount())
	}
}

func TestUpdateParentChild(t *testing.T) {
	tr := NewTransformer()
	parent := NewGroup("parent")
	child := NewGroup("child")
	parent.AddChild(child)
	parent.X = 100
	child.X = 10

	tr.MarkDirty(parent)
	tr.Update(parent)

	assertNear(t, "parent.tx", parent.worldMatrix[4], 100)
	assertNear(t, "child.tx", child.worldMatrix[4], 110)
	if tr.DirtyCount() != 0 {
		t.Errorf("dirty set not drained: %d", tr.DirtyCount())
	}
}

func TestUpdateWorldComposition(t *testing.T) {
	tr := NewTransformer()
	root := NewGroup("root")
	mid := NewGroup("mid")
	leaf := NewGroup("leaf")
	root.AddChild(mid)
	mid.AddChild(leaf)

	root.X, root.Y = 5, 7
	mid.Rotation = math.Pi / 4
	mid.ScaleX, mid.ScaleY = 2, 2
	leaf.X, leaf.Y = 3, -3

	tr.MarkDirty(root)
	tr.Update(root)

	// worldMatrix must equal parent.worldMatrix ∘ localMatrix at every node.
	assertMatrix(t, "mid.world", mid.worldMatrix, mulAffine(root.worldMatrix, mid.localMatrix))
	assertMatrix(t, "leaf.world", leaf.worldMatrix, mulAffine(mid.worldMatrix, leaf.localMatrix))
	assertMatrix(t, "root.world", root.worldMatrix, root.localMatrix)
}

func TestEnsureWorldForcesParentFirst(t *testing.T) {
	tr := NewTransformer()
	parent := NewGroup("parent")
	child := NewGroup("child")
	parent.AddChild(child)
	parent.X = 100
	child.X = 10
	tr.MarkDirty(parent)

	// Direct lookup on the child before any Update: the parent chain must be
	// recomputed first.
	m := tr.EnsureWorld(child)
	assertNear(t, "child.tx", m[4], 110)
	if parent.dirty {
		t.Error("parent should have been recomputed before the child")
	}
}

// --- Coordinate conversion ---

func TestLocalWorldRoundtrip(t *testing.T) {
	tr := NewTransformer()
	parent := NewGroup("parent")
	child := NewGroup("child")
	parent.AddChild(child)

	parent.X = 100
	parent.Y = 50
	child.X = 10
	child.Y = 20
	child.ScaleX = 2
	child.ScaleY = 3
	child.Rotation = math.Pi / 6
	tr.MarkDirty(parent)

	p := Point{X: 150, Y: 80}
	back := tr.LocalToWorld(child, tr.WorldToLocal(child, p))
	assertNear(t, "roundtrip.x", back.X, p.X)
	assertNear(t, "roundtrip.y", back.Y, p.Y)
}

func TestWorldToLocalZeroScale(t *testing.T) {
	tr := NewTransformer()
	n := NewGroup("test")
	n.ScaleX = 0
	n.ScaleY = 0
	tr.MarkDirty(n)

	// Singular world matrix inverts to identity: no panic, point unchanged.
	p := tr.WorldToLocal(n, Point{X: 100, Y: 200})
	assertNear(t, "lx", p.X, 100)
	assertNear(t, "ly", p.Y, 200)
}

// --- Mutation helpers ---

func TestTranslateNode(t *testing.T) {
	tr := NewTransformer()
	n := NewGroup("test")
	n.X, n.Y = 10, 20
	tr.MarkDirty(n)
	tr.Update(n)

	tr.TranslateNode(n, 5, -5)
	assertNear(t, "x", n.X, 15)
	assertNear(t, "y", n.Y, 15)
	if !n.dirty {
		t.Error("TranslateNode should mark dirty")
	}
}

func TestScaleNodeAboutOrigin(t *testing.T) {
	tr := NewTransformer()
	n := NewGroup("test")
	n.X, n.Y = 100, 100

	// Doubling about (50, 100): x moves from 100 to 150, y stays.
	tr.ScaleNode(n, 2, 2, &Point{X: 50, Y: 100})
	assertNear(t, "x", n.X, 150)
	assertNear(t, "y", n.Y, 100)
	assertNear(t, "sx", n.ScaleX, 2)
	assertNear(t, "sy", n.ScaleY, 2)
}

func TestScaleNodeZeroAccepted(t *testing.T) {
	tr := NewTransformer()
	n := NewGroup("test")
	tr.ScaleNode(n, 0, 0, nil)
	tr.Update(n)
	// Degenerate input is accepted and produces a singular matrix.
	assertNear(t, "world.a", n.worldMatrix[0], 0)
}

func TestRotateNodeAboutOrigin(t *testing.T) {
	tr := NewTransformer()
	n := NewGroup("test")
	n.X, n.Y = 10, 0

	// Quarter turn about the origin: (10, 0) → (0, 10).
	tr.RotateNode(n, math.Pi/2, &Point{})
	assertNear(t, "x", n.X, 0)
	assertNear(t, "y", n.Y, 10)
	assertNear(t, "rot", n.Rotation, math.Pi/2)
}

// --- Benchmarks ---

func BenchmarkUpdate10k(b *testing.B) {
	tr := NewTransformer()
	root := NewGroup("root")
	for i := 0; i < 100; i++ {
		parent := NewGroup("")
		parent.X = float64(i)
		root.AddChild(parent)
		for j := 0; j < 100; j++ {
			child := NewGroup("")
			child.X = float64(j)
			parent.AddChild(child)
		}
	}
	tr.MarkDirty(root)
	tr.Update(root)

	b.ReportAllocs()
	for b.Loop() {
		tr.MarkDirty(root)
		tr.Update(root)
	}
}

func BenchmarkUpdateClean(b *testing.B) {
	tr := NewTransformer()
	root := NewGroup("root")
	for i := 0; i < 1000; i++ {
		root.AddChild(NewGroup(""))
	}
	tr.MarkDirty(root)
	tr.Update(root)

	b.ReportAllocs()
	for b.Loop() {
		// Empty dirty set, near-zero cost expected.
		tr.Update(root)
	}
}
