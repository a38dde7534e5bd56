package field

import (
	"testing"

	"github.com/oseen-project/oseen/internal/mesh"
)

func TestProbeNearestVertex(t *testing.T) {
	m, err := mesh.UnitSquare(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	V := NewSpace("V", m, 1)
	u := NewFunction("u0", V)

	// Center vertex of the 3x3 grid is index 4.
	u.SetVertex(4, 0, 2.5)

	got := u.Probe(mesh.Point{X: 0.51, Y: 0.49})
	if len(got) != 1 || got[0] != 2.5 {
		t.Errorf("expected probe 2.5 at center, got %v", got)
	}
}

func TestVectorComponents(t *testing.T) {
	m, err := mesh.UnitSquare(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	Vv := NewVectorSpace("Vv", m, 1, 2)
	uv := NewFunction("uv", Vv)

	if Vv.NumDofs() != 18 {
		t.Errorf("expected 18 dofs, got %d", Vv.NumDofs())
	}

	uv.SetVertex(4, 1, -1.0)
	if got := uv.VertexValue(4, 1); got != -1.0 {
		t.Errorf("expected -1 in second component, got %g", got)
	}
	if got := uv.VertexValue(4, 0); got != 0 {
		t.Errorf("first component should be untouched, got %g", got)
	}
}

func TestAssign(t *testing.T) {
	m, err := mesh.UnitSquare(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	V := NewSpace("V", m, 1)

	a := NewFunction("a", V)
	b := NewFunction("b", V)
	a.SetAll(3)
	if err := b.Assign(a); err != nil {
		t.Fatal(err)
	}
	if b.VertexValue(0, 0) != 3 {
		t.Error("assign did not copy values")
	}

	Vv := NewVectorSpace("Vv", m, 1, 2)
	c := NewFunction("c", Vv)
	if err := c.Assign(a); err == nil {
		t.Error("expected size mismatch error")
	}
}
