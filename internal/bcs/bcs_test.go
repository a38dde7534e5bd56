package bcs

import (
	"math"
	"testing"

	"github.com/oseen-project/oseen/internal/field"
	"github.com/oseen-project/oseen/internal/mesh"
)

func TestDefaultTable(t *testing.T) {
	components := []string{"u0", "u1", "p"}
	table := DefaultTable(components)

	if len(table) != len(components) {
		t.Fatalf("expected %d entries, got %d", len(components), len(table))
	}
	for _, ui := range components {
		list, ok := table[ui]
		if !ok {
			t.Errorf("missing entry for %s", ui)
		}
		if len(list) != 0 {
			t.Errorf("expected empty list for %s, got %d entries", ui, len(list))
		}
	}
}

func TestConstantApply(t *testing.T) {
	m, err := mesh.UnitSquare(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	V := field.NewSpace("V", m, 1)
	u := field.NewFunction("u0", V)

	walls := func(p mesh.Point, onBoundary bool) bool {
		return onBoundary && p.X < mesh.Eps
	}
	bc := Constant(V, 3.0, walls)
	bc.Apply(u, 0)

	for i, p := range m.Vertices {
		want := 0.0
		if m.IsBoundary(i) && p.X < mesh.Eps {
			want = 3.0
		}
		if got := u.VertexValue(i, 0); got != want {
			t.Errorf("vertex (%f, %f): expected %f, got %f", p.X, p.Y, want, got)
		}
	}
}

func TestTimeDependentApply(t *testing.T) {
	m, err := mesh.UnitSquare(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	Q := field.NewSpace("Q", m, 1)
	p := field.NewFunction("p", Q)

	inlet := func(pt mesh.Point, onBoundary bool) bool {
		return onBoundary && math.Abs(pt.Y-1) < mesh.Eps
	}
	bc := TimeDependent(Q, func(t float64) float64 { return math.Sin(math.Pi * t) }, inlet)

	bc.Apply(p, 0.5)
	want := math.Sin(math.Pi * 0.5)
	found := false
	for i, pt := range m.Vertices {
		if inlet(pt, m.IsBoundary(i)) {
			found = true
			if got := p.VertexValue(i, 0); math.Abs(got-want) > 1e-15 {
				t.Errorf("expected %f at inlet, got %f", want, got)
			}
		}
	}
	if !found {
		t.Fatal("no inlet vertices selected")
	}
}
