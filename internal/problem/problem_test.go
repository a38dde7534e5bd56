package problem

import (
	"math"
	"testing"

	"github.com/oseen-project/oseen/internal/field"
	"github.com/oseen-project/oseen/internal/hooks"
	"github.com/oseen-project/oseen/internal/mesh"
	"github.com/oseen-project/oseen/internal/params"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	names := r.Names()
	if len(names) != 2 || names[0] != "cavity" || names[1] != "lshape" {
		t.Errorf("unexpected problem names: %v", names)
	}

	if _, err := r.Get("lshape"); err != nil {
		t.Errorf("expected lshape problem: %v", err)
	}
	if _, err := r.Get("backstep"); err == nil {
		t.Error("expected error for unknown problem")
	}
}

func TestMergedParameters(t *testing.T) {
	pb := NewLshape()
	p := pb.MergedParameters(params.Set{"dt": 0.005})

	if nu, _ := p.Float("nu"); nu != 1.0/200.0 {
		t.Errorf("expected nu 1/200, got %g", nu)
	}
	if dt, _ := p.Float("dt"); dt != 0.005 {
		t.Errorf("extra override lost, dt = %g", dt)
	}
	// Defaults not named by the problem survive.
	if v, _ := p.Int("checkpoint"); v != 10 {
		t.Errorf("expected default checkpoint 10, got %d", v)
	}
	if ks := p.Sub("krylov_solvers"); ks == nil {
		t.Error("expected krylov_solvers sub-table from defaults")
	}
}

func TestLshapeMeshExcludesSubSquare(t *testing.T) {
	pb := NewLshape()
	p := pb.MergedParameters(nil)

	m, err := pb.Hooks.Mesh(p)
	if err != nil {
		t.Fatal(err)
	}

	for _, c := range m.Cells {
		ct := m.Centroid(c)
		if ct.X > 0.25+mesh.Eps && ct.Y > 0.25+mesh.Eps {
			t.Fatalf("cell centroid (%f, %f) lies in the carved-out sub-square", ct.X, ct.Y)
		}
	}

	min, max := m.Bounds()
	if min.X > mesh.Eps || min.Y > mesh.Eps || max.X < 1-mesh.Eps || max.Y < 1-mesh.Eps {
		t.Errorf("L-shape should span the unit square extent, got [%v, %v]", min, max)
	}
}

func lshapeContext(t *testing.T, pb *Problem) *hooks.Context {
	t.Helper()
	p := pb.MergedParameters(nil)
	m, err := pb.Hooks.Mesh(p)
	if err != nil {
		t.Fatal(err)
	}
	V := field.NewSpace("V", m, 2)
	Q := field.NewSpace("Q", m, 1)
	sysComp := []string{"u0", "u1", "p"}
	fields := map[string]*field.Function{
		"u0": field.NewFunction("u0", V),
		"u1": field.NewFunction("u1", V),
		"p":  field.NewFunction("p", Q),
	}
	return &hooks.Context{
		Mesh: m, V: V, Q: Q,
		Fields:  fields,
		SysComp: sysComp,
		UComp:   []string{"u0", "u1"},
		Params:  p,
	}
}

func TestLshapeBCs(t *testing.T) {
	pb := NewLshape()
	ctx := lshapeContext(t, pb)

	table, err := pb.Hooks.CreateBCs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(table["u0"]) != 1 || len(table["u1"]) != 1 {
		t.Error("expected one wall condition per velocity component")
	}
	if len(table["p"]) != 2 {
		t.Fatalf("expected inlet and outlet pressure conditions, got %d", len(table["p"]))
	}
}

func TestLshapeInletPressureFollowsTimestepHook(t *testing.T) {
	pb := NewLshape()
	ctx := lshapeContext(t, pb)

	table, err := pb.Hooks.CreateBCs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	inletBC := table["p"][0]

	ctx.T = 0.5
	if _, err := pb.Hooks.StartTimestep(ctx); err != nil {
		t.Fatal(err)
	}
	pf := ctx.Field("p")
	inletBC.Apply(pf, ctx.T)

	want := math.Sin(math.Pi * 0.5)
	found := false
	for i, pt := range ctx.Mesh.Vertices {
		if !ctx.Mesh.IsBoundary(i) || math.Abs(pt.Y-1) > mesh.Eps {
			continue
		}
		found = true
		if got := pf.VertexValue(i, 0); math.Abs(got-want) > 1e-14 {
			t.Errorf("inlet vertex (%f, %f): expected %g, got %g", pt.X, pt.Y, want, got)
		}
	}
	if !found {
		t.Fatal("no inlet vertices on the L-shape")
	}
}

func TestLshapePreSolveAddsProjectionObjects(t *testing.T) {
	pb := NewLshape()
	ctx := lshapeContext(t, pb)

	up, err := pb.Hooks.PreSolve(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := up["Vv"].(*field.Space); !ok {
		t.Error("expected Vv space in pre_solve updates")
	}
	uv, ok := up["uv"].(*field.Function)
	if !ok {
		t.Fatal("expected uv function in pre_solve updates")
	}
	if uv.Space.Dim != 2 {
		t.Errorf("expected 2-component visualization function, got dim %d", uv.Space.Dim)
	}
}

func TestCavityBCs(t *testing.T) {
	pb := NewCavity()
	p := pb.MergedParameters(nil)

	m, err := pb.Hooks.Mesh(p)
	if err != nil {
		t.Fatal(err)
	}
	V := field.NewSpace("V", m, 2)
	ctx := &hooks.Context{
		Mesh: m, V: V, Q: field.NewSpace("Q", m, 1),
		SysComp: []string{"u0", "u1", "p"},
		UComp:   []string{"u0", "u1"},
		Params:  p,
	}

	table, err := pb.Hooks.CreateBCs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(table["u0"]) != 2 {
		t.Errorf("expected lid and no-slip conditions on u0, got %d", len(table["u0"]))
	}
	if len(table["p"]) != 0 {
		t.Error("cavity should leave pressure unconstrained")
	}

	u0 := field.NewFunction("u0", V)
	for _, bc := range table["u0"] {
		bc.Apply(u0, 0)
	}
	foundLid := false
	for i, pt := range m.Vertices {
		// Corners belong to the no-slip walls, applied last.
		if pt.X < mesh.Eps || pt.X > 1-mesh.Eps {
			continue
		}
		if m.IsBoundary(i) && math.Abs(pt.Y-1) < mesh.Eps {
			foundLid = true
			if got := u0.VertexValue(i, 0); got != 1 {
				t.Errorf("lid vertex (%f, %f): expected u0=1, got %g", pt.X, pt.Y, got)
			}
		}
	}
	if !foundLid {
		t.Fatal("no lid vertices found")
	}
}
