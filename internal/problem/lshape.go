package problem

import (
	"math"

	"github.com/oseen-project/oseen/internal/bcs"
	"github.com/oseen-project/oseen/internal/field"
	"github.com/oseen-project/oseen/internal/hooks"
	"github.com/oseen-project/oseen/internal/mesh"
	"github.com/oseen-project/oseen/internal/params"
)

// lshape is pressure-driven flow through an L-shaped domain: the unit
// square with the sub-square above (0.25, 0.25) carved out. A pulsating
// pressure drives fluid from the inlet at the top edge to the outlet at
// the right edge.
type lshape struct {
	// inletT is the boundary-data time, advanced by the
	// StartTimestep hook rather than read off the clock directly.
	inletT float64
}

const lshapeRe = 200.0

func NewLshape() *Problem {
	ls := &lshape{}

	reg := hooks.NewRegistry()
	reg.Mesh = ls.mesh
	reg.CreateBCs = ls.createBCs
	reg.PreSolve = ls.preSolve
	reg.StartTimestep = ls.startTimestep
	reg.Temporal = ls.temporal

	return &Problem{
		Name:        "lshape",
		Description: "pulsating pressure-driven flow in an L-shaped domain",
		Parameters: params.Set{
			"nu":                   1.0 / lshapeRe,
			"Re":                   lshapeRe,
			"T":                    10.0,
			"dt":                   0.01,
			"Nx":                   40,
			"Ny":                   40,
			"folder":               "Lshape_results",
			"max_iter":             1,
			"plot_interval":        1,
			"velocity_degree":      2,
			"velocity_update_type": "lumping",
			"use_krylov_solvers":   true,
		},
		Hooks: reg,
	}
}

// mesh restricts the unit square to the L by marking cells in the
// upper-right sub-square and extracting the rest.
func (ls *lshape) mesh(p params.Set) (*mesh.Mesh, error) {
	nx := p.MustInt("Nx")
	ny := p.MustInt("Ny")
	m, err := mesh.UnitSquare(nx, ny)
	if err != nil {
		return nil, err
	}
	m.MarkCells(func(pt mesh.Point) bool {
		return pt.X > 0.25-mesh.Eps && pt.Y > 0.25-mesh.Eps
	}, 1)
	return m.SubMesh(0), nil
}

func inlet(p mesh.Point, onBoundary bool) bool {
	return onBoundary && math.Abs(p.Y-1) < mesh.Eps
}

func outlet(p mesh.Point, onBoundary bool) bool {
	return onBoundary && math.Abs(p.X-1) < mesh.Eps
}

func walls(p mesh.Point, onBoundary bool) bool {
	if !onBoundary {
		return false
	}
	if p.X < mesh.Eps || p.Y < mesh.Eps {
		return true
	}
	// Re-entrant corner edges of the L.
	return p.X > 0.25-5*mesh.Eps && p.Y > 0.25-5*mesh.Eps
}

func (ls *lshape) createBCs(c *hooks.Context) (bcs.Table, error) {
	table := bcs.DefaultTable(c.SysComp)

	bc0 := bcs.Constant(c.V, 0, walls)
	pc0 := bcs.TimeDependent(c.Q, ls.inletPressure, inlet)
	pc1 := bcs.Constant(c.Q, 0, outlet)

	table["u0"] = []*bcs.Dirichlet{bc0}
	table["u1"] = []*bcs.Dirichlet{bc0}
	table["p"] = []*bcs.Dirichlet{pc0, pc1}
	return table, nil
}

// inletPressure ignores the time it is handed: the boundary data is
// pinned to the value set by the last StartTimestep hook, matching the
// driver's update ordering.
func (ls *lshape) inletPressure(float64) float64 {
	return math.Sin(math.Pi * ls.inletT)
}

// preSolve adds a piecewise-linear vector space and a work function for
// velocity visualization to the shared namespace.
func (ls *lshape) preSolve(c *hooks.Context) (hooks.Updates, error) {
	Vv := field.NewVectorSpace("Vv", c.Mesh, 1, len(c.UComp))
	return hooks.Updates{
		"Vv": Vv,
		"uv": field.NewFunction("uv", Vv),
	}, nil
}

func (ls *lshape) startTimestep(c *hooks.Context) (hooks.Updates, error) {
	ls.inletT = c.T
	return nil, nil
}

// temporal gathers the velocity components into the visualization
// function every plot_interval steps.
func (ls *lshape) temporal(c *hooks.Context) (hooks.Updates, error) {
	interval := c.Params.MustInt("plot_interval")
	if interval <= 0 || c.Tstep%interval != 0 {
		return nil, nil
	}
	uv, ok := c.Extra["uv"].(*field.Function)
	if !ok {
		return nil, nil
	}
	for comp, name := range c.UComp {
		u := c.Field(name)
		for i := 0; i < c.Mesh.NumVertices(); i++ {
			uv.SetVertex(i, comp, u.VertexValue(i, 0))
		}
	}
	return nil, nil
}
