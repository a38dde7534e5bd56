package problem

import (
	"math"

	"github.com/oseen-project/oseen/internal/bcs"
	"github.com/oseen-project/oseen/internal/hooks"
	"github.com/oseen-project/oseen/internal/mesh"
	"github.com/oseen-project/oseen/internal/params"
)

// NewCavity is the lid-driven cavity on the unit square: the top wall
// slides with unit velocity, every other wall is no-slip. It keeps the
// default mesh hook and overrides only the boundary conditions, which
// makes it the smallest complete problem definition.
func NewCavity() *Problem {
	reg := hooks.NewRegistry()
	reg.CreateBCs = cavityBCs

	return &Problem{
		Name:        "cavity",
		Description: "lid-driven cavity flow on the unit square",
		Parameters: params.Set{
			"nu":            0.001,
			"T":             1.0,
			"dt":            0.001,
			"Nx":            50,
			"Ny":            50,
			"folder":        "cavity_results",
			"plot_interval": 20,
		},
		Hooks: reg,
	}
}

func lid(p mesh.Point, onBoundary bool) bool {
	return onBoundary && math.Abs(p.Y-1) < mesh.Eps
}

func noslip(p mesh.Point, onBoundary bool) bool {
	return onBoundary && !lid(p, onBoundary)
}

func cavityBCs(c *hooks.Context) (bcs.Table, error) {
	table := bcs.DefaultTable(c.SysComp)

	bc0 := bcs.Constant(c.V, 0, noslip)
	table["u0"] = []*bcs.Dirichlet{bcs.Constant(c.V, 1, lid), bc0}
	table["u1"] = []*bcs.Dirichlet{bcs.Constant(c.V, 0, lid), bc0}
	return table, nil
}
