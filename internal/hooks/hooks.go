// Package hooks defines the callback protocol between a problem
// definition and the time-stepping driver.
//
// The driver owns the time loop and invokes each slot of a [Registry]
// at a fixed point, passing the shared run-time [Context]. A hook reads
// only the context values it cares about and may return [Updates],
// which the driver deep-merges into [Context.Extra] so later hooks and
// sub-solves can see them. Every slot has a harmless default, so a
// problem overrides only what it needs.
package hooks

import (
	"github.com/oseen-project/oseen/internal/bcs"
	"github.com/oseen-project/oseen/internal/field"
	"github.com/oseen-project/oseen/internal/mesh"
	"github.com/oseen-project/oseen/internal/params"
)

// Updates is the set of new or changed context entries a hook returns.
// A nil return means no change.
type Updates = params.Set

// Context is the shared run-time namespace. The driver guarantees the
// fixed fields below; anything a PreSolve hook adds lives in Extra and
// must not be assumed present by other hooks.
type Context struct {
	T     float64
	Tstep int

	Mesh *mesh.Mesh
	V    *field.Space // velocity component space
	Q    *field.Space // pressure space

	// Fields holds the current solution per unknown: u0, u1, p and
	// any scalar components.
	Fields map[string]*field.Function

	// SysComp lists every unknown; UComp the velocity components only.
	SysComp []string
	UComp   []string

	Params params.Set
	Extra  params.Set
}

// Field returns the solution function for an unknown, or nil.
func (c *Context) Field(name string) *field.Function {
	return c.Fields[name]
}

// Apply merges hook updates into the open namespace.
func (c *Context) Apply(u Updates) {
	if len(u) == 0 {
		return
	}
	if c.Extra == nil {
		c.Extra = params.Set{}
	}
	c.Extra = params.Merge(c.Extra, u)
}

// Func is the common hook shape.
type Func func(*Context) (Updates, error)

// Registry holds every named callback slot the driver calls. The zero
// value is not usable; construct with NewRegistry and override fields.
type Registry struct {
	// Mesh produces the computational domain from resolution
	// parameters, before any space or field exists.
	Mesh func(p params.Set) (*mesh.Mesh, error)

	// Initialize seeds the solution fields before time-stepping.
	Initialize Func

	// CreateBCs returns the Dirichlet constraints per unknown.
	CreateBCs func(*Context) (bcs.Table, error)

	// BodyForce supplies the momentum forcing vector.
	BodyForce func(*Context) []float64

	// ScalarSources supplies one source value per scalar component.
	ScalarSources func(*Context) map[string]float64

	// PreSolve runs once before the time loop; returned updates seed
	// the shared namespace for the whole run.
	PreSolve Func

	// StartTimestep runs at the top of every timestep, before any
	// sub-solve; typically updates time-dependent boundary data.
	StartTimestep Func

	// TentativeVelocity, Pressure and Scalar run immediately before
	// the respective sub-solves within a timestep.
	TentativeVelocity Func
	Pressure          Func
	Scalar            Func

	// Temporal runs after all sub-solves of a timestep.
	Temporal Func

	// AtEnd runs once after the time loop terminates.
	AtEnd Func
}

func noop(*Context) (Updates, error) { return nil, nil }

// NewRegistry returns a registry with every slot bound to its default:
// a unit-square mesh from Nx/Ny, zero forcing, empty constraint lists
// and no-op hooks.
func NewRegistry() *Registry {
	return &Registry{
		Mesh: func(p params.Set) (*mesh.Mesh, error) {
			nx, ok := p.Int("Nx")
			if !ok {
				nx = 10
			}
			ny, ok := p.Int("Ny")
			if !ok {
				ny = 10
			}
			return mesh.UnitSquare(nx, ny)
		},
		Initialize: noop,
		CreateBCs: func(c *Context) (bcs.Table, error) {
			return bcs.DefaultTable(c.SysComp), nil
		},
		BodyForce: func(c *Context) []float64 {
			return make([]float64, len(c.UComp))
		},
		ScalarSources: func(c *Context) map[string]float64 {
			src := make(map[string]float64)
			for _, ci := range c.Params.Strings("scalar_components") {
				src[ci] = 0
			}
			return src
		},
		PreSolve:          func(*Context) (Updates, error) { return Updates{}, nil },
		StartTimestep:     noop,
		TentativeVelocity: noop,
		Pressure:          noop,
		Scalar:            noop,
		Temporal:          noop,
		AtEnd:             noop,
	}
}
