// Package bcs models Dirichlet boundary constraints as opaque
// predicate/value pairs, the only view of boundary conditions this
// configuration layer needs.
package bcs

import (
	"github.com/oseen-project/oseen/internal/field"
	"github.com/oseen-project/oseen/internal/mesh"
)

// Dirichlet prescribes a value on the boundary points selected by On.
// Value receives the current simulation time, so time-varying data
// (e.g. a pulsating inlet pressure) is just a closure over t.
type Dirichlet struct {
	Space *field.Space
	On    func(p mesh.Point, onBoundary bool) bool
	Value func(t float64) float64
}

// Constant builds a Dirichlet condition with a time-independent value.
func Constant(s *field.Space, v float64, on func(mesh.Point, bool) bool) *Dirichlet {
	return &Dirichlet{Space: s, On: on, Value: func(float64) float64 { return v }}
}

// TimeDependent builds a Dirichlet condition whose value is evaluated
// each time Apply runs.
func TimeDependent(s *field.Space, v func(t float64) float64, on func(mesh.Point, bool) bool) *Dirichlet {
	return &Dirichlet{Space: s, On: on, Value: v}
}

// Apply writes the prescribed value into every selected boundary vertex
// of f at time t.
func (d *Dirichlet) Apply(f *field.Function, t float64) {
	m := d.Space.Mesh
	v := d.Value(t)
	for i, p := range m.Vertices {
		if !d.On(p, m.IsBoundary(i)) {
			continue
		}
		for c := 0; c < f.Space.Dim; c++ {
			f.SetVertex(i, c, v)
		}
	}
}

// Table maps each unknown name to its ordered list of constraints.
type Table map[string][]*Dirichlet

// DefaultTable maps every unknown to an empty list: no constraints.
// Real problems override the CreateBCs hook instead.
func DefaultTable(components []string) Table {
	t := make(Table, len(components))
	for _, ui := range components {
		t[ui] = []*Dirichlet{}
	}
	return t
}
