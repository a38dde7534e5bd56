// Package field carries the solution-side objects the driver hands to
// hooks: function-space descriptors and named coefficient vectors. The
// actual finite element bases live in the external framework; these
// types only preserve the identity and data hooks need.
package field

import (
	"fmt"

	"github.com/oseen-project/oseen/internal/mesh"
)

// Space describes a scalar or vector function space on a mesh.
type Space struct {
	Name   string
	Degree int
	Dim    int
	Mesh   *mesh.Mesh
}

// NewSpace builds a degree-d space with one value component.
func NewSpace(name string, m *mesh.Mesh, degree int) *Space {
	return &Space{Name: name, Degree: degree, Dim: 1, Mesh: m}
}

// NewVectorSpace builds a degree-d space with dim value components.
func NewVectorSpace(name string, m *mesh.Mesh, degree, dim int) *Space {
	return &Space{Name: name, Degree: degree, Dim: dim, Mesh: m}
}

// NumDofs is the vertex-based coefficient count this layer tracks.
// Higher-order spaces carry more unknowns in the external framework;
// hooks only ever address the vertex values.
func (s *Space) NumDofs() int {
	return s.Mesh.NumVertices() * s.Dim
}

// Function is a named coefficient vector on a Space.
type Function struct {
	Name  string
	Space *Space

	values []float64
}

func NewFunction(name string, s *Space) *Function {
	return &Function{Name: name, Space: s, values: make([]float64, s.NumDofs())}
}

// Values exposes the coefficient slice; hooks mutate it in place.
func (f *Function) Values() []float64 { return f.values }

// Assign copies the coefficients of src into f.
func (f *Function) Assign(src *Function) error {
	if len(src.values) != len(f.values) {
		return fmt.Errorf("field: assign %s to %s: size %d != %d",
			src.Name, f.Name, len(src.values), len(f.values))
	}
	copy(f.values, src.values)
	return nil
}

// SetAll fills every coefficient with v.
func (f *Function) SetAll(v float64) {
	for i := range f.values {
		f.values[i] = v
	}
}

// Probe evaluates the component values at the vertex nearest to p.
func (f *Function) Probe(p mesh.Point) []float64 {
	m := f.Space.Mesh
	best, bestDist := 0, -1.0
	for i, v := range m.Vertices {
		dx, dy := v.X-p.X, v.Y-p.Y
		d := dx*dx + dy*dy
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	out := make([]float64, f.Space.Dim)
	for c := 0; c < f.Space.Dim; c++ {
		out[c] = f.values[best*f.Space.Dim+c]
	}
	return out
}

// SetVertex writes one component value at vertex i.
func (f *Function) SetVertex(i, component int, v float64) {
	f.values[i*f.Space.Dim+component] = v
}

// VertexValue reads one component value at vertex i.
func (f *Function) VertexValue(i, component int) float64 {
	return f.values[i*f.Space.Dim+component]
}
