// Package mesh builds the structured triangulated domains consumed by
// problem definitions. Meshes are plain vertex/cell tables; all finite
// element structure on top of them belongs to the external framework.
package mesh

import "errors"

// Eps is the geometric tolerance used by boundary and sub-domain
// predicates.
const Eps = 1e-12

var ErrResolution = errors.New("mesh: resolution must be positive in both directions")

// Point is a vertex position in the plane.
type Point struct {
	X, Y float64
}

// Cell is a triangle referencing three vertex indices.
type Cell [3]int

// Mesh is a triangulated planar domain with one integer marker per cell.
type Mesh struct {
	Vertices []Point
	Cells    []Cell

	markers  []int
	boundary []bool
}

// UnitSquare triangulates the unit square with nx by ny quads, each
// split into two triangles. All cell markers start at zero.
func UnitSquare(nx, ny int) (*Mesh, error) {
	if nx < 1 || ny < 1 {
		return nil, ErrResolution
	}

	m := &Mesh{
		Vertices: make([]Point, 0, (nx+1)*(ny+1)),
		Cells:    make([]Cell, 0, 2*nx*ny),
	}
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			m.Vertices = append(m.Vertices, Point{
				X: float64(i) / float64(nx),
				Y: float64(j) / float64(ny),
			})
		}
	}

	stride := nx + 1
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			v00 := j*stride + i
			v10 := v00 + 1
			v01 := v00 + stride
			v11 := v01 + 1
			m.Cells = append(m.Cells, Cell{v00, v10, v11}, Cell{v00, v11, v01})
		}
	}

	m.markers = make([]int, len(m.Cells))
	m.computeBoundary()
	return m, nil
}

// Centroid returns the barycenter of a cell.
func (m *Mesh) Centroid(c Cell) Point {
	var p Point
	for _, v := range c {
		p.X += m.Vertices[v].X
		p.Y += m.Vertices[v].Y
	}
	p.X /= 3
	p.Y /= 3
	return p
}

func (m *Mesh) NumVertices() int { return len(m.Vertices) }
func (m *Mesh) NumCells() int    { return len(m.Cells) }

// Marker returns the marker of cell i.
func (m *Mesh) Marker(i int) int { return m.markers[i] }

// MarkCells assigns marker to every cell whose centroid satisfies the
// predicate and returns the number of cells marked.
func (m *Mesh) MarkCells(inside func(Point) bool, marker int) int {
	n := 0
	for i, c := range m.Cells {
		if inside(m.Centroid(c)) {
			m.markers[i] = marker
			n++
		}
	}
	return n
}

// SubMesh extracts the cells carrying the given marker into a new mesh
// with compacted vertex numbering. The parent mesh is left untouched.
func (m *Mesh) SubMesh(marker int) *Mesh {
	remap := make(map[int]int)
	sub := &Mesh{}

	for i, c := range m.Cells {
		if m.markers[i] != marker {
			continue
		}
		var nc Cell
		for k, v := range c {
			idx, ok := remap[v]
			if !ok {
				idx = len(sub.Vertices)
				remap[v] = idx
				sub.Vertices = append(sub.Vertices, m.Vertices[v])
			}
			nc[k] = idx
		}
		sub.Cells = append(sub.Cells, nc)
	}

	sub.markers = make([]int, len(sub.Cells))
	sub.computeBoundary()
	return sub
}

// Bounds returns the axis-aligned extent of the mesh.
func (m *Mesh) Bounds() (min, max Point) {
	if len(m.Vertices) == 0 {
		return
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		if v.X < min.X {
			min.X = v.X
		}
		if v.Y < min.Y {
			min.Y = v.Y
		}
		if v.X > max.X {
			max.X = v.X
		}
		if v.Y > max.Y {
			max.Y = v.Y
		}
	}
	return
}

// Covers reports whether any cell centroid lies inside the axis-aligned
// box spanned by lo and hi.
func (m *Mesh) Covers(lo, hi Point) bool {
	for _, c := range m.Cells {
		p := m.Centroid(c)
		if p.X > lo.X-Eps && p.X < hi.X+Eps && p.Y > lo.Y-Eps && p.Y < hi.Y+Eps {
			return true
		}
	}
	return false
}

// IsBoundary reports whether vertex i lies on the mesh boundary.
func (m *Mesh) IsBoundary(i int) bool { return m.boundary[i] }

// BoundaryVertices returns the indices of all boundary vertices.
func (m *Mesh) BoundaryVertices() []int {
	out := make([]int, 0)
	for i, b := range m.boundary {
		if b {
			out = append(out, i)
		}
	}
	return out
}

type edge struct{ a, b int }

func orderedEdge(a, b int) edge {
	if a > b {
		a, b = b, a
	}
	return edge{a, b}
}

// computeBoundary marks vertices on edges referenced by a single cell.
func (m *Mesh) computeBoundary() {
	count := make(map[edge]int)
	for _, c := range m.Cells {
		count[orderedEdge(c[0], c[1])]++
		count[orderedEdge(c[1], c[2])]++
		count[orderedEdge(c[2], c[0])]++
	}
	m.boundary = make([]bool, len(m.Vertices))
	for e, n := range count {
		if n == 1 {
			m.boundary[e.a] = true
			m.boundary[e.b] = true
		}
	}
}
