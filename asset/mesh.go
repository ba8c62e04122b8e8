// Package asset provides mesh data for the board: procedural meshes, a
// Wavefront OBJ reader and an asynchronous loader whose results the frame
// loop polls without blocking.
package asset

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidMesh is returned by Mesh.Validate.
var ErrInvalidMesh = errors.New("asset: invalid mesh")

// Mesh is an indexed triangle list. Vertices holds xyz triples.
type Mesh struct {
	Vertices []float32
	Indices  []uint16
}

// VertexCount returns the number of vertices.
func (m Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Validate checks that the mesh is a non-empty triangle list whose indices
// are in range.
func (m Mesh) Validate() error {
	switch {
	case len(m.Vertices) == 0 || len(m.Indices) == 0:
		return fmt.Errorf("%w: empty", ErrInvalidMesh)
	case len(m.Vertices)%3 != 0:
		return fmt.Errorf("%w: %d vertex floats", ErrInvalidMesh, len(m.Vertices))
	case len(m.Indices)%3 != 0:
		return fmt.Errorf("%w: %d indices", ErrInvalidMesh, len(m.Indices))
	}
	n := m.VertexCount()
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d at %d exceeds %d vertices", ErrInvalidMesh, idx, i, n)
		}
	}
	return nil
}

func (m *Mesh) addVertex(x, y, z float64) uint16 {
	m.Vertices = append(m.Vertices, float32(x), float32(y), float32(z))
	return uint16(m.VertexCount() - 1)
}

func (m *Mesh) addTriangle(a, b, c uint16) {
	m.Indices = append(m.Indices, a, b, c)
}

// Polygon builds a fan-triangulated convex polygon through points.
// The board plane is Polygon of the slot positions.
func Polygon(points []mgl64.Vec3) Mesh {
	var m Mesh
	for _, p := range points {
		m.addVertex(p[0], p[1], p[2])
	}
	for i := 0; i+2 < len(points); i++ {
		m.addTriangle(0, uint16(i+1), uint16(i+2))
	}
	return m
}

// pawnProfile is the (radius, depth) silhouette of a piece, base first.
var pawnProfile = [][2]float64{
	{0.25, 0},
	{0.25, 0.05},
	{0.18, 0.08},
	{0.09, 0.12},
	{0.07, 0.30},
	{0.15, 0.33},
	{0.12, 0.38},
	{0.14, 0.44},
	{0.08, 0.52},
}

// pawnTop is the depth of the apex.
const pawnTop = 0.55

// Pawn builds a piece by revolving a pawn silhouette around the z axis
// with the given number of segments (at least 3). The base lies at z = 0
// and the piece extends towards -z; the 180° flip applied when placing a
// piece stands it up facing the top camera.
func Pawn(segments int) Mesh {
	segments = max(segments, 3)
	var m Mesh
	base := m.addVertex(0, 0, 0)
	step := 2 * math.Pi / float64(segments)
	for _, p := range pawnProfile {
		for s := 0; s < segments; s++ {
			sin, cos := math.Sincos(step * float64(s))
			m.addVertex(p[0]*cos, p[0]*sin, -p[1])
		}
	}
	apex := m.addVertex(0, 0, -pawnTop)

	ring := func(k, s int) uint16 {
		return uint16(1 + k*segments + s%segments)
	}
	last := len(pawnProfile) - 1
	for s := 0; s < segments; s++ {
		m.addTriangle(base, ring(0, s+1), ring(0, s))
		for k := 0; k < last; k++ {
			m.addTriangle(ring(k, s), ring(k, s+1), ring(k+1, s+1))
			m.addTriangle(ring(k, s), ring(k+1, s+1), ring(k+1, s))
		}
		m.addTriangle(ring(last, s), ring(last, s+1), apex)
	}
	return m
}

// arrowLift raises the indicator above the board plane.
const arrowLift = 0.02

// Arrow builds a flat indicator in the z = arrowLift plane pointing
// along +y from the origin.
func Arrow() Mesh {
	var m Mesh
	const (
		shaft     = 0.05
		shaftLen  = 0.6
		headWidth = 0.15
		headLen   = 1.0
	)
	a := m.addVertex(-shaft, 0, arrowLift)
	b := m.addVertex(shaft, 0, arrowLift)
	c := m.addVertex(shaft, shaftLen, arrowLift)
	d := m.addVertex(-shaft, shaftLen, arrowLift)
	m.addTriangle(a, b, c)
	m.addTriangle(a, c, d)

	l := m.addVertex(-headWidth, shaftLen, arrowLift)
	r := m.addVertex(headWidth, shaftLen, arrowLift)
	tip := m.addVertex(0, headLen, arrowLift)
	m.addTriangle(l, r, tip)
	return m
}
