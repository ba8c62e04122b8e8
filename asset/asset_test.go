package asset

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolygonFan(t *testing.T) {
	pts := []mgl64.Vec3{{0, 0.5, 0}, {-0.5, 0, 0}, {0, -0.5, 0}, {0.5, 0, 0}, {0.3, 0.3, 0}}
	m := Polygon(pts)
	require.NoError(t, m.Validate())
	assert.Equal(t, 5, m.VertexCount())
	assert.Equal(t, []uint16{0, 1, 2, 0, 2, 3, 0, 3, 4}, m.Indices)
}

func TestProceduralMeshesValid(t *testing.T) {
	tests := []struct {
		name string
		mesh Mesh
	}{
		{"pawn", Pawn(16)},
		{"pawn minimum segments", Pawn(1)},
		{"arrow", Arrow()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.mesh.Validate())
			assert.Positive(t, tt.mesh.TriangleCount())
		})
	}
	p := Pawn(8)
	// base center + rings + apex
	assert.Equal(t, 1+len(pawnProfile)*8+1, p.VertexCount())
	assert.Equal(t, 8*(2+2*(len(pawnProfile)-1)), p.TriangleCount())
}

func TestMeshValidate(t *testing.T) {
	tests := []struct {
		name string
		mesh Mesh
	}{
		{"empty", Mesh{}},
		{"partial vertex", Mesh{Vertices: []float32{0, 0}, Indices: []uint16{0, 0, 0}}},
		{"partial triangle", Mesh{Vertices: []float32{0, 0, 0}, Indices: []uint16{0, 0}}},
		{"index out of range", Mesh{Vertices: []float32{0, 0, 0}, Indices: []uint16{0, 0, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.mesh.Validate(), ErrInvalidMesh)
		})
	}
}

const squareOBJ = `# unit square
o square
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
vt 0 0
f 1/1/1 2/1/1 3/1/1 4/1/1
f -4 -3 -2
`

func TestReadOBJ(t *testing.T) {
	m, err := ReadOBJ(strings.NewReader(squareOBJ))
	require.NoError(t, err)
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, []uint16{0, 1, 2, 0, 2, 3, 0, 1, 2}, m.Indices)
	assert.Equal(t, float32(1), m.Vertices[3])
}

func TestReadOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"short vertex", "v 1 2\n"},
		{"bad float", "v 1 x 2\n"},
		{"short face", "v 0 0 0\nf 1 1\n"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n"},
		{"forward reference", "v 0 0 0\nf 1 2 3\n"},
		{"bad corner", "v 0 0 0\nf a b c\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadOBJ(strings.NewReader(tt.src))
			assert.ErrorIs(t, err, ErrMalformedOBJ)
		})
	}

	_, err := ReadOBJ(strings.NewReader("v 0 0 0\n"))
	assert.ErrorIs(t, err, ErrInvalidMesh, "no faces")
}

// gatedSource blocks until its gate is closed.
type gatedSource struct {
	gate chan struct{}
	mesh Mesh
}

func (s gatedSource) Name() string { return "gated" }

func (s gatedSource) Load(ctx context.Context) (Mesh, error) {
	select {
	case <-s.gate:
		return s.mesh, nil
	case <-ctx.Done():
		return Mesh{}, ctx.Err()
	}
}

func TestLoaderReadiness(t *testing.T) {
	gate := make(chan struct{})
	l := NewLoader(nil)
	p := l.Load(context.Background(), gatedSource{gate: gate, mesh: Arrow()})

	assert.False(t, p.Ready())
	_, ok := p.Mesh()
	assert.False(t, ok)
	assert.NoError(t, p.Err())

	close(gate)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	m, err := p.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, Arrow(), m)
	assert.True(t, p.Ready())
	got, ok := p.Mesh()
	assert.True(t, ok)
	assert.Equal(t, m, got)
}

func TestLoaderFile(t *testing.T) {
	fsys := fstest.MapFS{"models/square.obj": {Data: []byte(squareOBJ)}}
	l := NewLoader(nil)
	ctx := context.Background()

	m, err := l.Load(ctx, File(fsys, "models/square.obj")).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, m.VertexCount())

	p := l.Load(ctx, File(fsys, "models/missing.obj"))
	_, err = p.Wait(ctx)
	require.Error(t, err)
	assert.False(t, p.Ready())
	assert.Error(t, p.Err())
	assert.Contains(t, err.Error(), "models/missing.obj")
}

func TestPendingWaitCancelled(t *testing.T) {
	l := NewLoader(nil)
	p := l.Load(context.Background(), gatedSource{gate: make(chan struct{})})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadyPending(t *testing.T) {
	p := Ready("arrow", Arrow())
	assert.True(t, p.Ready())
	assert.Equal(t, "arrow", p.Name())
	select {
	case <-p.Done():
	default:
		t.Fatal("Done not closed")
	}
}

func TestLoadAll(t *testing.T) {
	l := NewLoader(nil)
	meshes, err := l.LoadAll(context.Background(),
		Builtin("pawn", func() Mesh { return Pawn(6) }),
		Builtin("arrow", Arrow),
	)
	require.NoError(t, err)
	require.Len(t, meshes, 2)
	assert.Equal(t, Pawn(6), meshes[0])
	assert.Equal(t, Arrow(), meshes[1])

	_, err = l.LoadAll(context.Background(),
		Builtin("arrow", Arrow),
		Builtin("empty", func() Mesh { return Mesh{} }),
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidMesh))
}

func TestLoadGroup(t *testing.T) {
	l := NewLoader(nil)
	ctx := context.Background()
	pawn := Builtin("pawn", func() Mesh { return Pawn(6) })

	ps := l.LoadGroup(ctx, pawn, pawn, pawn)
	require.Len(t, ps, 3)
	for _, p := range ps {
		m, err := p.Wait(ctx)
		require.NoError(t, err)
		assert.Equal(t, Pawn(6), m)
		assert.Equal(t, "pawn", p.Name())
	}

	ps = l.LoadGroup(ctx, pawn, Builtin("empty", func() Mesh { return Mesh{} }))
	for _, p := range ps {
		_, err := p.Wait(ctx)
		assert.ErrorIs(t, err, ErrInvalidMesh, p.Name())
		assert.False(t, p.Ready())
	}
}
