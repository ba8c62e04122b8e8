// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

type softwareMesh struct {
	vertices []mgl64.Vec3
	indices  []uint16
}

// SoftwareDevice is a CPU implementation of Device.
//
// Triangles are clipped against the near plane, rasterized at pixel
// centers without anti-aliasing and depth tested. The fragment color is
// the current program's color uniform, written without blending.
//
// Example:
//
//	target := render.NewPixmapTarget(640, 480)
//	dev := render.NewSoftwareDevice(target)
//	dev.Clear(gputypes.Color{})
type SoftwareDevice struct {
	target *PixmapTarget
	depth  []float64

	meshes map[MeshHandle]softwareMesh
	next   MeshHandle

	program *Program
	mats    map[string]f32.Mat4
	vecs    map[string][4]float32
}

// NewSoftwareDevice creates a device drawing into target.
func NewSoftwareDevice(target *PixmapTarget) *SoftwareDevice {
	d := &SoftwareDevice{
		target: target,
		meshes: make(map[MeshHandle]softwareMesh),
		mats:   make(map[string]f32.Mat4),
		vecs:   make(map[string][4]float32),
	}
	d.resetDepth()
	return d
}

// Target returns the render target.
func (d *SoftwareDevice) Target() *PixmapTarget {
	return d.target
}

// Format returns the framebuffer format.
func (d *SoftwareDevice) Format() gputypes.TextureFormat {
	return d.target.Format()
}

// Size returns the framebuffer size.
func (d *SoftwareDevice) Size() (int, int) {
	return d.target.Width(), d.target.Height()
}

// Resize reallocates the framebuffer. Meshes are kept.
func (d *SoftwareDevice) Resize(width, height int) {
	d.target.Resize(width, height)
	d.resetDepth()
}

func (d *SoftwareDevice) resetDepth() {
	n := d.target.Width() * d.target.Height()
	if cap(d.depth) < n {
		d.depth = make([]float64, n)
	}
	d.depth = d.depth[:n]
	for i := range d.depth {
		d.depth[i] = math.Inf(1)
	}
}

// CreateMesh stores a copy of the mesh.
func (d *SoftwareDevice) CreateMesh(vertices []float32, indices []uint16) (MeshHandle, error) {
	if len(vertices)%3 != 0 {
		return 0, fmt.Errorf("%w: %d vertex floats", ErrBadMesh, len(vertices))
	}
	if len(indices)%3 != 0 {
		return 0, fmt.Errorf("%w: %d indices", ErrBadMesh, len(indices))
	}
	m := softwareMesh{
		vertices: make([]mgl64.Vec3, len(vertices)/3),
		indices:  append([]uint16(nil), indices...),
	}
	for i := range m.vertices {
		m.vertices[i] = mgl64.Vec3{float64(vertices[i*3]), float64(vertices[i*3+1]), float64(vertices[i*3+2])}
	}
	for _, idx := range indices {
		if int(idx) >= len(m.vertices) {
			return 0, fmt.Errorf("%w: index %d with %d vertices", ErrBadMesh, idx, len(m.vertices))
		}
	}
	d.next++
	d.meshes[d.next] = m
	return d.next, nil
}

// UseProgram selects p and clears the previous program's uniforms.
// The rasterizer evaluates the programs' fixed transform and flat color
// on the CPU; p must still carry both compiled SPIR-V stages, so a
// program that never went through naga is refused.
func (d *SoftwareDevice) UseProgram(p *Program) error {
	if p == nil {
		return ErrNoProgram
	}
	if !isSPIRV(p.Vertex) || !isSPIRV(p.Fragment) {
		return fmt.Errorf("%w: %q has no compiled stages", ErrNoProgram, p.Name)
	}
	d.program = p
	clear(d.mats)
	clear(d.vecs)
	return nil
}

// SetUniformMat4 sets a matrix uniform.
func (d *SoftwareDevice) SetUniformMat4(name string, m f32.Mat4) error {
	if err := d.checkUniform(name); err != nil {
		return err
	}
	d.mats[name] = m
	return nil
}

// SetUniformVec4 sets a vector uniform.
func (d *SoftwareDevice) SetUniformVec4(name string, v [4]float32) error {
	if err := d.checkUniform(name); err != nil {
		return err
	}
	d.vecs[name] = v
	return nil
}

func (d *SoftwareDevice) checkUniform(name string) error {
	if d.program == nil {
		return ErrNoProgram
	}
	if !d.program.HasUniform(name) {
		return fmt.Errorf("%w: %q in program %s", ErrUnknownUniform, name, d.program.Name)
	}
	return nil
}

// Clear fills the color buffer and resets depth.
func (d *SoftwareDevice) Clear(c gputypes.Color) {
	d.target.Clear(c)
	d.resetDepth()
}

// ReadPixel reads one pixel, bottom-left origin.
func (d *SoftwareDevice) ReadPixel(x, y int) ([4]byte, error) {
	w, h := d.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return [4]byte{}, fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, x, y, w, h)
	}
	c := d.target.GetPixel(x, h-1-y)
	return [4]byte{c.R, c.G, c.B, c.A}, nil
}

// clipVertex is a vertex in clip space.
type clipVertex = mgl64.Vec4

// DrawIndexed rasterizes the mesh with the current uniforms. Unset
// matrices default to identity and an unset color to transparent black.
func (d *SoftwareDevice) DrawIndexed(handle MeshHandle) error {
	if d.program == nil {
		return ErrNoProgram
	}
	m, ok := d.meshes[handle]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMesh, handle)
	}

	mvp := d.matrix(UniformProjection).Mul4(d.matrix(UniformView)).Mul4(d.matrix(UniformModel))
	px := toBytes(d.vecs[d.program.ColorUniform])

	clip := make([]clipVertex, len(m.vertices))
	for i, v := range m.vertices {
		clip[i] = mvp.Mul4x1(v.Vec4(1))
	}
	var poly []clipVertex
	for i := 0; i+2 < len(m.indices); i += 3 {
		poly = clipNear(poly[:0], clip[m.indices[i]], clip[m.indices[i+1]], clip[m.indices[i+2]])
		for j := 1; j+1 < len(poly); j++ {
			d.rasterize(poly[0], poly[j], poly[j+1], px)
		}
	}
	return nil
}

func (d *SoftwareDevice) matrix(name string) mgl64.Mat4 {
	u, ok := d.mats[name]
	if !ok {
		return mgl64.Ident4()
	}
	return mat4FromUniform(u)
}

// clipNear clips a triangle against the near plane z >= -w and returns
// the resulting convex polygon, appended to dst.
func clipNear(dst []clipVertex, a, b, c clipVertex) []clipVertex {
	in := [3]clipVertex{a, b, c}
	for i := range in {
		cur, next := in[i], in[(i+1)%3]
		dc, dn := cur.Z()+cur.W(), next.Z()+next.W()
		if dc >= 0 {
			dst = append(dst, cur)
		}
		if (dc >= 0) != (dn >= 0) {
			t := dc / (dc - dn)
			dst = append(dst, cur.Add(next.Sub(cur).Mul(t)))
		}
	}
	return dst
}

type screenVertex struct {
	x, y, z float64
}

func (d *SoftwareDevice) toScreen(v clipVertex) screenVertex {
	w, h := d.Size()
	inv := 1 / v.W()
	return screenVertex{
		x: (v.X()*inv + 1) / 2 * float64(w),
		y: (v.Y()*inv + 1) / 2 * float64(h),
		z: (v.Z()*inv + 1) / 2,
	}
}

func edge(a, b screenVertex, x, y float64) float64 {
	return (b.x-a.x)*(y-a.y) - (b.y-a.y)*(x-a.x)
}

// rasterize fills one triangle. Pixel (x, y) is covered when its center
// lies inside or on the triangle; y counts up from the bottom row.
func (d *SoftwareDevice) rasterize(ca, cb, cc clipVertex, px [4]byte) {
	if ca.W() <= 0 || cb.W() <= 0 || cc.W() <= 0 {
		return
	}
	a, b, c := d.toScreen(ca), d.toScreen(cb), d.toScreen(cc)
	area := edge(a, b, c.x, c.y)
	if area == 0 {
		return
	}
	w, h := d.Size()
	minX := max(0, int(math.Floor(min(a.x, b.x, c.x))))
	maxX := min(w-1, int(math.Ceil(max(a.x, b.x, c.x))))
	minY := max(0, int(math.Floor(min(a.y, b.y, c.y))))
	maxY := min(h-1, int(math.Ceil(max(a.y, b.y, c.y))))

	pix := d.target.Pixels()
	stride := d.target.Stride()
	for y := minY; y <= maxY; y++ {
		cy := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			cx := float64(x) + 0.5
			w0 := edge(b, c, cx, cy) / area
			w1 := edge(c, a, cx, cy) / area
			w2 := edge(a, b, cx, cy) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*a.z + w1*b.z + w2*c.z
			if z < 0 || z > 1 {
				continue
			}
			di := y*w + x
			if z >= d.depth[di] {
				continue
			}
			d.depth[di] = z
			off := (h-1-y)*stride + x*4
			copy(pix[off:off+4], px[:])
		}
	}
}

// Ensure SoftwareDevice implements Device.
var _ Device = (*SoftwareDevice)(nil)

const spirvMagic = 0x07230203

func isSPIRV(words []uint32) bool {
	return len(words) > 0 && words[0] == spirvMagic
}
