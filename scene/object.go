// Package scene holds the drawable objects of the board: the plane, the
// pieces, the direction indicators and the cameras that view them.
//
// Objects reference meshes that may still be loading. An object is only
// uploaded and drawn once its mesh is ready; until then Draw reports that
// nothing was drawn.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/polyboard/asset"
	"github.com/gogpu/polyboard/picking"
	"github.com/gogpu/polyboard/render"
	"github.com/gogpu/polyboard/transform"
)

// Reserved pick ids.
const (
	// PlaneID is the id of the board plane.
	PlaneID uint32 = 1

	// IndicatorID is shared by all direction indicators. Indicators are
	// never drawn in the picking pass.
	IndicatorID uint32 = 100
)

// Object is a drawable with a pick id, a transform list and a color.
type Object struct {
	ID         uint32
	Transforms transform.Stack
	Color      gputypes.Color

	// Pickable objects take part in the picking pass.
	Pickable bool

	mesh   *asset.Pending
	handle render.MeshHandle
}

// NewObject creates an object drawn with mesh.
func NewObject(id uint32, mesh *asset.Pending) *Object {
	return &Object{
		ID:       id,
		Color:    gputypes.Color{R: 1, G: 1, B: 1, A: 1},
		Pickable: true,
		mesh:     mesh,
	}
}

// Mesh returns the object's mesh.
func (o *Object) Mesh() *asset.Pending {
	return o.mesh
}

// Ready reports whether the mesh finished loading.
func (o *Object) Ready() bool {
	return o.mesh != nil && o.mesh.Ready()
}

// Uploaded reports whether the mesh lives on a device.
func (o *Object) Uploaded() bool {
	return o.handle != 0
}

// Upload creates the device mesh once the mesh is ready. It returns
// false while the mesh is still loading.
func (o *Object) Upload(dev render.Device) (bool, error) {
	if o.handle != 0 {
		return true, nil
	}
	if o.mesh == nil {
		return false, nil
	}
	m, ok := o.mesh.Mesh()
	if !ok {
		return false, nil
	}
	h, err := dev.CreateMesh(m.Vertices, m.Indices)
	if err != nil {
		return false, fmt.Errorf("scene: upload %s: %w", o.mesh.Name(), err)
	}
	o.handle = h
	return true, nil
}

// ModelMatrix returns the composition of the object's transforms.
func (o *Object) ModelMatrix() mgl64.Mat4 {
	return o.Transforms.ModelMatrix()
}

// Position returns the object's origin in world space.
func (o *Object) Position() mgl64.Vec3 {
	return o.Transforms.Apply(mgl64.Vec3{})
}

// Draw draws the object with prog. The selection program receives the
// encoded id, any other program the object color. It returns false when
// the mesh is not ready yet.
func (o *Object) Draw(dev render.Device, prog *render.Program, cam *Camera, codec picking.Codec) (bool, error) {
	ok, err := o.Upload(dev)
	if err != nil || !ok {
		return false, err
	}
	if err := dev.UseProgram(prog); err != nil {
		return false, err
	}
	w, h := dev.Size()
	uniforms := []struct {
		name string
		m    mgl64.Mat4
	}{
		{render.UniformModel, o.ModelMatrix()},
		{render.UniformView, cam.View()},
		{render.UniformProjection, cam.Projection(w, h)},
	}
	for _, u := range uniforms {
		if err := dev.SetUniformMat4(u.name, render.Mat4Uniform(u.m)); err != nil {
			return false, err
		}
	}

	var c [4]float32
	if prog.ColorUniform == render.UniformSelection {
		c = codec.Encode(o.ID)
	} else {
		c = [4]float32{float32(o.Color.R), float32(o.Color.G), float32(o.Color.B), float32(o.Color.A)}
	}
	if err := dev.SetUniformVec4(prog.ColorUniform, c); err != nil {
		return false, err
	}
	if err := dev.DrawIndexed(o.handle); err != nil {
		return false, err
	}
	return true, nil
}
