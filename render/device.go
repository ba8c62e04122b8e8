// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

// Uniform names shared by both programs.
const (
	UniformModel      = "model"
	UniformView       = "view"
	UniformProjection = "projection"
	UniformColor      = "color"
	UniformSelection  = "selection"
)

// Sentinel errors.
var (
	// ErrNoProgram is returned when drawing before UseProgram.
	ErrNoProgram = errors.New("render: no program in use")

	// ErrBadMesh is returned by CreateMesh for malformed vertex data.
	ErrBadMesh = errors.New("render: malformed mesh")

	// ErrUnknownMesh is returned for handles the device did not create.
	ErrUnknownMesh = errors.New("render: unknown mesh handle")

	// ErrUnknownUniform is returned when setting a uniform the current
	// program does not declare.
	ErrUnknownUniform = errors.New("render: unknown uniform")

	// ErrOutOfBounds is returned by ReadPixel outside the framebuffer.
	ErrOutOfBounds = errors.New("render: pixel out of bounds")
)

// MeshHandle identifies a mesh uploaded to a Device. The zero value is
// never a valid handle.
type MeshHandle uint32

// Device is the graphics API used by the scene.
//
// A Device is owned by the frame loop and is not safe for concurrent use.
type Device interface {
	// Format returns the framebuffer pixel format. Picking derives its
	// channel layout from it.
	Format() gputypes.TextureFormat

	// Size returns the framebuffer size in pixels.
	Size() (width, height int)

	// CreateMesh uploads xyz vertex positions and triangle indices.
	CreateMesh(vertices []float32, indices []uint16) (MeshHandle, error)

	// UseProgram selects the program for subsequent uniforms and draws.
	UseProgram(p *Program) error

	// SetUniformMat4 sets a matrix uniform of the current program.
	SetUniformMat4(name string, m f32.Mat4) error

	// SetUniformVec4 sets a vector uniform of the current program.
	SetUniformVec4(name string, v [4]float32) error

	// DrawIndexed draws the whole mesh as a triangle list.
	DrawIndexed(mesh MeshHandle) error

	// Clear resets color and depth.
	Clear(c gputypes.Color)

	// ReadPixel returns the framebuffer bytes at (x, y), bottom-left
	// origin.
	ReadPixel(x, y int) ([4]byte, error)
}
