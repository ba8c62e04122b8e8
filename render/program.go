// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/naga"
)

//go:embed shaders/object.vert.wgsl
var objectVertexWGSL string

//go:embed shaders/view.frag.wgsl
var viewFragmentWGSL string

//go:embed shaders/selection.frag.wgsl
var selectionFragmentWGSL string

// ErrShaderCompile is returned when a program's WGSL fails to compile.
var ErrShaderCompile = errors.New("render: shader compile failed")

// Program is a compiled vertex/fragment pair.
type Program struct {
	// Name identifies the program in logs.
	Name string

	// Vertex and Fragment hold SPIR-V words.
	Vertex   []uint32
	Fragment []uint32

	// ColorUniform names the vec4 uniform the fragment stage writes.
	ColorUniform string

	uniforms []string
}

// HasUniform reports whether the program declares the named uniform.
func (p *Program) HasUniform(name string) bool {
	return slices.Contains(p.uniforms, name)
}

// Uniforms returns the names of the program's uniforms.
func (p *Program) Uniforms() []string {
	return slices.Clone(p.uniforms)
}

// CompileProgram compiles both stages. colorUniform names the fragment
// color uniform; the vertex stage always takes model, view and
// projection.
func CompileProgram(name, vertexWGSL, fragmentWGSL, colorUniform string) (*Program, error) {
	vs, err := compileStage(vertexWGSL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s vertex stage: %w", ErrShaderCompile, name, err)
	}
	fs, err := compileStage(fragmentWGSL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s fragment stage: %w", ErrShaderCompile, name, err)
	}
	return &Program{
		Name:         name,
		Vertex:       vs,
		Fragment:     fs,
		ColorUniform: colorUniform,
		uniforms:     []string{UniformModel, UniformView, UniformProjection, colorUniform},
	}, nil
}

// ViewProgram returns the program that draws objects in their color.
// It is compiled on first use and shared afterwards.
func ViewProgram() (*Program, error) {
	return programs.compile("view", objectVertexWGSL, viewFragmentWGSL, UniformColor)
}

// SelectionProgram returns the program that draws objects in their
// encoded pick id.
func SelectionProgram() (*Program, error) {
	return programs.compile("selection", objectVertexWGSL, selectionFragmentWGSL, UniformSelection)
}

// compileStage compiles WGSL source to SPIR-V words.
func compileStage(src string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(src)
	if err != nil {
		return nil, err
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
