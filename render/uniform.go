// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/math/f32"
)

// Mat4Uniform converts a column-major mgl64 matrix to the row-major
// float32 layout used for uniform upload.
func Mat4Uniform(m mgl64.Mat4) f32.Mat4 {
	var out f32.Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[row*4+col] = float32(m.At(row, col))
		}
	}
	return out
}

// mat4FromUniform is the inverse of Mat4Uniform.
func mat4FromUniform(u f32.Mat4) mgl64.Mat4 {
	var m mgl64.Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			m.Set(row, col, float64(u[row*4+col]))
		}
	}
	return m
}

// Vec4Uniform converts a color or vector to a vec4 uniform.
func Vec4Uniform(v mgl64.Vec4) [4]float32 {
	return [4]float32{float32(v[0]), float32(v[1]), float32(v[2]), float32(v[3])}
}

// toBytes quantizes a normalized color to one byte per channel, rounding
// to nearest.
func toBytes(c [4]float32) [4]byte {
	var px [4]byte
	for i, v := range c {
		f := math.Max(0, math.Min(1, float64(v)))
		px[i] = byte(math.Round(f * 255))
	}
	return px
}
