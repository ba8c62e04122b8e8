// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render is the rendering context of the board.
//
// Nothing in this package is global: callers compile the two programs
// once with ViewProgram and SelectionProgram and pass them, together
// with a Device, to every draw.
//
// # Programs
//
// Programs are WGSL sources compiled to SPIR-V with naga. The vertex
// stage multiplies each position by the model, view and projection
// uniforms. The fragment stage writes a single flat color: "color" for
// the view program, "selection" (an encoded pick id) for the selection
// program.
//
// # Devices
//
// Device abstracts the graphics API. SoftwareDevice implements it on the
// CPU over a PixmapTarget: triangles are rasterized without
// anti-aliasing against a depth buffer, so every covered pixel carries
// exactly the uniform color that was set. That property is what makes
// color picking exact.
//
// Window coordinates passed to ReadPixel use a bottom-left origin.
package render
