// Package polyboard is a 3-D board game of pieces sitting on the corners
// of a regular polygon.
//
// # Overview
//
// Pressing on a piece picks it through an off-screen selection pass: every
// pickable object is drawn in a color that encodes its id and the pixel
// under the pointer is decoded. The picked piece is then dragged towards a
// randomly chosen occupied slot while the piece there is pushed on to an
// empty slot. When the dragged piece arrives, the swap is committed.
//
// # Quick Start
//
//	target := render.NewPixmapTarget(800, 600)
//	dev := render.NewSoftwareDevice(target)
//
//	g, err := polyboard.New(polyboard.DefaultConfig(), dev)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	g.HandlePointer(gpucontext.PointerEvent{Type: gpucontext.PointerDown, X: 400, Y: 200})
//	if err := g.Advance(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Frame Order
//
// Input may arrive on any goroutine; it is queued and only processed by
// Advance, which runs once per frame in this order: picking, board
// mutation, transform updates, drawing.
//
// # Coordinate System
//
// Pointer events use window coordinates with the origin at the top-left,
// as delivered by windowing systems. Picking flips them to the
// bottom-left origin of the framebuffer.
//
// # Architecture
//
// The library is organized into:
//   - transform: ordered scale/rotate/translate lists and model matrices
//   - picking: id to color codec
//   - board: slot occupancy and move planning
//   - drag: the drag gesture state machine
//   - scene: drawable objects and cameras
//   - render: devices and shader programs
//   - asset: meshes and asynchronous loading
package polyboard
