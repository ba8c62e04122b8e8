package polyboard

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/polyboard/asset"
	"github.com/gogpu/polyboard/board"
	"github.com/gogpu/polyboard/drag"
	"github.com/gogpu/polyboard/picking"
	"github.com/gogpu/polyboard/render"
	"github.com/gogpu/polyboard/scene"
)

// Colors.
var (
	BackgroundColor = gputypes.Color{R: 0, G: 0, B: 0, A: 1}
	PlaneColor      = gputypes.Color{R: 0.8, G: 0.8, B: 0.8, A: 1}
	PieceColor      = gputypes.Color{R: 0.2, G: 0.4, B: 0.9, A: 1}
)

// yawStep is the yaw in degrees of a full horizontal swipe in the
// centre camera.
const yawStep = 10.0

// KeySource delivers key presses. gpucontext.EventSource satisfies it.
type KeySource interface {
	OnKeyPress(func(key gpucontext.Key, mods gpucontext.Modifiers))
}

type input struct {
	pointer gpucontext.PointerEvent
	key     gpucontext.Key
	isKey   bool
}

// Game is one board with its pieces, cameras and drag controller.
//
// HandlePointer and HandleKey may be called from any goroutine. Advance
// and the accessors belong to the frame loop.
type Game struct {
	cfg    Config
	dev    render.Device
	logger *slog.Logger

	view      *render.Program
	selection *render.Program
	codec     picking.Codec

	board  *board.Board
	plane  *scene.Object
	pieces []*scene.Piece
	placed bool

	top, center *scene.Camera
	centered    bool
	yawFrom     *mgl64.Vec2

	ctrl *drag.Controller

	mu    sync.Mutex
	queue []input
}

// New creates a game drawing on dev. Shader compile failures and invalid
// configuration are returned; meshes load in the background.
func New(cfg Config, dev render.Device, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions(cfg)
	for _, opt := range opts {
		opt(&o)
	}

	codec, err := picking.ForFormat(dev.Format())
	if err != nil {
		return nil, fmt.Errorf("polyboard: %w", err)
	}
	view, err := render.ViewProgram()
	if err != nil {
		return nil, err
	}
	selection, err := render.SelectionProgram()
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	b, err := board.New(cfg.Slots, cfg.Pieces, cfg.Radius, rand.New(rand.NewPCG(seed, 1)))
	if err != nil {
		return nil, fmt.Errorf("polyboard: %w", err)
	}

	g := &Game{
		cfg:       cfg,
		dev:       dev,
		logger:    o.logger,
		view:      view,
		selection: selection,
		codec:     codec,
		board:     b,
		top:       scene.TopCamera(),
		center:    scene.CenterCamera(),
	}

	corners := make([]mgl64.Vec3, 0, cfg.Slots)
	for _, s := range b.Slots() {
		corners = append(corners, s.Position)
	}
	g.plane = scene.NewObject(scene.PlaneID, asset.Ready("plane", asset.Polygon(corners)))
	g.plane.Color = PlaneColor

	// Each piece loads its own copy; the board is placed once all are in.
	loader := asset.NewLoader(o.logger)
	srcs := make([]asset.Source, cfg.Pieces)
	for i := range srcs {
		srcs[i] = o.pieceMesh
	}
	for i, mesh := range loader.LoadGroup(o.loadCtx, srcs...) {
		p := scene.NewPiece(board.Label(i), i, mesh)
		p.Color = PieceColor
		g.pieces = append(g.pieces, p)
	}
	arrow := loader.Load(o.loadCtx, o.arrowMesh)

	g.ctrl = drag.NewController(b, g.pieces, arrow, drag.PickerFunc(g.pick),
		drag.WithLogger(o.logger),
		drag.WithDivisor(cfg.Divisor),
		drag.WithThreshold(cfg.Threshold),
		drag.WithReleasePolicy(cfg.Release),
		drag.WithRand(rand.New(rand.NewPCG(seed, 2))),
	)

	g.logger.Debug("game created", "slots", cfg.Slots, "pieces", cfg.Pieces,
		"format", dev.Format().String(), "bits", codec.Bits().String(), "seed", seed)
	return g, nil
}

// HandlePointer queues a pointer event. Coordinates are window pixels
// with the origin at the top-left.
func (g *Game) HandlePointer(ev gpucontext.PointerEvent) {
	g.mu.Lock()
	g.queue = append(g.queue, input{pointer: ev})
	g.mu.Unlock()
}

// HandleKey queues a key press. V toggles between the top and the centre
// camera.
func (g *Game) HandleKey(key gpucontext.Key, _ gpucontext.Modifiers) {
	g.mu.Lock()
	g.queue = append(g.queue, input{key: key, isKey: true})
	g.mu.Unlock()
}

// Attach registers the game's handlers with event sources. Either may
// be nil.
func (g *Game) Attach(pointers gpucontext.PointerEventSource, keys KeySource) {
	if pointers != nil {
		pointers.OnPointer(g.HandlePointer)
	}
	if keys != nil {
		keys.OnKeyPress(g.HandleKey)
	}
}

// Advance runs one frame: queued input and picking, board mutation,
// piece placement and transform updates, then drawing.
//
// Input is handled in arrival order. A press is picked with the camera
// that was active when it arrived, even if a key later in the same frame
// switches cameras.
func (g *Game) Advance(ctx context.Context) error {
	g.mu.Lock()
	queue := g.queue
	g.queue = nil
	g.mu.Unlock()

	for i, in := range queue {
		if err := g.route(ctx, in); err != nil {
			g.mu.Lock()
			g.queue = append(queue[i+1:], g.queue...)
			g.mu.Unlock()
			return err
		}
	}
	if err := g.ctrl.Advance(ctx); err != nil {
		return err
	}
	g.placePieces()
	return g.draw()
}

func (g *Game) route(ctx context.Context, in input) error {
	if in.isKey {
		if in.key == gpucontext.KeyV {
			g.centered = !g.centered
			g.yawFrom = nil
			g.logger.Info("camera changed", "camera", g.Camera().Name)
		}
		return nil
	}

	ev := in.pointer
	if !g.centered {
		g.ctrl.Handle(ev)
		return g.ctrl.Advance(ctx)
	}
	switch ev.Type {
	case gpucontext.PointerDown:
		g.yawFrom = &mgl64.Vec2{ev.X, ev.Y}
	case gpucontext.PointerUp:
		if g.yawFrom == nil {
			return nil
		}
		delta := mgl64.Vec2{ev.X, ev.Y}.Sub(*g.yawFrom)
		g.yawFrom = nil
		if delta.Len() == 0 {
			return nil
		}
		deg := delta.Normalize().X() * yawStep
		g.center.Yaw(deg)
		g.logger.Debug("camera yawed", "degrees", deg)
	}
	return nil
}

// placePieces gives every piece its initial transforms once all piece
// meshes are ready.
func (g *Game) placePieces() {
	if g.placed {
		return
	}
	for _, p := range g.pieces {
		if !p.Ready() {
			return
		}
	}
	for _, p := range g.pieces {
		p.Place(g.board.Slot(p.Slot).Position)
	}
	g.placed = true
	g.logger.Debug("pieces placed", "count", len(g.pieces))
}

// pick renders a selection frame and decodes the id at window pixel
// (x, y), top-left origin.
func (g *Game) pick(x, y int) (uint32, error) {
	_, h := g.dev.Size()
	g.dev.Clear(gputypes.Color{})
	cam := g.Camera()
	for _, o := range g.pickables() {
		if _, err := o.Draw(g.dev, g.selection, cam, g.codec); err != nil {
			return picking.Background, err
		}
	}
	px, err := g.dev.ReadPixel(x, h-1-y)
	if err != nil {
		return picking.Background, err
	}
	return g.codec.DecodeBytes(px), nil
}

func (g *Game) pickables() []*scene.Object {
	objs := []*scene.Object{g.plane}
	if g.placed {
		for _, p := range g.pieces {
			if p.Pickable {
				objs = append(objs, p.Object)
			}
		}
	}
	return objs
}

// drawList returns the objects of the view pass in draw order: plane,
// resting pieces, the held piece, indicators.
func (g *Game) drawList() []*scene.Object {
	objs := []*scene.Object{g.plane}
	if !g.placed {
		return objs
	}
	held := g.ctrl.Held()
	for _, p := range g.pieces {
		if p != held {
			objs = append(objs, p.Object)
		}
	}
	if held != nil {
		objs = append(objs, held.Object)
	}
	for _, ind := range g.ctrl.Indicators() {
		objs = append(objs, ind.Object)
	}
	return objs
}

func (g *Game) draw() error {
	g.dev.Clear(BackgroundColor)
	cam := g.Camera()
	for _, o := range g.drawList() {
		if _, err := o.Draw(g.dev, g.view, cam, g.codec); err != nil {
			return fmt.Errorf("polyboard: draw object %d: %w", o.ID, err)
		}
	}
	return nil
}

// Config returns the game configuration.
func (g *Game) Config() Config { return g.cfg }

// Board returns the slot occupancy.
func (g *Game) Board() *board.Board { return g.board }

// Controller returns the drag controller.
func (g *Game) Controller() *drag.Controller { return g.ctrl }

// Pieces returns the pieces in creation order.
func (g *Game) Pieces() []*scene.Piece { return g.pieces }

// Plane returns the board plane.
func (g *Game) Plane() *scene.Object { return g.plane }

// Placed reports whether the pieces have been placed on the board.
func (g *Game) Placed() bool { return g.placed }

// Centered reports whether the centre camera is active.
func (g *Game) Centered() bool { return g.centered }

// Camera returns the active camera.
func (g *Game) Camera() *scene.Camera {
	if g.centered {
		return g.center
	}
	return g.top
}

// Codec returns the picking codec for the device's framebuffer.
func (g *Game) Codec() picking.Codec { return g.codec }

// PieceAt returns the piece in slot i, or nil.
func (g *Game) PieceAt(slot int) *scene.Piece {
	for _, p := range g.pieces {
		if p.Slot == slot {
			return p
		}
	}
	return nil
}

// ScreenPosition returns the window pixel, top-left origin, at which the
// active camera shows world position p.
func (g *Game) ScreenPosition(p mgl64.Vec3) (x, y float64) {
	w, h := g.dev.Size()
	win := g.Camera().Project(p, w, h)
	return win.X(), float64(h) - win.Y()
}
