package drag

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/google/uuid"

	"github.com/gogpu/polyboard/asset"
	"github.com/gogpu/polyboard/board"
	"github.com/gogpu/polyboard/scene"
)

// Picker reads the pick id at window pixel (x, y), in the coordinates
// of the pointer events. Implementations render one selection frame.
type Picker interface {
	Pick(x, y int) (uint32, error)
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(x, y int) (uint32, error)

// Pick calls f.
func (f PickerFunc) Pick(x, y int) (uint32, error) {
	return f(x, y)
}

// Session is one drag gesture in progress.
type Session struct {
	ID   uuid.UUID
	Move board.Move

	// Piece is dragged from Start towards Start+Direction; Partner is
	// pushed from PartnerStart towards PartnerStart+PartnerDirection.
	Piece, Partner              *scene.Piece
	Start, PartnerStart         mgl64.Vec3
	Direction, PartnerDirection mgl64.Vec3
	Indicator, PartnerIndicator *scene.Indicator

	// Origin is the press point in window coordinates.
	Origin mgl64.Vec2

	// Distance is the path fraction of the last update.
	Distance float64

	color gputypes.Color
}

// Target returns the destination of the dragged piece.
func (s *Session) Target() mgl64.Vec3 {
	return s.Start.Add(s.Direction)
}

// Controller runs the drag state machine over a board and its pieces.
//
// Handle may be called from any goroutine. Advance and the accessors
// (State, Session, Held, Indicators) belong to the frame loop and must
// not run concurrently with Advance.
type Controller struct {
	mu    sync.Mutex
	queue []gpucontext.PointerEvent

	board  *board.Board
	pieces []*scene.Piece
	arrow  *asset.Pending
	picker Picker

	opts    options
	logger  *slog.Logger
	state   State
	pressed bool
	session *Session
}

// NewController creates a controller. arrow is the indicator mesh.
func NewController(b *board.Board, pieces []*scene.Piece, arrow *asset.Pending, picker Picker, opts ...Option) *Controller {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Controller{
		board:  b,
		pieces: pieces,
		arrow:  arrow,
		picker: picker,
		opts:   o,
		logger: o.logger,
	}
}

// Handle queues a pointer event for the next Advance. Press positions
// are passed to the Picker as is. Safe for concurrent use.
func (c *Controller) Handle(ev gpucontext.PointerEvent) {
	c.mu.Lock()
	c.queue = append(c.queue, ev)
	c.mu.Unlock()
}

// Advance processes the queued events in order. It returns early with
// ctx's error if ctx is done; unprocessed events stay queued.
func (c *Controller) Advance(ctx context.Context) error {
	c.mu.Lock()
	events := c.queue
	c.queue = nil
	c.mu.Unlock()

	for i, ev := range events {
		if err := ctx.Err(); err != nil {
			c.mu.Lock()
			c.queue = append(events[i:], c.queue...)
			c.mu.Unlock()
			return err
		}
		c.handle(ev)
	}
	return nil
}

// State returns the current state. Frame loop only.
func (c *Controller) State() State {
	return c.state
}

// Session returns the active session, or nil. Frame loop only.
func (c *Controller) Session() *Session {
	return c.session
}

// Held returns the dragged piece, or nil.
func (c *Controller) Held() *scene.Piece {
	if c.session == nil {
		return nil
	}
	return c.session.Piece
}

// Indicators returns the indicators of the active session.
func (c *Controller) Indicators() []*scene.Indicator {
	if c.session == nil {
		return nil
	}
	return []*scene.Indicator{c.session.Indicator, c.session.PartnerIndicator}
}

// Policy returns the release policy.
func (c *Controller) Policy() ReleasePolicy {
	return c.opts.policy
}

func (c *Controller) handle(ev gpucontext.PointerEvent) {
	switch ev.Type {
	case gpucontext.PointerDown:
		if ev.Button != gpucontext.ButtonLeft {
			return
		}
		c.press(ev)
	case gpucontext.PointerMove:
		if c.state == StateDragging && c.pressed {
			c.move(mgl64.Vec2{ev.X, ev.Y})
		}
	case gpucontext.PointerUp, gpucontext.PointerCancel:
		if ev.Type == gpucontext.PointerUp && ev.Button != gpucontext.ButtonLeft {
			return
		}
		c.release()
	}
}

func (c *Controller) press(ev gpucontext.PointerEvent) {
	switch c.state {
	case StateStranded:
		c.state = StateDragging
		c.pressed = true
		c.logger.Debug("drag resumed", "session", c.session.ID)
		return
	case StateIdle:
	default:
		return
	}

	c.state = StatePicking
	x, y := int(math.Floor(ev.X)), int(math.Floor(ev.Y))
	id, err := c.picker.Pick(x, y)
	if err != nil {
		c.logger.Warn("pick failed", "x", x, "y", y, "err", err)
		c.state = StateIdle
		return
	}
	piece := c.pieceByID(id)
	if piece == nil {
		c.logger.Debug("pick miss", "x", x, "y", y, "id", id)
		c.state = StateIdle
		return
	}

	s, err := c.begin(piece, mgl64.Vec2{ev.X, ev.Y})
	if err != nil {
		if errors.Is(err, board.ErrNoDestination) || errors.Is(err, board.ErrNoEmptySlot) {
			c.logger.Info("no move available", "piece", id, "err", err)
		} else {
			c.logger.Error("plan move", "piece", id, "err", err)
		}
		c.state = StateIdle
		return
	}
	c.session = s
	c.pressed = true
	c.state = StateDragging
	c.logger.Debug("drag started", "session", s.ID, "move", s.Move.String())
}

func (c *Controller) begin(piece *scene.Piece, origin mgl64.Vec2) (*Session, error) {
	mv, err := c.board.Plan(piece.ID)
	if err != nil {
		return nil, err
	}
	partner := c.pieceByID(mv.PartnerID)
	if partner == nil {
		return nil, board.ErrUnknownPiece
	}

	src := c.board.Slot(mv.Source).Position
	dest := c.board.Slot(mv.Dest).Position
	partnerDest := c.board.Slot(mv.PartnerDest).Position

	s := &Session{
		ID:               uuid.New(),
		Move:             mv,
		Piece:            piece,
		Partner:          partner,
		Start:            src,
		PartnerStart:     dest,
		Direction:        dest.Sub(src),
		PartnerDirection: partnerDest.Sub(dest),
		Origin:           origin,
		color:            piece.Color,
	}
	s.Indicator = c.newIndicator(s.Start, s.Direction)
	s.PartnerIndicator = c.newIndicator(s.PartnerStart, s.PartnerDirection)
	piece.Color = scene.HeldColor
	return s, nil
}

func (c *Controller) newIndicator(at, dir mgl64.Vec3) *scene.Indicator {
	ind := scene.NewIndicator(c.arrow)
	ind.SetDirection(dir.X(), dir.Y())
	ind.SetPosition(at.X(), at.Y(), at.Z())
	return ind
}

// move advances both pieces along their paths. Distance is not clamped;
// a drag past the destination counts as arrival.
func (c *Controller) move(p mgl64.Vec2) {
	s := c.session
	d := p.Sub(s.Origin).Len() / c.opts.divisor
	s.Distance = d

	pos := s.Start.Add(s.Direction.Mul(d))
	partnerPos := s.PartnerStart.Add(s.PartnerDirection.Mul(d))
	pos[2], partnerPos[2] = 0, 0

	s.Piece.MoveTo(pos)
	s.Partner.MoveTo(partnerPos)
	s.Indicator.SetPosition(pos.X(), pos.Y(), 0)
	s.PartnerIndicator.SetPosition(partnerPos.X(), partnerPos.Y(), 0)

	target := s.Target()
	arrived := math.Abs(pos.X()-target.X()) < c.opts.threshold &&
		math.Abs(pos.Y()-target.Y()) < c.opts.threshold
	if arrived || d >= 1 {
		c.complete()
	}
}

func (c *Controller) complete() {
	c.state = StateCompleting
	s := c.session
	mv := s.Move

	if err := c.board.CommitSwap(mv); err != nil {
		// The board changed under the session; undo the visual move.
		c.logger.Error("commit swap", "session", s.ID, "err", err)
		c.snapBack()
		return
	}
	s.Piece.MoveTo(c.board.Slot(mv.Dest).Position)
	s.Partner.MoveTo(c.board.Slot(mv.PartnerDest).Position)
	s.Piece.Slot, s.Partner.Slot = mv.Dest, mv.PartnerDest
	s.Piece.ID, s.Partner.ID = board.Label(mv.Dest), board.Label(mv.PartnerDest)
	s.Piece.Color = gputypes.Color{R: c.opts.rng.Float64(), G: c.opts.rng.Float64(), B: c.opts.rng.Float64(), A: 1}

	c.logger.Info("swap committed", "session", s.ID, "move", mv.String(), "empty", c.board.Empty())
	c.finish()
}

func (c *Controller) release() {
	if c.state != StateDragging {
		c.pressed = false
		return
	}
	c.pressed = false
	switch c.opts.policy {
	case ReleaseSnapBack:
		c.logger.Debug("drag released, snapping back", "session", c.session.ID)
		c.snapBack()
	default:
		c.logger.Debug("drag released, stranded", "session", c.session.ID, "distance", c.session.Distance)
		c.state = StateStranded
	}
}

func (c *Controller) snapBack() {
	s := c.session
	s.Piece.MoveTo(s.Start)
	s.Partner.MoveTo(s.PartnerStart)
	s.Piece.Color = s.color
	c.finish()
}

func (c *Controller) finish() {
	c.session = nil
	c.pressed = false
	c.state = StateIdle
}

func (c *Controller) pieceByID(id uint32) *scene.Piece {
	if id < board.IDOffset {
		return nil
	}
	for _, p := range c.pieces {
		if p.ID == id {
			return p
		}
	}
	return nil
}
