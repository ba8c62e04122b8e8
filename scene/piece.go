package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/polyboard/asset"
	"github.com/gogpu/polyboard/transform"
)

// PieceScale is the uniform scale applied to piece and indicator meshes.
const PieceScale = 0.3

// HeldColor is the color of a piece while it is being dragged.
var HeldColor = gputypes.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}

// Piece is a movable object occupying a board slot.
type Piece struct {
	*Object
	Slot int

	placed bool
}

// NewPiece creates a piece in the given slot.
func NewPiece(id uint32, slot int, mesh *asset.Pending) *Piece {
	return &Piece{Object: NewObject(id, mesh), Slot: slot}
}

// Placed reports whether Place has run.
func (p *Piece) Placed() bool {
	return p.placed
}

// Place gives the piece its initial transforms: flipped upright, scaled,
// turned to face the board centre and moved onto pos. The piece rests
// on the plane, at the same height MoveTo uses.
func (p *Piece) Place(pos mgl64.Vec3) {
	p.Transforms = transform.NewStack(
		transform.Rotate(180, 0, 1, 0),
		transform.Scale(PieceScale, PieceScale, PieceScale),
		transform.Rotate(Facing(pos), 0, 0, 1),
		transform.TranslateV(pos),
	)
	p.placed = true
}

// MoveTo replaces the piece's translation with pos.
func (p *Piece) MoveTo(pos mgl64.Vec3) {
	p.Transforms.Replace(transform.TranslateV(pos))
}

// Facing returns the angle in degrees about z that turns the +y axis
// towards the origin from pos.
func Facing(pos mgl64.Vec3) float64 {
	if pos.X() == 0 && pos.Y() == 0 {
		return 0
	}
	return mgl64.RadToDeg(math.Atan2(-pos.Y(), -pos.X())) - 90
}
