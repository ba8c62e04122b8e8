package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/polyboard/asset"
	"github.com/gogpu/polyboard/transform"
)

// IndicatorColor is the color of direction indicators.
var IndicatorColor = gputypes.Color{R: 1, G: 0, B: 0, A: 1}

// Indicator is an arrow showing where a piece is headed. The mesh points
// along +y; a base rotation of -90° about z turns it to +x before the
// direction angle is applied.
type Indicator struct {
	*Object
}

// NewIndicator creates an indicator pointing along +x at the origin.
func NewIndicator(mesh *asset.Pending) *Indicator {
	o := NewObject(IndicatorID, mesh)
	o.Color = IndicatorColor
	o.Pickable = false
	o.Transforms = transform.NewStack(
		transform.Scale(PieceScale, PieceScale, PieceScale),
		transform.Rotate(-90, 0, 0, 1),
	)
	return &Indicator{Object: o}
}

// SetDirection points the indicator along (x, y). Previous rotations are
// cleared.
func (a *Indicator) SetDirection(x, y float64) {
	a.Transforms.RemoveAll(transform.KindRotate)
	a.Transforms.Push(transform.Rotate(-90, 0, 0, 1))
	a.Transforms.Push(transform.Rotate(DirectionAngle(x, y), 0, 0, 1))
}

// SetPosition moves the indicator to (x, y, z). Previous translations
// are cleared.
func (a *Indicator) SetPosition(x, y, z float64) {
	a.Transforms.RemoveAll(transform.KindTranslate)
	a.Transforms.Push(transform.Translate(x, y, z))
}

// DirectionAngle returns the angle in degrees between (x, y) and the +x
// axis: acos of the normalized x component, negated when y < 0. A zero
// vector yields 0.
func DirectionAngle(x, y float64) float64 {
	v := mgl64.Vec2{x, y}
	if v.Len() == 0 {
		return 0
	}
	cos := math.Max(-1, math.Min(1, v.Normalize().X()))
	angle := math.Acos(cos)
	if y < 0 {
		angle = -angle
	}
	return mgl64.RadToDeg(angle)
}
