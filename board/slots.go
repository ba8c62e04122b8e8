package board

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// snapEpsilon is the magnitude below which slot coordinates are forced
// to exactly zero.
const snapEpsilon = 1e-5

// DefaultRadius is the distance from the board centre to every slot.
const DefaultRadius = 0.5

// Slot is a fixed position on the polygon perimeter.
type Slot struct {
	Index    int
	Position mgl64.Vec3
}

// BuildSlots places n slots on a regular polygon of the given radius in
// the z = 0 plane. Slot 0 sits at the top (0, radius, 0); slot i is
// rotated counter-clockwise by i*2π/n.
func BuildSlots(n int, radius float64) []Slot {
	if n <= 0 {
		return nil
	}
	step := 2 * math.Pi / float64(n)
	slots := make([]Slot, n)
	for i := range slots {
		sin, cos := math.Sincos(step * float64(i))
		// (0, r) rotated by the angle.
		x := snap(-radius * sin)
		y := snap(radius * cos)
		slots[i] = Slot{Index: i, Position: mgl64.Vec3{x, y, 0}}
	}
	return slots
}

// Positions returns the slot positions as a flat xyz list.
func Positions(slots []Slot) []float64 {
	out := make([]float64, 0, len(slots)*3)
	for _, s := range slots {
		out = append(out, s.Position[0], s.Position[1], s.Position[2])
	}
	return out
}

func snap(v float64) float64 {
	if math.Abs(v) < snapEpsilon {
		return 0
	}
	return v
}
