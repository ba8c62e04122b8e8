package polyboard

import (
	"errors"
	"fmt"

	"github.com/gogpu/polyboard/board"
	"github.com/gogpu/polyboard/drag"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("polyboard: invalid config")

// Config describes one game.
type Config struct {
	// Slots is the number of polygon corners, Pieces the number of
	// pieces. Pieces must be at least 2 and less than Slots.
	Slots  int
	Pieces int

	// Radius is the distance from the centre to each slot.
	Radius float64

	// Divisor converts pointer pixels to path fraction.
	Divisor float64

	// Threshold is the per-axis arrival distance.
	Threshold float64

	// Release selects the mid-drag release behaviour.
	Release drag.ReleasePolicy

	// Seed seeds destination and color choices. Zero picks a random
	// seed.
	Seed uint64

	// PieceSegments is the tessellation of the built-in piece mesh.
	PieceSegments int
}

// DefaultConfig returns four pieces on a pentagon.
func DefaultConfig() Config {
	return Config{
		Slots:         5,
		Pieces:        4,
		Radius:        board.DefaultRadius,
		Divisor:       drag.DefaultDivisor,
		Threshold:     drag.DefaultThreshold,
		Release:       drag.ReleaseStrand,
		PieceSegments: 24,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Slots < 3:
		return fmt.Errorf("%w: slots = %d, need at least 3", ErrInvalidConfig, c.Slots)
	case c.Pieces < 2 || c.Pieces >= c.Slots:
		return fmt.Errorf("%w: pieces = %d, need 2 <= pieces < slots (%d)", ErrInvalidConfig, c.Pieces, c.Slots)
	case c.Radius <= 0:
		return fmt.Errorf("%w: radius = %v", ErrInvalidConfig, c.Radius)
	case c.Divisor <= 0:
		return fmt.Errorf("%w: divisor = %v", ErrInvalidConfig, c.Divisor)
	case c.Threshold <= 0:
		return fmt.Errorf("%w: threshold = %v", ErrInvalidConfig, c.Threshold)
	case c.Release != drag.ReleaseStrand && c.Release != drag.ReleaseSnapBack:
		return fmt.Errorf("%w: release policy %v", ErrInvalidConfig, c.Release)
	case c.PieceSegments < 3:
		return fmt.Errorf("%w: piece segments = %d", ErrInvalidConfig, c.PieceSegments)
	}
	return nil
}
