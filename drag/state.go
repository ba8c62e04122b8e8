// Package drag implements the gesture that moves a piece to another slot.
//
// Pressing on a piece plans a swap: the piece will travel towards an
// occupied destination slot while the piece there travels on to an
// empty slot. Dragging the pointer moves both along their paths in
// proportion to the distance from the press point; once the dragged
// piece reaches its destination the swap is committed to the board.
//
// Pointer events are queued by Handle, which is safe to call from any
// goroutine, and processed by Advance once per frame.
package drag

import "fmt"

// State is the controller's position in the drag gesture.
type State uint8

const (
	// StateIdle waits for a press on a piece.
	StateIdle State = iota

	// StatePicking reads the pick id under a press. It only lasts for
	// the duration of one event.
	StatePicking

	// StateDragging moves the pieces with the pointer.
	StateDragging

	// StateCompleting commits the swap. Like StatePicking it is only
	// observed while the completing event is processed.
	StateCompleting

	// StateStranded keeps a session whose pointer was released before
	// completion. The next press resumes it.
	StateStranded
)

var stateNames = [...]string{
	StateIdle:       "idle",
	StatePicking:    "picking",
	StateDragging:   "dragging",
	StateCompleting: "completing",
	StateStranded:   "stranded",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", s)
}

// ReleasePolicy selects what happens when the pointer is released
// before a swap completes.
type ReleasePolicy uint8

const (
	// ReleaseStrand stops the pieces where they are and keeps the
	// session. The next press resumes dragging, still measured from the
	// original press point.
	ReleaseStrand ReleasePolicy = iota

	// ReleaseSnapBack returns both pieces to their slots and discards
	// the session.
	ReleaseSnapBack
)

// String implements fmt.Stringer.
func (p ReleasePolicy) String() string {
	switch p {
	case ReleaseStrand:
		return "strand"
	case ReleaseSnapBack:
		return "snap-back"
	default:
		return fmt.Sprintf("ReleasePolicy(%d)", p)
	}
}

// ParseReleasePolicy parses the String form of a policy.
func ParseReleasePolicy(s string) (ReleasePolicy, error) {
	switch s {
	case "strand", "":
		return ReleaseStrand, nil
	case "snap-back", "snapback":
		return ReleaseSnapBack, nil
	default:
		return 0, fmt.Errorf("drag: unknown release policy %q", s)
	}
}
