package window

import (
	"time"

	"github.com/gogpu/gpucontext"
)

// Sample is the host input polled in one tick.
type Sample struct {
	// X and Y are the cursor position in window pixels, top-left origin.
	X, Y int

	// Pressed and Released report left button edges during the tick.
	Pressed, Released bool

	// Keys holds the keys that went down during the tick.
	Keys []gpucontext.Key

	// Time is the tick time, relative to the window start.
	Time time.Duration
}

// translator turns polled samples into pointer events. A move is emitted
// only when the cursor changed position; press and release edges come
// after the move so they carry the current position.
type translator struct {
	x, y int
	seen bool
	down bool
}

func (t *translator) translate(s Sample) []gpucontext.PointerEvent {
	var evs []gpucontext.PointerEvent
	base := gpucontext.PointerEvent{
		PointerType: gpucontext.PointerTypeMouse,
		IsPrimary:   true,
		X:           float64(s.X),
		Y:           float64(s.Y),
		Timestamp:   s.Time,
	}

	if t.seen && (s.X != t.x || s.Y != t.y) {
		ev := base
		ev.Type = gpucontext.PointerMove
		ev.Button = gpucontext.ButtonNone
		ev.Buttons = t.buttons()
		evs = append(evs, ev)
	}
	t.x, t.y, t.seen = s.X, s.Y, true

	if s.Pressed && !t.down {
		t.down = true
		ev := base
		ev.Type = gpucontext.PointerDown
		ev.Button = gpucontext.ButtonLeft
		ev.Buttons = t.buttons()
		evs = append(evs, ev)
	}
	if s.Released && t.down {
		t.down = false
		ev := base
		ev.Type = gpucontext.PointerUp
		ev.Button = gpucontext.ButtonLeft
		ev.Buttons = t.buttons()
		evs = append(evs, ev)
	}
	return evs
}

func (t *translator) buttons() gpucontext.Buttons {
	if t.down {
		return gpucontext.ButtonsLeft
	}
	return gpucontext.ButtonsNone
}

// cancel ends an active press, for example when the window loses focus.
func (t *translator) cancel() []gpucontext.PointerEvent {
	if !t.down {
		return nil
	}
	t.down = false
	return []gpucontext.PointerEvent{{
		Type:        gpucontext.PointerCancel,
		PointerType: gpucontext.PointerTypeMouse,
		IsPrimary:   true,
		X:           float64(t.x),
		Y:           float64(t.y),
		Button:      gpucontext.ButtonNone,
	}}
}
