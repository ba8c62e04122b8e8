package transform

import "github.com/go-gl/mathgl/mgl64"

// Stack is an ordered list of transforms owned by a single object.
// The zero value is an empty stack whose model matrix is the identity.
//
// Stack is not safe for concurrent use.
type Stack struct {
	list []Transform
}

// NewStack creates a stack holding the given transforms in order.
func NewStack(ts ...Transform) Stack {
	s := Stack{}
	for _, t := range ts {
		s.Push(t)
	}
	return s
}

// Push appends a transform.
func (s *Stack) Push(t Transform) {
	s.list = append(s.list, t)
}

// RemoveAll drops every transform of the given kind. The remaining
// transforms keep their relative order.
func (s *Stack) RemoveAll(kind Kind) {
	kept := s.list[:0]
	for _, t := range s.list {
		if t.Kind != kind {
			kept = append(kept, t)
		}
	}
	// Clear the tail so dropped values are not retained.
	for i := len(kept); i < len(s.list); i++ {
		s.list[i] = Transform{}
	}
	s.list = kept
}

// Replace removes every transform of t's kind and pushes t.
func (s *Stack) Replace(t Transform) {
	s.RemoveAll(t.Kind)
	s.Push(t)
}

// Reset removes all transforms.
func (s *Stack) Reset() {
	s.list = s.list[:0]
}

// Len returns the number of transforms.
func (s *Stack) Len() int {
	return len(s.list)
}

// At returns the i-th transform in push order.
func (s *Stack) At(i int) Transform {
	return s.list[i]
}

// Last returns the most recently pushed transform of the given kind.
func (s *Stack) Last(kind Kind) (Transform, bool) {
	for i := len(s.list) - 1; i >= 0; i-- {
		if s.list[i].Kind == kind {
			return s.list[i], true
		}
	}
	return Transform{}, false
}

// Transforms returns a copy of the transforms in push order.
func (s *Stack) Transforms() []Transform {
	out := make([]Transform, len(s.list))
	copy(out, s.list)
	return out
}

// Clone returns an independent copy of the stack.
func (s *Stack) Clone() Stack {
	return Stack{list: s.Transforms()}
}

// ModelMatrix composes the model matrix. Starting from the identity it
// walks the list from the last pushed transform to the first, right
// multiplying each contribution into the accumulator.
func (s *Stack) ModelMatrix() mgl64.Mat4 {
	m := mgl64.Ident4()
	for i := len(s.list) - 1; i >= 0; i-- {
		m = m.Mul4(s.list[i].Matrix())
	}
	return m
}

// Apply transforms a point by the model matrix.
func (s *Stack) Apply(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, s.ModelMatrix())
}
