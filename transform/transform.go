// Package transform composes per-object model matrices from an ordered
// list of scale, rotate and translate operations.
//
// A Stack stores transforms in push order. ModelMatrix multiplies them
// from the last pushed to the first pushed, so the resulting matrix is
//
//	M = T_last * ... * T_first
//
// and the first pushed transform is the one applied to vertices first.
// Callers pick the effective TRS order purely by push order, and can
// re-home an object by removing every transform of one kind and pushing
// a replacement:
//
//	var s transform.Stack
//	s.Push(transform.Scale(0.3, 0.3, 0.3))
//	s.Push(transform.Translate(1, 0, 0))
//	...
//	s.RemoveAll(transform.KindTranslate)
//	s.Push(transform.Translate(0, 1, 0))
package transform

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind discriminates the variants of Transform.
type Kind uint8

const (
	// KindScale scales along the three axes.
	KindScale Kind = iota

	// KindTranslate moves by a vector.
	KindTranslate

	// KindRotate rotates by an angle in degrees around an axis.
	KindRotate
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindScale:
		return "Scale"
	case KindTranslate:
		return "Translate"
	case KindRotate:
		return "Rotate"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Transform is a single scale, translate or rotate operation.
//
// For KindScale and KindTranslate, V holds the per-axis factors or the
// offset. For KindRotate, V holds the rotation axis and Angle the angle
// in degrees.
type Transform struct {
	Kind  Kind
	V     mgl64.Vec3
	Angle float64
}

// Scale creates a scaling transform.
func Scale(x, y, z float64) Transform {
	return Transform{Kind: KindScale, V: mgl64.Vec3{x, y, z}}
}

// Translate creates a translation transform.
func Translate(x, y, z float64) Transform {
	return Transform{Kind: KindTranslate, V: mgl64.Vec3{x, y, z}}
}

// TranslateV creates a translation transform from a vector.
func TranslateV(v mgl64.Vec3) Transform {
	return Transform{Kind: KindTranslate, V: v}
}

// Rotate creates a rotation of angle degrees around the axis (x, y, z).
// The axis does not need to be normalized.
func Rotate(angle, x, y, z float64) Transform {
	return Transform{Kind: KindRotate, V: mgl64.Vec3{x, y, z}, Angle: angle}
}

// Matrix returns the 4x4 matrix contributed by the transform.
//
// Rotations go through a unit quaternion built from the normalized
// axis. A zero-length axis yields the identity.
func (t Transform) Matrix() mgl64.Mat4 {
	switch t.Kind {
	case KindScale:
		return mgl64.Scale3D(t.V[0], t.V[1], t.V[2])
	case KindTranslate:
		return mgl64.Translate3D(t.V[0], t.V[1], t.V[2])
	case KindRotate:
		if t.V.Len() == 0 {
			return mgl64.Ident4()
		}
		q := mgl64.QuatRotate(mgl64.DegToRad(t.Angle), t.V.Normalize())
		return q.Normalize().Mat4()
	default:
		return mgl64.Ident4()
	}
}

// String implements fmt.Stringer.
func (t Transform) String() string {
	if t.Kind == KindRotate {
		return fmt.Sprintf("Rotate(%g, %g, %g, %g)", t.Angle, t.V[0], t.V[1], t.V[2])
	}
	return fmt.Sprintf("%s(%g, %g, %g)", t.Kind, t.V[0], t.V[1], t.V[2])
}
