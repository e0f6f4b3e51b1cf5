package body

import (
	"fmt"
	"math"
)

// NewGeometry prepares a shape for collision checking, applying the
// scale and padding configured for the body. Shared shape definitions
// are never mutated: a non-neutral scale or padding produces an
// adjusted clone. Invalid shape definitions are configuration errors.
func NewGeometry(shape ShapeInterface, scale, padding float64) (ShapeInterface, error) {
	if shape == nil {
		return nil, fmt.Errorf("cannot build collision geometry without a shape")
	}
	if err := validateShape(shape); err != nil {
		return nil, err
	}

	if neutral(scale, padding) {
		return shape, nil
	}

	if _, ok := shape.(*Plane); ok {
		return nil, fmt.Errorf("planes cannot be scaled or padded (scale=%v, padding=%v)", scale, padding)
	}
	if scale <= 0 {
		return nil, fmt.Errorf("shape scale must be positive, got %v", scale)
	}

	return shape.ScaledPadded(scale, padding), nil
}

func neutral(scale, padding float64) bool {
	const epsilon = 1e-9
	return math.Abs(scale-1.0) <= epsilon && math.Abs(padding) <= epsilon
}

func validateShape(shape ShapeInterface) error {
	switch s := shape.(type) {
	case *Sphere:
		if s.Radius <= 0 {
			return fmt.Errorf("sphere radius must be positive, got %v", s.Radius)
		}
	case *Box:
		if s.HalfExtents.X() <= 0 || s.HalfExtents.Y() <= 0 || s.HalfExtents.Z() <= 0 {
			return fmt.Errorf("box half-extents must be positive, got %v", s.HalfExtents)
		}
	case *Cylinder:
		if s.Radius <= 0 || s.Length <= 0 {
			return fmt.Errorf("cylinder radius and length must be positive, got radius=%v length=%v", s.Radius, s.Length)
		}
	case *ConvexMesh:
		if len(s.Vertices) == 0 {
			return fmt.Errorf("mesh has no vertices")
		}
	case *Plane:
		if math.Abs(s.Normal.Len()-1.0) > 1e-6 {
			return fmt.Errorf("plane normal must be normalized, got %v", s.Normal)
		}
	default:
		return fmt.Errorf("unsupported shape type %T", shape)
	}
	return nil
}
