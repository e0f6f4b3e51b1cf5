package body

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Body is a single collidable object: an identity naming it, a
// collision shape and a world placement.
type Body struct {
	Identity  *Identity
	Shape     ShapeInterface
	Transform Transform
}

// NewBody builds a body from a shape definition, applying the
// configured scale and padding to the collision geometry.
func NewBody(identity *Identity, shape ShapeInterface, transform Transform, scale, padding float64) (*Body, error) {
	if identity == nil || identity.ID == "" {
		return nil, fmt.Errorf("body requires a named identity")
	}

	geometry, err := NewGeometry(shape, scale, padding)
	if err != nil {
		return nil, fmt.Errorf("body %s: %w", identity.ID, err)
	}

	b := &Body{
		Identity:  identity,
		Shape:     geometry,
		Transform: transform,
	}
	b.ComputeAABB()

	return b, nil
}

// ComputeAABB refreshes the shape's cached world-space bounds.
func (b *Body) ComputeAABB() {
	b.Shape.ComputeAABB(b.Transform)
}

// SupportWorld returns the world-space extreme point of the body along
// the given direction.
func (b *Body) SupportWorld(direction mgl64.Vec3) mgl64.Vec3 {
	localDirection := b.Transform.InverseRotation.Rotate(direction)
	localSupport := b.Shape.Support(localDirection)

	return b.Transform.Apply(localSupport)
}
