package body

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Cylinder represents a cylinder collision shape of radius Radius and
// full length Length, centered at the origin with its axis along local Z
type Cylinder struct {
	Radius float64
	Length float64
	aabb   AABB
}

func (c *Cylinder) ComputeAABB(transform Transform) {
	// Exact bounds: project the axis on each world axis, the caps
	// contribute the remaining radial extent
	axis := transform.Rotation.Rotate(mgl64.Vec3{0, 0, 1})
	halfLength := c.Length / 2

	var extents mgl64.Vec3
	for i := 0; i < 3; i++ {
		radial := 1 - axis[i]*axis[i]
		if radial < 0 {
			radial = 0
		}
		extents[i] = halfLength*math.Abs(axis[i]) + c.Radius*math.Sqrt(radial)
	}

	c.aabb = AABB{
		Min: transform.Position.Sub(extents),
		Max: transform.Position.Add(extents),
	}
}

func (c *Cylinder) GetAABB() AABB {
	return c.aabb
}

func (c *Cylinder) Support(direction mgl64.Vec3) mgl64.Vec3 {
	support := mgl64.Vec3{0, 0, c.Length / 2}
	if direction.Z() < 0 {
		support[2] = -support[2]
	}

	radial := mgl64.Vec3{direction.X(), direction.Y(), 0}
	if length := radial.Len(); length > 1e-12 {
		support = support.Add(radial.Mul(c.Radius / length))
	}

	return support
}

func (c *Cylinder) GetContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	dir := direction.Normalize()
	halfLength := c.Length / 2

	// Near-axial direction: the cap rim, approximated as an octagon
	if math.Abs(dir.Z()) > 0.95 {
		z := halfLength
		if dir.Z() < 0 {
			z = -halfLength
		}

		rim := make([]mgl64.Vec3, 0, 8)
		for i := 0; i < 8; i++ {
			angle := 2 * math.Pi * float64(i) / 8
			rim = append(rim, mgl64.Vec3{
				c.Radius * math.Cos(angle),
				c.Radius * math.Sin(angle),
				z,
			})
		}
		return rim
	}

	// Otherwise the lateral segment facing the direction
	radial := mgl64.Vec3{dir.X(), dir.Y(), 0}
	if length := radial.Len(); length > 1e-12 {
		radial = radial.Mul(c.Radius / length)
	} else {
		radial = mgl64.Vec3{c.Radius, 0, 0}
	}

	return []mgl64.Vec3{
		{radial.X(), radial.Y(), -halfLength},
		{radial.X(), radial.Y(), halfLength},
	}
}

func (c *Cylinder) ScaledPadded(scale, padding float64) ShapeInterface {
	// Padding grows the radius and both caps
	return &Cylinder{
		Radius: c.Radius*scale + padding,
		Length: c.Length*scale + 2*padding,
	}
}
