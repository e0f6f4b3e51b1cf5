package body

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeInterface is the interface that all collision shapes must implement
type ShapeInterface interface {
	// ComputeAABB calculates the axis-aligned bounding box for the shape
	// at the given transform
	ComputeAABB(transform Transform)
	GetAABB() AABB
	// Support returns the local-space extreme point along a direction
	Support(direction mgl64.Vec3) mgl64.Vec3
	// GetContactFeature returns the local-space face, edge or vertex
	// supporting the given direction, used for manifold clipping
	GetContactFeature(direction mgl64.Vec3) []mgl64.Vec3
	// ScaledPadded returns a copy of the shape grown by the given scale
	// factor and padding margin. The receiver is never mutated; shared
	// shape definitions stay pristine.
	ScaledPadded(scale, padding float64) ShapeInterface
}

// Box represents an oriented box collision shape
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
	aabb        AABB
}

func (b *Box) ComputeAABB(transform Transform) {
	corners := [8]mgl64.Vec3{
		{-b.HalfExtents.X(), -b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{+b.HalfExtents.X(), -b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{-b.HalfExtents.X(), +b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{+b.HalfExtents.X(), +b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{-b.HalfExtents.X(), -b.HalfExtents.Y(), +b.HalfExtents.Z()},
		{+b.HalfExtents.X(), -b.HalfExtents.Y(), +b.HalfExtents.Z()},
		{-b.HalfExtents.X(), +b.HalfExtents.Y(), +b.HalfExtents.Z()},
		{+b.HalfExtents.X(), +b.HalfExtents.Y(), +b.HalfExtents.Z()},
	}

	worldCorner := transform.Apply(corners[0])
	min := worldCorner
	max := worldCorner

	for i := 1; i < 8; i++ {
		worldCorner = transform.Apply(corners[i])

		min[0] = math.Min(min[0], worldCorner[0])
		min[1] = math.Min(min[1], worldCorner[1])
		min[2] = math.Min(min[2], worldCorner[2])

		max[0] = math.Max(max[0], worldCorner[0])
		max[1] = math.Max(max[1], worldCorner[1])
		max[2] = math.Max(max[2], worldCorner[2])
	}

	b.aabb = AABB{Min: min, Max: max}
}

func (b *Box) GetAABB() AABB {
	return b.aabb
}

func (b *Box) Support(direction mgl64.Vec3) mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()

	if direction.X() < 0 {
		hx = -hx
	}
	if direction.Y() < 0 {
		hy = -hy
	}
	if direction.Z() < 0 {
		hz = -hz
	}

	return mgl64.Vec3{hx, hy, hz}
}

func (b *Box) GetContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	dir := direction.Normalize()

	// Pick the face whose outward normal points the most along the
	// direction (vertices in CCW order seen from outside)
	bestDot := -math.MaxFloat64
	var bestFace []mgl64.Vec3

	hx := b.HalfExtents.X()
	hy := b.HalfExtents.Y()
	hz := b.HalfExtents.Z()

	faces := []struct {
		normal   mgl64.Vec3
		vertices []mgl64.Vec3
	}{
		// +X face
		{
			normal: mgl64.Vec3{1, 0, 0},
			vertices: []mgl64.Vec3{
				{hx, -hy, -hz},
				{hx, -hy, hz},
				{hx, hy, hz},
				{hx, hy, -hz},
			},
		},
		// -X face
		{
			normal: mgl64.Vec3{-1, 0, 0},
			vertices: []mgl64.Vec3{
				{-hx, -hy, hz},
				{-hx, -hy, -hz},
				{-hx, hy, -hz},
				{-hx, hy, hz},
			},
		},
		// +Y face
		{
			normal: mgl64.Vec3{0, 1, 0},
			vertices: []mgl64.Vec3{
				{-hx, hy, -hz},
				{-hx, hy, hz},
				{hx, hy, hz},
				{hx, hy, -hz},
			},
		},
		// -Y face
		{
			normal: mgl64.Vec3{0, -1, 0},
			vertices: []mgl64.Vec3{
				{-hx, -hy, hz},
				{hx, -hy, hz},
				{hx, -hy, -hz},
				{-hx, -hy, -hz},
			},
		},
		// +Z face
		{
			normal: mgl64.Vec3{0, 0, 1},
			vertices: []mgl64.Vec3{
				{-hx, -hy, hz},
				{-hx, hy, hz},
				{hx, hy, hz},
				{hx, -hy, hz},
			},
		},
		// -Z face
		{
			normal: mgl64.Vec3{0, 0, -1},
			vertices: []mgl64.Vec3{
				{hx, -hy, -hz},
				{hx, hy, -hz},
				{-hx, hy, -hz},
				{-hx, -hy, -hz},
			},
		},
	}

	for _, face := range faces {
		dot := dir.Dot(face.normal)
		if dot > bestDot {
			bestDot = dot
			bestFace = face.vertices
		}
	}

	return bestFace
}

func (b *Box) ScaledPadded(scale, padding float64) ShapeInterface {
	return &Box{
		HalfExtents: mgl64.Vec3{
			b.HalfExtents.X()*scale + padding,
			b.HalfExtents.Y()*scale + padding,
			b.HalfExtents.Z()*scale + padding,
		},
	}
}

// Sphere represents a spherical collision shape
type Sphere struct {
	Radius float64
	aabb   AABB
}

// ComputeAABB calculates the axis-aligned bounding box for the sphere
func (s *Sphere) ComputeAABB(transform Transform) {
	// Sphere AABB is not affected by rotation, only by position
	radiusVec := mgl64.Vec3{s.Radius, s.Radius, s.Radius}

	s.aabb = AABB{
		Min: transform.Position.Sub(radiusVec),
		Max: transform.Position.Add(radiusVec),
	}
}

func (s *Sphere) GetAABB() AABB {
	return s.aabb
}

func (s *Sphere) Support(direction mgl64.Vec3) mgl64.Vec3 {
	return direction.Normalize().Mul(s.Radius)
}

func (s *Sphere) GetContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	return []mgl64.Vec3{s.Support(direction)}
}

func (s *Sphere) ScaledPadded(scale, padding float64) ShapeInterface {
	return &Sphere{Radius: s.Radius*scale + padding}
}

// Plane represents an infinite plane collision shape
// The plane is defined by the equation: Normal · p = Distance
// where Normal is the plane's normal vector (must be normalized)
// and Distance is the signed distance from the origin along the normal
type Plane struct {
	Normal   mgl64.Vec3 // Plane normal (must be normalized)
	Distance float64    // Plane constant (signed distance from origin)
	aabb     AABB
}

func (p *Plane) ComputeAABB(transform Transform) {
	const thickness = 1.0 // detection thickness below the surface
	const infinity = 1e10 // stand-in for the unbounded directions

	// Point on the plane closest to the origin
	// Assumes p.Normal is normalized
	planePoint := p.Normal.Mul(p.Distance)

	min := planePoint.Sub(p.Normal.Mul(thickness)).Add(transform.Position)
	max := planePoint.Add(transform.Position)

	absNormal := mgl64.Vec3{
		math.Abs(p.Normal.X()),
		math.Abs(p.Normal.Y()),
		math.Abs(p.Normal.Z()),
	}

	// Extend to infinity on every axis not aligned with the normal
	threshold := 1.0

	if absNormal.X() < threshold {
		min[0] = -infinity
		max[0] = infinity
	}
	if absNormal.Y() < threshold {
		min[1] = -infinity
		max[1] = infinity
	}
	if absNormal.Z() < threshold {
		min[2] = -infinity
		max[2] = infinity
	}

	p.aabb = AABB{Min: min, Max: max}
}

func (p *Plane) GetAABB() AABB {
	return p.aabb
}

// Support treats the plane as a large thin slab. Narrow-phase queries
// never route plane pairs through support mappings, this only backs
// bounding-box maintenance.
func (p *Plane) Support(direction mgl64.Vec3) mgl64.Vec3 {
	const halfWidth = 1000.0
	const halfThickness = 0.5

	support := p.Normal.Mul(p.Distance)
	if direction.Dot(p.Normal) < 0 {
		support = support.Sub(p.Normal.Mul(halfThickness))
	}

	tangent1, tangent2 := getTangentBasis(p.Normal)
	if direction.Dot(tangent1) < 0 {
		tangent1 = tangent1.Mul(-1)
	}
	if direction.Dot(tangent2) < 0 {
		tangent2 = tangent2.Mul(-1)
	}

	return support.Add(tangent1.Mul(halfWidth)).Add(tangent2.Mul(halfWidth))
}

func (p *Plane) GetContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	// Four corners of a large square on the surface, in local space
	tangent1, tangent2 := getTangentBasis(p.Normal)

	size := 1000.0
	center := p.Normal.Mul(p.Distance)

	return []mgl64.Vec3{
		center.Add(tangent1.Mul(-size)).Add(tangent2.Mul(-size)),
		center.Add(tangent1.Mul(-size)).Add(tangent2.Mul(size)),
		center.Add(tangent1.Mul(size)).Add(tangent2.Mul(size)),
		center.Add(tangent1.Mul(size)).Add(tangent2.Mul(-size)),
	}
}

// ScaledPadded returns the plane unchanged: an infinite plane has no
// meaningful scale or padding. NewGeometry rejects the combination
// before this is ever reached.
func (p *Plane) ScaledPadded(scale, padding float64) ShapeInterface {
	return &Plane{Normal: p.Normal, Distance: p.Distance}
}

// Helper to generate the tangent basis
func getTangentBasis(normal mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	var tangent1 mgl64.Vec3
	if math.Abs(normal.X()) > 0.9 {
		tangent1 = mgl64.Vec3{0, 1, 0}
	} else {
		tangent1 = mgl64.Vec3{1, 0, 0}
	}

	tangent1 = tangent1.Sub(normal.Mul(tangent1.Dot(normal))).Normalize()
	tangent2 := normal.Cross(tangent1).Normalize()

	return tangent1, tangent2
}
