package graze

import (
	"github.com/akmonengine/graze/body"
	"github.com/akmonengine/graze/epa"
	"github.com/akmonengine/graze/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

// ConvexGenerator is the built-in ContactGenerator for convex shapes.
//
// Plane pairs are solved analytically from the other body's supporting
// feature; everything else runs GJK for the boolean answer and EPA plus
// manifold clipping when geometry is requested. Pairs of two planes are
// unbounded and never reported.
type ConvexGenerator struct{}

func (ConvexGenerator) Collide(a, b *body.Body, query Query) []RawContact {
	_, aIsPlane := a.Shape.(*body.Plane)
	_, bIsPlane := b.Shape.(*body.Plane)

	if aIsPlane && bIsPlane {
		return nil
	}
	if aIsPlane {
		return planeContacts(a, b, query, true)
	}
	if bIsPlane {
		return planeContacts(b, a, query, false)
	}

	return convexContacts(a, b, query)
}

// convexContacts runs the GJK/EPA pipeline on two bounded convex bodies.
func convexContacts(a, b *body.Body, query Query) []RawContact {
	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer gjk.SimplexPool.Put(simplex)
	simplex.Reset()

	if !gjk.GJK(a, b, simplex) {
		return nil
	}

	// Boolean queries stop here, presence is the whole answer
	if !query.WantGeometry {
		return []RawContact{{BodyA: a, BodyB: b}}
	}

	manifold, err := epa.EPA(a, b, simplex)
	if err != nil {
		// GJK proved overlap; never contradict it. Estimate a single
		// contact from the body centers instead.
		return []RawContact{estimatedContact(a, b)}
	}

	contacts := make([]RawContact, 0, len(manifold.Points))
	for _, point := range manifold.Points {
		contacts = append(contacts, RawContact{
			Position: point.Position,
			Normal:   manifold.Normal,
			Depth:    point.Depth,
			BodyA:    a,
			BodyB:    b,
		})
	}

	if !query.Exhaustive && query.MaxContacts > 0 && len(contacts) > query.MaxContacts {
		contacts = contacts[:query.MaxContacts]
	}

	return contacts
}

// estimatedContact is the fallback when EPA cannot converge on a pair
// GJK already proved overlapping.
func estimatedContact(a, b *body.Body) RawContact {
	normal := b.Transform.Position.Sub(a.Transform.Position)
	if normal.Len() < 1e-9 {
		normal = mgl64.Vec3{0, 0, 1}
	} else {
		normal = normal.Normalize()
	}

	position := a.SupportWorld(normal).Add(b.SupportWorld(normal.Mul(-1))).Mul(0.5)

	return RawContact{
		Position: position,
		Normal:   normal,
		Depth:    epa.DegeneratePenetrationEstimate,
		BodyA:    a,
		BodyB:    b,
	}
}

// planeContacts collides a bounded body against an infinite plane. The
// deepest support point decides presence; the body's supporting feature
// provides the contact points, each with its own depth below the
// surface.
func planeContacts(planeBody, other *body.Body, query Query, planeFirst bool) []RawContact {
	plane := planeBody.Shape.(*body.Plane)

	// World-space plane equation: normal·q = offset
	normal := planeBody.Transform.Rotation.Rotate(plane.Normal)
	offset := plane.Distance + normal.Dot(planeBody.Transform.Position)

	deepest := other.SupportWorld(normal.Mul(-1))
	maxDepth := offset - normal.Dot(deepest)
	if maxDepth < 0 {
		return nil
	}

	// Contact normal separates the pair: pointing at the bounded body
	// when the plane is labeled first, into the plane otherwise
	contactNormal := normal
	bodyA, bodyB := planeBody, other
	if !planeFirst {
		contactNormal = normal.Mul(-1)
		bodyA, bodyB = other, planeBody
	}

	if !query.WantGeometry {
		return []RawContact{{BodyA: bodyA, BodyB: bodyB}}
	}

	localDir := other.Transform.InverseRotation.Rotate(normal.Mul(-1))
	feature := other.Shape.GetContactFeature(localDir)

	const tolerance = 1e-6
	contacts := make([]RawContact, 0, len(feature))
	for _, point := range feature {
		world := other.Transform.Apply(point)
		depth := offset - normal.Dot(world)
		if depth < -tolerance {
			continue
		}
		if depth < 0 {
			depth = 0
		}
		contacts = append(contacts, RawContact{
			Position: world,
			Normal:   contactNormal,
			Depth:    depth,
			BodyA:    bodyA,
			BodyB:    bodyB,
		})
	}

	// Glancing configurations can leave the whole feature above the
	// surface; keep the deepest point so presence and geometry agree
	if len(contacts) == 0 {
		contacts = append(contacts, RawContact{
			Position: deepest,
			Normal:   contactNormal,
			Depth:    maxDepth,
			BodyA:    bodyA,
			BodyB:    bodyB,
		})
	}

	if !query.Exhaustive && query.MaxContacts > 0 && len(contacts) > query.MaxContacts {
		contacts = contacts[:query.MaxContacts]
	}

	return contacts
}
