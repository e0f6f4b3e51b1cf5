// Package epa implements the Expanding Polytope Algorithm, computing
// penetration depth, contact normal and contact points for a pair of
// overlapping convex bodies.
//
// EPA runs after GJK has detected an overlap. Starting from GJK's final
// simplex it expands a polytope toward the surface of the Minkowski
// difference; the face closest to the origin yields the minimum
// translation vector separating the shapes.
//
// References:
//   - Van den Bergen: "Proximity Queries and Penetration Depth Computation
//     on 3D Game Objects" (2001)
package epa

import (
	"fmt"
	"math"

	"github.com/akmonengine/graze/body"
	"github.com/akmonengine/graze/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// EPAMaxIterations limits polytope expansion to prevent infinite loops.
	// Typical convergence: 5-15 iterations for simple shapes.
	EPAMaxIterations = 32

	// EPAConvergenceTolerance defines when EPA has converged: the support
	// point along the closest face's normal no longer improves the
	// distance by more than this.
	EPAConvergenceTolerance = 0.001

	// EPAMinFaceDistance is the minimum face distance before a face is
	// treated as degenerate and skipped.
	EPAMinFaceDistance = 0.0001

	// NormalSnapThreshold clamps nearly-zero normal components to exactly
	// zero, stabilizing axis-aligned configurations.
	NormalSnapThreshold = 1e-8

	// DegeneratePenetrationEstimate is the fallback depth when the simplex
	// has too few points for an exact answer.
	DegeneratePenetrationEstimate = 0.01

	polytopeInitialCapacity = 4
)

// ContactPoint is a single point of a contact manifold.
type ContactPoint struct {
	Position mgl64.Vec3
	Depth    float64
}

// Manifold is the result of a penetration query: the contact normal,
// pointing from the first body toward the second, and 1-4 contact points.
type Manifold struct {
	Normal mgl64.Vec3
	Points []ContactPoint
}

// EPA computes the contact manifold for two overlapping convex bodies.
//
// The simplex must come from a successful GJK run on the same pair;
// with fewer than 4 points the result is estimated from what is there.
// The returned normal points from a toward b and depths are positive.
func EPA(a, b *body.Body, simplex *gjk.Simplex) (Manifold, error) {
	if simplex.Count < 4 {
		return degenerateManifold(a, b, simplex), nil
	}

	builder := polytopeBuilderPool.Get().(*PolytopeBuilder)
	defer polytopeBuilderPool.Put(builder)
	builder.Reset()

	if err := builder.BuildInitialFaces(simplex); err != nil {
		return Manifold{}, err
	}

	var closestFaceIndex int
	var closestFace *Face
	var support mgl64.Vec3
	var distance float64

	for i := 0; i < EPAMaxIterations; i++ {
		if len(builder.faces) == 0 {
			// All faces removed (degenerate polytope)
			break
		}

		// The closest face's normal and distance are the current best
		// estimate of the minimum translation vector
		closestFaceIndex = builder.FindClosestFaceIndex()
		closestFace = &builder.faces[closestFaceIndex]

		// Faces too close to or behind the origin are degenerate
		if closestFace.Distance < EPAMinFaceDistance {
			builder.faces[closestFaceIndex] = builder.faces[len(builder.faces)-1]
			builder.faces = builder.faces[:len(builder.faces)-1]
			continue
		}

		support = gjk.MinkowskiSupport(a, b, closestFace.Normal)
		distance = support.Dot(closestFace.Normal)

		// Converged: the support point no longer pushes the face outward,
		// so this face lies on the Minkowski difference surface
		if distance-closestFace.Distance < EPAConvergenceTolerance {
			return Manifold{
				Normal: closestFace.Normal,
				Points: GenerateManifold(a, b, closestFace.Normal, closestFace.Distance),
			}, nil
		}

		if err := builder.AddPointAndRebuildFaces(support, closestFaceIndex); err != nil {
			// Return the current best estimate instead of failing
			return Manifold{
				Normal: closestFace.Normal,
				Points: GenerateManifold(a, b, closestFace.Normal, closestFace.Distance),
			}, nil
		}
	}

	return Manifold{}, fmt.Errorf("EPA failed to converge after %d iterations", EPAMaxIterations)
}

// degenerateManifold estimates a contact when GJK stopped with an
// incomplete simplex, which happens when shapes touch rather than
// overlap. With 2+ points the closest one to the origin provides the
// estimate, otherwise the body centers do.
func degenerateManifold(bodyA, bodyB *body.Body, simplex *gjk.Simplex) Manifold {
	if simplex.Count >= 2 {
		a := simplex.Points[0]
		b := simplex.Points[1]

		distA := math.Sqrt(a.Dot(a))
		distB := math.Sqrt(b.Dot(b))

		var penetration float64
		var normal mgl64.Vec3

		if distA < distB {
			penetration = distA
			normal = a.Normalize()
		} else {
			penetration = distB
			normal = b.Normalize()
		}

		return Manifold{
			Normal: normal,
			Points: GenerateManifold(bodyA, bodyB, normal, penetration),
		}
	}

	// Single point: estimate the normal from the body centers
	normal := bodyB.Transform.Position.Sub(bodyA.Transform.Position)
	normalLen := normal.Len()

	if normalLen < NormalSnapThreshold {
		// Centers coincide, fall back to an arbitrary direction
		normal = mgl64.Vec3{0, 1, 0}
	} else {
		normal = normal.Mul(1.0 / normalLen)
	}

	return Manifold{
		Normal: normal,
		Points: GenerateManifold(bodyA, bodyB, normal, DegeneratePenetrationEstimate),
	}
}

// snapNormalToAxis clamps nearly-zero components of a normal to exactly
// zero and renormalizes, preventing tiny floating-point errors from
// tilting axis-aligned contact normals.
func snapNormalToAxis(normal mgl64.Vec3) mgl64.Vec3 {
	const threshold = NormalSnapThreshold

	x := normal[0]
	y := normal[1]
	z := normal[2]

	if math.Abs(x) < threshold {
		x = 0
	}
	if math.Abs(y) < threshold {
		y = 0
	}
	if math.Abs(z) < threshold {
		z = 0
	}

	clamped := mgl64.Vec3{x, y, z}

	length := math.Sqrt(clamped.Dot(clamped))
	if length > 1e-8 {
		return clamped.Mul(1.0 / length)
	}

	// Everything clamped away, return a default
	return mgl64.Vec3{0, 1, 0}
}
