package epa

import (
	"math"

	"github.com/akmonengine/graze/body"
	"github.com/go-gl/mathgl/mgl64"
)

// GenerateManifold creates the contact points for an overlap using
// Sutherland-Hodgman clipping.
//
// Each shape contributes its supporting feature (point, edge or face)
// along the contact normal; the smaller feature is clipped against the
// side planes of the larger one and the surviving points, filtered to
// those behind the reference plane, become the manifold. The result is
// 1-4 points, reduced by extremal projection when clipping yields more.
//
// The normal must point from bodyA toward bodyB and depth must be the
// (positive) penetration depth, typically straight from EPA's closest
// face.
func GenerateManifold(bodyA, bodyB *body.Body, normal mgl64.Vec3, depth float64) []ContactPoint {
	// Feature queries run in each body's local frame
	localNormalA := bodyA.Transform.Rotation.Conjugate().Rotate(normal)
	localNormalB := bodyB.Transform.Rotation.Conjugate().Rotate(normal.Mul(-1))

	featureA := bodyA.Shape.GetContactFeature(localNormalA)
	featureB := bodyB.Shape.GetContactFeature(localNormalB)

	worldFeatureA := transformFeature(featureA, bodyA.Transform)
	worldFeatureB := transformFeature(featureB, bodyB.Transform)

	// The smaller feature is the incident one, clipped against the larger
	var incident, reference []mgl64.Vec3

	if len(worldFeatureB) <= len(worldFeatureA) {
		incident = worldFeatureB
		reference = worldFeatureA
	} else {
		incident = worldFeatureA
		reference = worldFeatureB
	}

	// Single incident point: that is the manifold
	if len(incident) == 1 {
		return []ContactPoint{{
			Position: incident[0],
			Depth:    depth,
		}}
	}

	clipped := clipIncidentAgainstReference(incident, reference, normal)

	// Keep the clipped points lying behind the reference plane
	var contactPoints []ContactPoint
	if len(clipped) > 0 && len(reference) > 0 {
		// The reference plane normal comes from the feature geometry when
		// it spans a face, otherwise the contact normal stands in
		refNormal := normal
		if len(reference) >= 3 {
			edge1 := reference[1].Sub(reference[0])
			edge2 := reference[2].Sub(reference[0])
			if cross := edge1.Cross(edge2); cross.Len() > 1e-12 {
				refNormal = cross.Normalize()
				if refNormal.Dot(normal) < 0 {
					refNormal = refNormal.Mul(-1)
				}
			}
		}

		offset := reference[0].Dot(refNormal)

		for _, point := range clipped {
			if point.Dot(refNormal)-offset <= 0.0 {
				contactPoints = append(contactPoints, ContactPoint{
					Position: point,
					Depth:    depth,
				})
			}
		}
	}

	// Clipping can eat every point for glancing configurations; fall back
	// to the deepest point of B
	if len(contactPoints) == 0 {
		deepest := bodyB.SupportWorld(normal.Mul(-1))
		contactPoints = append(contactPoints, ContactPoint{
			Position: deepest,
			Depth:    depth,
		})
	}

	if len(contactPoints) > 4 {
		contactPoints = reduceTo4Points(contactPoints, normal)
	}

	return contactPoints
}

// clipIncidentAgainstReference clips the incident polygon against the
// side planes of the reference polygon, trimming it to the contact
// region. References with fewer than 3 points have no side planes and
// leave the incident feature untouched.
func clipIncidentAgainstReference(incident, reference []mgl64.Vec3, normal mgl64.Vec3) []mgl64.Vec3 {
	if len(reference) < 3 {
		return incident
	}

	output := incident
	center := computeCenter(reference)

	var edge, clipNormal, toCenter mgl64.Vec3
	for i := 0; i < len(reference); i++ {
		if len(output) == 0 {
			break
		}

		v1 := reference[i]
		v2 := reference[(i+1)%len(reference)]

		// Side plane: perpendicular to the edge, pointing inward
		edge = v2.Sub(v1)
		clipNormal = edge.Cross(normal)
		if clipNormal.Len() < 1e-12 {
			continue
		}
		clipNormal = clipNormal.Normalize()

		toCenter = center.Sub(v1)
		if toCenter.Dot(clipNormal) < 0 {
			clipNormal = clipNormal.Mul(-1)
		}

		output = clipPolygonAgainstPlane(output, v1, clipNormal)
	}

	return output
}

// clipPolygonAgainstPlane implements Sutherland-Hodgman for a single plane.
func clipPolygonAgainstPlane(polygon []mgl64.Vec3, planePoint, planeNormal mgl64.Vec3) []mgl64.Vec3 {
	if len(polygon) == 0 {
		return polygon
	}

	var output []mgl64.Vec3
	var intersection mgl64.Vec3
	for i := 0; i < len(polygon); i++ {
		current := polygon[i]
		next := polygon[(i+1)%len(polygon)]

		currentDist := current.Sub(planePoint).Dot(planeNormal)
		nextDist := next.Sub(planePoint).Dot(planeNormal)

		const tolerance = 1e-6

		if currentDist >= -tolerance {
			output = append(output, current)

			// Next is outside → add the crossing point
			if nextDist < -tolerance {
				intersection = lineIntersectPlane(current, next, planePoint, planeNormal)
				output = append(output, intersection)
			}
		} else if nextDist >= -tolerance {
			// Current is outside, next is inside → add the crossing point
			intersection = lineIntersectPlane(current, next, planePoint, planeNormal)
			output = append(output, intersection)
		}
	}

	return output
}

// lineIntersectPlane calculates the intersection between a line segment and a plane.
func lineIntersectPlane(p1, p2, planePoint, planeNormal mgl64.Vec3) mgl64.Vec3 {
	dir := p2.Sub(p1)
	dist := p1.Sub(planePoint).Dot(planeNormal)
	denom := dir.Dot(planeNormal)

	if math.Abs(denom) < 1e-10 {
		return p1 // Segment parallel to plane
	}

	t := -dist / denom
	t = math.Max(0, math.Min(1, t)) // Clamp to segment

	return p1.Add(dir.Mul(t))
}

// computeCenter calculates the centroid of a set of points.
func computeCenter(points []mgl64.Vec3) mgl64.Vec3 {
	if len(points) == 0 {
		return mgl64.Vec3{0, 0, 0}
	}

	sum := mgl64.Vec3{0, 0, 0}
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1.0 / float64(len(points)))
}

func transformFeature(feature []mgl64.Vec3, transform body.Transform) []mgl64.Vec3 {
	result := make([]mgl64.Vec3, len(feature))
	for i, point := range feature {
		result[i] = transform.Apply(point)
	}
	return result
}

// reduceTo4Points keeps the extremal points of the manifold in the
// contact tangent plane, the four that preserve the largest area.
func reduceTo4Points(points []ContactPoint, normal mgl64.Vec3) []ContactPoint {
	tangent1, tangent2 := tangentBasis(normal)

	minX, maxX, minY, maxY := 0, 0, 0, 0
	minXval, maxXval := math.Inf(1), math.Inf(-1)
	minYval, maxYval := math.Inf(1), math.Inf(-1)

	for i, p := range points {
		x := p.Position.Dot(tangent1)
		y := p.Position.Dot(tangent2)

		if x < minXval {
			minXval, minX = x, i
		}
		if x > maxXval {
			maxXval, maxX = x, i
		}
		if y < minYval {
			minYval, minY = y, i
		}
		if y > maxYval {
			maxYval, maxY = y, i
		}
	}

	indices := map[int]bool{minX: true, maxX: true, minY: true, maxY: true}

	result := make([]ContactPoint, 0, 4)
	for idx := range indices {
		result = append(result, points[idx])
	}

	return result
}

func tangentBasis(normal mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	tangent1 := mgl64.Vec3{1, 0, 0}
	if math.Abs(normal.X()) > 0.9 {
		tangent1 = mgl64.Vec3{0, 1, 0}
	}

	tangent1 = tangent1.Sub(normal.Mul(tangent1.Dot(normal))).Normalize()
	tangent2 := normal.Cross(tangent1).Normalize()

	return tangent1, tangent2
}
