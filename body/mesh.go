package body

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ConvexMesh is a convex vertex cloud, optionally carrying triangle
// indices for hosts that track surface topology. Support queries only
// look at the vertices; results are exact only for convex input.
type ConvexMesh struct {
	Vertices  []mgl64.Vec3
	Triangles [][3]int
	aabb      AABB
}

func (m *ConvexMesh) ComputeAABB(transform Transform) {
	if len(m.Vertices) == 0 {
		m.aabb = AABB{Min: transform.Position, Max: transform.Position}
		return
	}

	world := transform.Apply(m.Vertices[0])
	min := world
	max := world

	for _, vertex := range m.Vertices[1:] {
		world = transform.Apply(vertex)

		min[0] = math.Min(min[0], world[0])
		min[1] = math.Min(min[1], world[1])
		min[2] = math.Min(min[2], world[2])

		max[0] = math.Max(max[0], world[0])
		max[1] = math.Max(max[1], world[1])
		max[2] = math.Max(max[2], world[2])
	}

	m.aabb = AABB{Min: min, Max: max}
}

func (m *ConvexMesh) GetAABB() AABB {
	return m.aabb
}

func (m *ConvexMesh) Support(direction mgl64.Vec3) mgl64.Vec3 {
	best := m.Vertices[0]
	bestDot := direction.Dot(best)

	for _, vertex := range m.Vertices[1:] {
		if dot := direction.Dot(vertex); dot > bestDot {
			bestDot = dot
			best = vertex
		}
	}

	return best
}

// GetContactFeature returns every vertex on the supporting face, edge
// or corner for the direction.
func (m *ConvexMesh) GetContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	const tolerance = 1e-6

	dir := direction.Normalize()
	bestDot := -math.MaxFloat64
	for _, vertex := range m.Vertices {
		if dot := dir.Dot(vertex); dot > bestDot {
			bestDot = dot
		}
	}

	var feature []mgl64.Vec3
	for _, vertex := range m.Vertices {
		if dir.Dot(vertex) >= bestDot-tolerance {
			feature = append(feature, vertex)
		}
	}

	return feature
}

// Centroid returns the vertex average, the reference point for scaling
// and padding.
func (m *ConvexMesh) Centroid() mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, vertex := range m.Vertices {
		sum = sum.Add(vertex)
	}
	return sum.Mul(1.0 / float64(len(m.Vertices)))
}

// ScaledPadded scales every vertex about the centroid, then pushes it
// outward by the padding margin along its radial direction.
func (m *ConvexMesh) ScaledPadded(scale, padding float64) ShapeInterface {
	centroid := m.Centroid()

	vertices := make([]mgl64.Vec3, len(m.Vertices))
	for i, vertex := range m.Vertices {
		offset := vertex.Sub(centroid)
		vertices[i] = centroid.Add(offset.Mul(scale))
		if length := offset.Len(); padding != 0 && length > 1e-12 {
			vertices[i] = vertices[i].Add(offset.Mul(padding / length))
		}
	}

	triangles := make([][3]int, len(m.Triangles))
	copy(triangles, m.Triangles)

	return &ConvexMesh{Vertices: vertices, Triangles: triangles}
}
