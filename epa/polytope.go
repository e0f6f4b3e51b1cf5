package epa

import (
	"fmt"
	"math"
	"sync"

	"github.com/akmonengine/graze/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

// PolytopeBuilder manages polytope expansion with reusable buffers.
type PolytopeBuilder struct {
	faces []Face

	// Sorted unique polytope vertices, for the centroid
	uniquePoints []mgl64.Vec3

	// Normalized edges (A < B) with occurrence count, for boundary detection
	edges []EdgeEntry

	visibleIndices []int
}

// EdgeEntry tracks how often an edge occurs among the visible faces.
// A boundary edge appears exactly once; internal edges appear twice.
type EdgeEntry struct {
	A, B  mgl64.Vec3 // Edge vertices (normalized: A < B)
	Count int
}

var polytopeBuilderPool = sync.Pool{
	New: func() interface{} {
		return &PolytopeBuilder{
			faces:          make([]Face, 0, polytopeInitialCapacity),
			uniquePoints:   make([]mgl64.Vec3, 0, polytopeInitialCapacity),
			edges:          make([]EdgeEntry, 0, polytopeInitialCapacity),
			visibleIndices: make([]int, 0, polytopeInitialCapacity),
		}
	},
}

// Reset prepares the builder for reuse from the pool.
func (b *PolytopeBuilder) Reset() {
	b.faces = b.faces[:0]
	b.uniquePoints = b.uniquePoints[:0]
	b.edges = b.edges[:0]
	b.visibleIndices = b.visibleIndices[:0]
}

// BuildInitialFaces creates the initial polytope from a GJK tetrahedron,
// one triangular face per tetrahedron side, filtering degenerate faces.
func (b *PolytopeBuilder) BuildInitialFaces(simplex *gjk.Simplex) error {
	if simplex.Count != 4 {
		return fmt.Errorf("invalid simplex count: %d (expected 4)", simplex.Count)
	}

	p0, p1, p2, p3 := simplex.Points[0], simplex.Points[1], simplex.Points[2], simplex.Points[3]

	// Each face is three points plus the opposite point, which orients
	// the normal outward
	candidateFaces := [4]Face{
		b.createFaceOutward(p0, p1, p2, p3), // Face ABC, opposite point is D
		b.createFaceOutward(p0, p2, p3, p1), // Face ACD, opposite point is B
		b.createFaceOutward(p0, p3, p1, p2), // Face ADB, opposite point is C
		b.createFaceOutward(p1, p3, p2, p0), // Face BDC, opposite point is A
	}

	for i := 0; i < 4; i++ {
		if candidateFaces[i].Distance >= EPAMinFaceDistance {
			b.faces = append(b.faces, candidateFaces[i])
		}
	}

	// A valid polytope needs at least 3 faces; keep everything for the
	// degenerate case
	if len(b.faces) < 3 {
		b.faces = b.faces[:0]
		for i := 0; i < 4; i++ {
			b.faces = append(b.faces, candidateFaces[i])
		}
	}

	return nil
}

// createFaceOutward creates a Face with its normal pointing outward from
// the polytope, using the opposite point as the inside reference.
func (b *PolytopeBuilder) createFaceOutward(p0, p1, p2, oppositePoint mgl64.Vec3) Face {
	var face Face
	face.Points = [3]mgl64.Vec3{p0, p1, p2}

	edge1 := p1.Sub(p0)
	edge2 := p2.Sub(p0)

	// Normal via cross product (right-hand rule)
	normal := edge1.Cross(edge2)

	normalLength := math.Sqrt(normal.Dot(normal))
	if normalLength < 1e-8 {
		// Degenerate triangle (zero area)
		face.Normal = mgl64.Vec3{0, 1, 0}
		face.Distance = EPAMinFaceDistance
		return face
	}
	normal = normal.Mul(1.0 / normalLength)

	// If the normal points toward the opposite point it points inward
	toOpposite := oppositePoint.Sub(p0)
	if normal.Dot(toOpposite) > 0 {
		normal = normal.Mul(-1)
	}

	// Distance from origin to the face plane, kept positive
	distance := p0.Dot(normal)
	if distance < 0 {
		normal = normal.Mul(-1)
		distance = -distance
	}
	if distance < EPAMinFaceDistance {
		distance = EPAMinFaceDistance
	}

	face.Normal = snapNormalToAxis(normal)
	face.Distance = distance

	return face
}

// FindClosestFaceIndex returns the index of the face closest to the
// origin, or -1 if no faces exist.
func (b *PolytopeBuilder) FindClosestFaceIndex() int {
	if len(b.faces) == 0 {
		return -1
	}

	closestIndex := 0
	minDistance := b.faces[0].Distance

	for i := 1; i < len(b.faces); i++ {
		if b.faces[i].Distance < minDistance {
			closestIndex = i
			minDistance = b.faces[i].Distance
		}
	}

	return closestIndex
}

// calculateCentroid averages the unique polytope vertices. The centroid
// is the inside reference point when orienting new faces.
func (b *PolytopeBuilder) calculateCentroid() mgl64.Vec3 {
	b.uniquePoints = b.uniquePoints[:0]

	for i := 0; i < len(b.faces); i++ {
		for j := 0; j < 3; j++ {
			b.insertUniquePoint(b.faces[i].Points[j])
		}
	}

	if len(b.uniquePoints) == 0 {
		return mgl64.Vec3{0, 0, 0}
	}

	sum := mgl64.Vec3{0, 0, 0}
	for i := 0; i < len(b.uniquePoints); i++ {
		sum = sum.Add(b.uniquePoints[i])
	}

	return sum.Mul(1.0 / float64(len(b.uniquePoints)))
}

// insertUniquePoint keeps uniquePoints sorted and free of duplicates.
func (b *PolytopeBuilder) insertUniquePoint(point mgl64.Vec3) {
	idx := b.findPointInsertionIndex(point)
	if idx < len(b.uniquePoints) && vec3Equal(b.uniquePoints[idx], point) {
		return
	}

	b.uniquePoints = append(b.uniquePoints, mgl64.Vec3{})
	copy(b.uniquePoints[idx+1:], b.uniquePoints[idx:])
	b.uniquePoints[idx] = point
}

// findPointInsertionIndex performs a binary search over the sorted
// uniquePoints buffer.
func (b *PolytopeBuilder) findPointInsertionIndex(point mgl64.Vec3) int {
	left, right := 0, len(b.uniquePoints)

	for left < right {
		mid := (left + right) / 2
		if compareVec3(b.uniquePoints[mid], point) < 0 {
			left = mid + 1
		} else {
			right = mid
		}
	}

	return left
}

// findBoundaryEdges counts edge occurrences among the visible faces.
// Edges seen exactly once form the boundary of the visible region.
func (b *PolytopeBuilder) findBoundaryEdges() {
	b.edges = b.edges[:0]

	for i := 0; i < len(b.visibleIndices); i++ {
		face := &b.faces[b.visibleIndices[i]]

		edges := [3][2]mgl64.Vec3{
			{face.Points[0], face.Points[1]},
			{face.Points[1], face.Points[2]},
			{face.Points[2], face.Points[0]},
		}

		for _, edge := range edges {
			edgeA, edgeB := edge[0], edge[1]
			if compareVec3(edgeA, edgeB) > 0 {
				edgeA, edgeB = edgeB, edgeA
			}

			if edgeIdx := b.findEdgeIndex(edgeA, edgeB); edgeIdx >= 0 {
				b.edges[edgeIdx].Count++
			} else {
				b.edges = append(b.edges, EdgeEntry{A: edgeA, B: edgeB, Count: 1})
			}
		}
	}
}

// findEdgeIndex performs a linear search for an edge; edge counts stay
// small (typically < 30) so this beats a map.
func (b *PolytopeBuilder) findEdgeIndex(edgeA, edgeB mgl64.Vec3) int {
	for i := 0; i < len(b.edges); i++ {
		if vec3Equal(b.edges[i].A, edgeA) && vec3Equal(b.edges[i].B, edgeB) {
			return i
		}
	}
	return -1
}

// findVisibleFaces collects the indices of faces visible from the
// support point (face normal pointing toward it).
func (b *PolytopeBuilder) findVisibleFaces(support mgl64.Vec3) {
	b.visibleIndices = b.visibleIndices[:0]

	for i := 0; i < len(b.faces); i++ {
		toSupport := support.Sub(b.faces[i].Points[0])
		if toSupport.Dot(b.faces[i].Normal) > 0 {
			b.visibleIndices = append(b.visibleIndices, i)
		}
	}
}

// removeVisibleFaces removes the marked faces via swap-with-last, in
// descending index order so indices stay valid during removal.
func (b *PolytopeBuilder) removeVisibleFaces() {
	for i := 0; i < len(b.visibleIndices)-1; i++ {
		for j := i + 1; j < len(b.visibleIndices); j++ {
			if b.visibleIndices[i] < b.visibleIndices[j] {
				b.visibleIndices[i], b.visibleIndices[j] = b.visibleIndices[j], b.visibleIndices[i]
			}
		}
	}

	for i := 0; i < len(b.visibleIndices); i++ {
		idx := b.visibleIndices[i]
		if idx < len(b.faces) {
			b.faces[idx] = b.faces[len(b.faces)-1]
			b.faces = b.faces[:len(b.faces)-1]
		}
	}
}

// addBoundaryFaces connects each boundary edge to the support point.
func (b *PolytopeBuilder) addBoundaryFaces(support, centroid mgl64.Vec3) {
	for i := 0; i < len(b.edges); i++ {
		if b.edges[i].Count != 1 {
			continue
		}
		b.faces = append(b.faces, b.createFaceOutward(b.edges[i].A, b.edges[i].B, support, centroid))
	}
}

// AddPointAndRebuildFaces expands the polytope with a new support point:
// find the faces that see the point, remove them, and stitch the hole's
// boundary edges to the point.
func (b *PolytopeBuilder) AddPointAndRebuildFaces(support mgl64.Vec3, closestIndex int) error {
	centroid := b.calculateCentroid()

	b.findVisibleFaces(support)

	// Never remove every face; fall back to the closest one
	if len(b.visibleIndices) >= len(b.faces) {
		b.visibleIndices = b.visibleIndices[:0]
		b.visibleIndices = append(b.visibleIndices, closestIndex)
	}

	b.findBoundaryEdges()
	b.removeVisibleFaces()
	b.addBoundaryFaces(support, centroid)

	if len(b.faces) == 0 {
		b.faces = append(b.faces, Face{
			Points:   [3]mgl64.Vec3{support, support, support},
			Normal:   mgl64.Vec3{0, 1, 0},
			Distance: EPAMinFaceDistance,
		})
	}

	return nil
}
