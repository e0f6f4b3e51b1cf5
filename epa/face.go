package epa

import "github.com/go-gl/mathgl/mgl64"

// Face is a triangle of the expanding polytope, with its outward normal
// and the distance from the origin to its plane.
type Face struct {
	Points   [3]mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// compareVec3 orders vectors lexicographically (x, then y, then z), used
// to normalize edges for boundary detection.
func compareVec3(a, b mgl64.Vec3) int {
	if a[0] != b[0] {
		if a[0] < b[0] {
			return -1
		}
		return 1
	}
	if a[1] != b[1] {
		if a[1] < b[1] {
			return -1
		}
		return 1
	}
	if a[2] != b[2] {
		if a[2] < b[2] {
			return -1
		}
		return 1
	}
	return 0
}

// vec3Equal performs exact equality, used for point deduplication where
// support points repeat bit-for-bit.
func vec3Equal(a, b mgl64.Vec3) bool {
	return a[0] == b[0] && a[1] == b[1] && a[2] == b[2]
}
