package body

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const testEpsilon = 1e-9

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) < testEpsilon
}

func vec3Equal(a, b mgl64.Vec3) bool {
	return floatEqual(a.X(), b.X()) && floatEqual(a.Y(), b.Y()) && floatEqual(a.Z(), b.Z())
}

// =============================================================================
// AABB Utility Function Tests
// =============================================================================

func TestAABBContainsPoint(t *testing.T) {
	aabb := AABB{
		Min: mgl64.Vec3{-1, -1, -1},
		Max: mgl64.Vec3{1, 1, 1},
	}

	tests := []struct {
		name     string
		point    mgl64.Vec3
		expected bool
	}{
		{"center", mgl64.Vec3{0, 0, 0}, true},
		{"on min corner", mgl64.Vec3{-1, -1, -1}, true},
		{"on max corner", mgl64.Vec3{1, 1, 1}, true},
		{"on face", mgl64.Vec3{1, 0, 0}, true},
		{"outside x", mgl64.Vec3{1.5, 0, 0}, false},
		{"outside y", mgl64.Vec3{0, -1.5, 0}, false},
		{"outside z", mgl64.Vec3{0, 0, 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := aabb.ContainsPoint(tt.point); got != tt.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tt.point, got, tt.expected)
			}
		})
	}
}

func TestAABBOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		aabb1    AABB
		aabb2    AABB
		expected bool
	}{
		{
			name:     "identical",
			aabb1:    AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2:    AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}},
			expected: true,
		},
		{
			name:     "partial overlap",
			aabb1:    AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2:    AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{2, 2, 2}},
			expected: true,
		},
		{
			name:     "touching faces",
			aabb1:    AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2:    AABB{Min: mgl64.Vec3{1, -1, -1}, Max: mgl64.Vec3{3, 1, 1}},
			expected: true,
		},
		{
			name:     "contained",
			aabb1:    AABB{Min: mgl64.Vec3{-2, -2, -2}, Max: mgl64.Vec3{2, 2, 2}},
			aabb2:    AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}},
			expected: true,
		},
		{
			name:     "separated on x",
			aabb1:    AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2:    AABB{Min: mgl64.Vec3{2, -1, -1}, Max: mgl64.Vec3{4, 1, 1}},
			expected: false,
		},
		{
			name:     "separated on y",
			aabb1:    AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2:    AABB{Min: mgl64.Vec3{-1, 3, -1}, Max: mgl64.Vec3{1, 5, 1}},
			expected: false,
		},
		{
			name:     "separated on z",
			aabb1:    AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2:    AABB{Min: mgl64.Vec3{-1, -1, -5}, Max: mgl64.Vec3{1, 1, -3}},
			expected: false,
		},
		{
			name:     "overlap on two axes only",
			aabb1:    AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2:    AABB{Min: mgl64.Vec3{0, 0, 4}, Max: mgl64.Vec3{2, 2, 6}},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.aabb1.Overlaps(tt.aabb2); got != tt.expected {
				t.Errorf("Overlaps() = %v, want %v", got, tt.expected)
			}
			// Overlap is symmetric
			if got := tt.aabb2.Overlaps(tt.aabb1); got != tt.expected {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.expected)
			}
		})
	}
}
