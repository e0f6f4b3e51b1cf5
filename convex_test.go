package graze

import (
	"math"
	"testing"

	"github.com/akmonengine/graze/body"
	"github.com/go-gl/mathgl/mgl64"
)

// Shared geometry helpers for the narrow-phase and world tests

func createBox(id string, position, halfExtents mgl64.Vec3) *body.Body {
	b := &body.Body{
		Identity:  body.NewIdentity(id, body.CategoryWorldObject),
		Shape:     &body.Box{HalfExtents: halfExtents},
		Transform: body.FromPose(position, mgl64.QuatIdent()),
	}
	b.ComputeAABB()
	return b
}

func createSphere(id string, position mgl64.Vec3, radius float64) *body.Body {
	b := &body.Body{
		Identity:  body.NewIdentity(id, body.CategoryWorldObject),
		Shape:     &body.Sphere{Radius: radius},
		Transform: body.FromPose(position, mgl64.QuatIdent()),
	}
	b.ComputeAABB()
	return b
}

func createPlane(id string, normal mgl64.Vec3, distance float64) *body.Body {
	b := &body.Body{
		Identity:  body.NewIdentity(id, body.CategoryWorldObject),
		Shape:     &body.Plane{Normal: normal, Distance: distance},
		Transform: body.NewTransform(),
	}
	b.ComputeAABB()
	return b
}

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// =============================================================================
// Convex vs convex
// =============================================================================

func TestConvexGenerator_SeparatedShapes(t *testing.T) {
	generator := ConvexGenerator{}

	tests := []struct {
		name string
		a, b *body.Body
	}{
		{
			"spheres apart",
			createSphere("a", mgl64.Vec3{0, 0, 0}, 0.5),
			createSphere("b", mgl64.Vec3{3, 0, 0}, 0.5),
		},
		{
			"boxes apart",
			createBox("a", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0.5, 0.5, 0.5}),
			createBox("b", mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0.5, 0.5, 0.5}),
		},
		{
			"box above plane",
			createPlane("ground", mgl64.Vec3{0, 0, 1}, 0),
			createBox("crate", mgl64.Vec3{0, 0, 2}, mgl64.Vec3{0.5, 0.5, 0.5}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if raw := generator.Collide(tt.a, tt.b, ExhaustiveQuery()); len(raw) != 0 {
				t.Errorf("Expected no contacts for separated shapes, got %d", len(raw))
			}
		})
	}
}

func TestConvexGenerator_OverlappingSpheres(t *testing.T) {
	generator := ConvexGenerator{}
	a := createSphere("a", mgl64.Vec3{0, 0, 0}, 0.5)
	b := createSphere("b", mgl64.Vec3{0.5, 0, 0}, 0.5)

	t.Run("boolean", func(t *testing.T) {
		raw := generator.Collide(a, b, BooleanQuery())
		if len(raw) != 1 {
			t.Fatalf("Expected a single presence contact, got %d", len(raw))
		}
		if raw[0].BodyA != a || raw[0].BodyB != b {
			t.Error("Expected the contact labeled in call order")
		}
	})

	t.Run("with geometry", func(t *testing.T) {
		raw := generator.Collide(a, b, BoundedQuery(4))
		if len(raw) == 0 {
			t.Fatal("Expected at least one contact with geometry")
		}

		contact := raw[0]
		if contact.Normal.X() < 0.9 {
			t.Errorf("Expected the normal pointing from a toward b, got %v", contact.Normal)
		}
		if math.Abs(contact.Depth-0.5) > 0.05 {
			t.Errorf("Expected penetration depth near 0.5, got %v", contact.Depth)
		}
	})
}

func TestConvexGenerator_BoxStack(t *testing.T) {
	generator := ConvexGenerator{}
	lower := createBox("lower", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0.5, 0.5, 0.5})
	upper := createBox("upper", mgl64.Vec3{0, 0, 0.9}, mgl64.Vec3{0.5, 0.5, 0.5})

	raw := generator.Collide(lower, upper, ExhaustiveQuery())
	if len(raw) == 0 {
		t.Fatal("Expected contacts for overlapping boxes")
	}
	if len(raw) > 4 {
		t.Errorf("Expected the manifold reduced to at most 4 points, got %d", len(raw))
	}

	for i, contact := range raw {
		if contact.Normal.Z() < 0.99 {
			t.Errorf("Contact %d: expected the normal along +Z, got %v", i, contact.Normal)
		}
		if math.Abs(contact.Depth-0.1) > 0.02 {
			t.Errorf("Contact %d: expected depth near 0.1, got %v", i, contact.Depth)
		}
	}
}

func TestConvexGenerator_ConcentricSpheres(t *testing.T) {
	generator := ConvexGenerator{}
	a := createSphere("a", mgl64.Vec3{1, 1, 1}, 0.5)
	b := createSphere("b", mgl64.Vec3{1, 1, 1}, 0.5)

	// Full overlap must still report presence and positive depth
	raw := generator.Collide(a, b, BoundedQuery(4))
	if len(raw) == 0 {
		t.Fatal("Expected contacts for coincident spheres")
	}
	if raw[0].Depth <= 0 {
		t.Errorf("Expected positive penetration depth, got %v", raw[0].Depth)
	}
}

func TestConvexGenerator_BoundedClamp(t *testing.T) {
	generator := ConvexGenerator{}
	lower := createBox("lower", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0.5, 0.5, 0.5})
	upper := createBox("upper", mgl64.Vec3{0, 0, 0.9}, mgl64.Vec3{0.5, 0.5, 0.5})

	raw := generator.Collide(lower, upper, BoundedQuery(2))
	if len(raw) > 2 {
		t.Errorf("Expected at most 2 contacts for a bounded query, got %d", len(raw))
	}
}

// =============================================================================
// Plane pairs
// =============================================================================

func TestConvexGenerator_BoxOnPlane(t *testing.T) {
	generator := ConvexGenerator{}
	ground := createPlane("ground", mgl64.Vec3{0, 0, 1}, 0)
	crate := createBox("crate", mgl64.Vec3{0, 0, 0.4}, mgl64.Vec3{0.5, 0.5, 0.5})

	raw := generator.Collide(ground, crate, ExhaustiveQuery())
	if len(raw) != 4 {
		t.Fatalf("Expected the 4 corners of the resting face, got %d contacts", len(raw))
	}

	for i, contact := range raw {
		if !floatEqual(contact.Normal.Z(), 1) {
			t.Errorf("Contact %d: expected the plane normal, got %v", i, contact.Normal)
		}
		if !floatEqual(contact.Depth, 0.1) {
			t.Errorf("Contact %d: expected depth 0.1, got %v", i, contact.Depth)
		}
		if !floatEqual(contact.Position.Z(), -0.1) {
			t.Errorf("Contact %d: expected the corner below the surface, got %v", i, contact.Position)
		}
		if contact.BodyA != ground || contact.BodyB != crate {
			t.Errorf("Contact %d: expected labels in call order", i)
		}
	}
}

func TestConvexGenerator_PlaneSecondFlipsNormal(t *testing.T) {
	generator := ConvexGenerator{}
	ground := createPlane("ground", mgl64.Vec3{0, 0, 1}, 0)
	crate := createBox("crate", mgl64.Vec3{0, 0, 0.4}, mgl64.Vec3{0.5, 0.5, 0.5})

	raw := generator.Collide(crate, ground, ExhaustiveQuery())
	if len(raw) != 4 {
		t.Fatalf("Expected 4 contacts, got %d", len(raw))
	}

	// Labeled (crate, ground): the normal points from the box into the plane
	for i, contact := range raw {
		if !floatEqual(contact.Normal.Z(), -1) {
			t.Errorf("Contact %d: expected the flipped normal, got %v", i, contact.Normal)
		}
		if contact.BodyA != crate || contact.BodyB != ground {
			t.Errorf("Contact %d: expected labels in call order", i)
		}
	}
}

func TestConvexGenerator_SphereOnPlane(t *testing.T) {
	generator := ConvexGenerator{}
	ground := createPlane("ground", mgl64.Vec3{0, 0, 1}, 0)
	ball := createSphere("ball", mgl64.Vec3{2, 3, 0.3}, 0.5)

	raw := generator.Collide(ground, ball, ExhaustiveQuery())
	if len(raw) != 1 {
		t.Fatalf("Expected a single lowest-point contact, got %d", len(raw))
	}

	contact := raw[0]
	if !floatEqual(contact.Depth, 0.2) {
		t.Errorf("Expected depth 0.2, got %v", contact.Depth)
	}
	if !floatEqual(contact.Position.X(), 2) || !floatEqual(contact.Position.Y(), 3) ||
		!floatEqual(contact.Position.Z(), -0.2) {
		t.Errorf("Expected the contact at the sphere's lowest point, got %v", contact.Position)
	}
}

func TestConvexGenerator_PlaneBooleanQuery(t *testing.T) {
	generator := ConvexGenerator{}
	ground := createPlane("ground", mgl64.Vec3{0, 0, 1}, 0)
	crate := createBox("crate", mgl64.Vec3{0, 0, 0.4}, mgl64.Vec3{0.5, 0.5, 0.5})

	raw := generator.Collide(ground, crate, BooleanQuery())
	if len(raw) != 1 {
		t.Fatalf("Expected a single presence contact, got %d", len(raw))
	}
	if raw[0].BodyA != ground || raw[0].BodyB != crate {
		t.Error("Expected the presence contact labeled in call order")
	}
}

func TestConvexGenerator_OffsetPlane(t *testing.T) {
	generator := ConvexGenerator{}
	// Wall at x = 2 facing -X
	wall := createPlane("wall", mgl64.Vec3{-1, 0, 0}, -2)
	ball := createSphere("ball", mgl64.Vec3{1.8, 0, 0}, 0.5)

	raw := generator.Collide(wall, ball, ExhaustiveQuery())
	if len(raw) != 1 {
		t.Fatalf("Expected one contact against the wall, got %d", len(raw))
	}
	if !floatEqual(raw[0].Depth, 0.3) {
		t.Errorf("Expected depth 0.3, got %v", raw[0].Depth)
	}
}

func TestConvexGenerator_PlanePlane(t *testing.T) {
	generator := ConvexGenerator{}
	ground := createPlane("ground", mgl64.Vec3{0, 0, 1}, 0)
	wall := createPlane("wall", mgl64.Vec3{1, 0, 0}, 0)

	if raw := generator.Collide(ground, wall, ExhaustiveQuery()); raw != nil {
		t.Errorf("Expected plane pairs never reported, got %d contacts", len(raw))
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkConvexGenerator_SpherePair(b *testing.B) {
	generator := ConvexGenerator{}
	s1 := createSphere("a", mgl64.Vec3{0, 0, 0}, 0.5)
	s2 := createSphere("b", mgl64.Vec3{0.5, 0, 0}, 0.5)
	query := BoundedQuery(4)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		generator.Collide(s1, s2, query)
	}
}

func BenchmarkConvexGenerator_BoxOnPlane(b *testing.B) {
	generator := ConvexGenerator{}
	ground := createPlane("ground", mgl64.Vec3{0, 0, 1}, 0)
	crate := createBox("crate", mgl64.Vec3{0, 0, 0.4}, mgl64.Vec3{0.5, 0.5, 0.5})
	query := ExhaustiveQuery()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		generator.Collide(ground, crate, query)
	}
}
