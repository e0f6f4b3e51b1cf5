package graze

import (
	"github.com/akmonengine/graze/body"
	"github.com/go-gl/mathgl/mgl64"
)

// Query tells a ContactGenerator how much work a single narrow-phase
// call must do.
type Query struct {
	// MaxContacts is the most contacts the call needs to produce.
	// Ignored when Exhaustive is set.
	MaxContacts int

	// Exhaustive asks for every contact the generator can produce for
	// the pair, regardless of MaxContacts.
	Exhaustive bool

	// WantGeometry asks for positions, normals and depths. When false
	// the caller only consumes presence or absence.
	WantGeometry bool
}

// BooleanQuery is the cheapest query: one contact, no geometry.
func BooleanQuery() Query {
	return Query{MaxContacts: 1}
}

// BoundedQuery asks for up to n contacts with geometry.
func BoundedQuery(n int) Query {
	return Query{MaxContacts: n, WantGeometry: true}
}

// ExhaustiveQuery asks for every contact with geometry.
func ExhaustiveQuery() Query {
	return Query{Exhaustive: true, WantGeometry: true}
}

// RawContact is a contact exactly as the narrow phase produced it,
// labeled with the bodies in call order. The normal points from BodyA
// toward BodyB. Boolean queries leave the geometry fields zero.
type RawContact struct {
	Position mgl64.Vec3
	Normal   mgl64.Vec3
	Depth    float64

	BodyA *body.Body
	BodyB *body.Body
}

// Contact converts the raw contact to its stored form, tagging both
// identities and putting them in canonical id order. When the ids swap,
// the normal flips with them so it keeps pointing from the first body
// toward the second.
func (rc *RawContact) Contact() Contact {
	contact := Contact{
		Position:  rc.Position,
		Normal:    rc.Normal,
		Depth:     rc.Depth,
		BodyA:     rc.BodyA.Identity.ID,
		CategoryA: rc.BodyA.Identity.Category,
		BodyB:     rc.BodyB.Identity.ID,
		CategoryB: rc.BodyB.Identity.Category,
	}

	if contact.BodyB < contact.BodyA {
		contact.BodyA, contact.BodyB = contact.BodyB, contact.BodyA
		contact.CategoryA, contact.CategoryB = contact.CategoryB, contact.CategoryA
		contact.Normal = contact.Normal.Mul(-1)
	}

	return contact
}

// ContactGenerator is the narrow-phase collaborator: it produces the
// contacts between one pair of bodies for a single query.
//
// An empty result means the shapes do not touch. When they do touch the
// generator must return at least one element; with Exhaustive set it
// must return every contact it can produce, otherwise it may stop at
// MaxContacts. Implementations must not look at budgets or policy;
// those belong to the evaluator.
type ContactGenerator interface {
	Collide(a, b *body.Body, query Query) []RawContact
}
