package graze

import (
	"fmt"

	"github.com/akmonengine/graze/body"
	"github.com/go-gl/mathgl/mgl64"
)

// PairKey identifies an unordered pair of bodies by their ids.
// First is always the lexicographically smaller id, so the same two
// bodies map to the same key whichever way a driver enumerates them.
type PairKey struct {
	First  string
	Second string
}

// MakePairKey creates a normalized pair key with consistent ordering.
// A body never collides with itself; equal ids are a programming error
// and panic.
func MakePairKey(a, b string) PairKey {
	if a == b {
		panic(fmt.Sprintf("collision pair with identical body id %q", a))
	}

	if b < a {
		a, b = b, a
	}

	return PairKey{First: a, Second: b}
}

// Contains reports whether the pair involves the given body id.
func (k PairKey) Contains(id string) bool {
	return k.First == id || k.Second == id
}

func (k PairKey) String() string {
	return k.First + "~" + k.Second
}

// Contact is a single stored contact between two bodies. BodyA always
// carries the lexicographically smaller id and the normal points from
// BodyA toward BodyB, whichever way the narrow phase labeled them.
type Contact struct {
	Position mgl64.Vec3
	Normal   mgl64.Vec3
	Depth    float64

	BodyA     string
	CategoryA body.Category
	BodyB     string
	CategoryB body.Category
}

// Key returns the pair key the contact is stored under.
func (c *Contact) Key() PairKey {
	return PairKey{First: c.BodyA, Second: c.BodyB}
}

// CollisionResult accumulates the outcome of one collision check run:
// whether any unacceptable contact exists, plus the stored contacts
// grouped by pair in insertion order.
//
// ContactCount always equals the summed lengths of the per-pair
// sequences; Record is the only way contacts enter the result, which is
// what maintains that invariant.
type CollisionResult struct {
	Collision    bool
	ContactCount int
	Contacts     map[PairKey][]Contact
}

func NewCollisionResult() *CollisionResult {
	return &CollisionResult{
		Contacts: make(map[PairKey][]Contact),
	}
}

// MarkCollision records that at least one unacceptable contact exists.
// It never unsets; a run's verdict only moves toward collision.
func (r *CollisionResult) MarkCollision() {
	r.Collision = true
}

// Record appends a contact under the given pair and bumps the total.
// Contacts are never removed within a run.
func (r *CollisionResult) Record(key PairKey, contact Contact) {
	r.Contacts[key] = append(r.Contacts[key], contact)
	r.ContactCount++
}

// PairContacts returns the contacts stored for two bodies, in insertion
// order. The ids may be given in either order.
func (r *CollisionResult) PairContacts(a, b string) []Contact {
	return r.Contacts[MakePairKey(a, b)]
}
