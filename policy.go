package graze

// Disposition is the policy verdict for a pair of bodies.
type Disposition int

const (
	// DispositionNone means the policy has nothing to say: the pair is
	// checked normally.
	DispositionNone Disposition = iota
	// DispositionAlways means every contact between the pair is
	// acceptable; the pair is skipped without any narrow-phase work.
	DispositionAlways
	// DispositionConditional means contacts must be enumerated
	// exhaustively and judged one by one through the pair's predicate.
	DispositionConditional
)

func (d Disposition) String() string {
	switch d {
	case DispositionAlways:
		return "always"
	case DispositionConditional:
		return "conditional"
	}
	return "none"
}

// DecideContactFunc judges a single contact of a conditionally-allowed
// pair, returning true when the contact is acceptable. The contact is
// already tagged and canonically ordered, so the decision cannot depend
// on enumeration order. Predicates must not retain the pointer.
type DecideContactFunc func(contact *Contact) bool

type policyEntry struct {
	disposition Disposition
	decide      DecideContactFunc
}

// AllowedCollisions is the table of pairs whose contacts are tolerated,
// either unconditionally or through a predicate. Pairs without an entry
// are checked normally.
//
// The table is assembled before checking starts and read-only afterwards;
// a nil *AllowedCollisions behaves like an empty table and concurrent
// runs may share one safely.
type AllowedCollisions struct {
	entries map[PairKey]policyEntry
}

func NewAllowedCollisions() *AllowedCollisions {
	return &AllowedCollisions{
		entries: make(map[PairKey]policyEntry),
	}
}

// Set marks every contact between a and b as acceptable.
func (ac *AllowedCollisions) Set(a, b string) {
	ac.entries[MakePairKey(a, b)] = policyEntry{disposition: DispositionAlways}
}

// SetConditional installs a per-contact predicate for the pair. A nil
// decide function downgrades the entry to a plain allowance.
func (ac *AllowedCollisions) SetConditional(a, b string, decide DecideContactFunc) {
	if decide == nil {
		ac.Set(a, b)
		return
	}
	ac.entries[MakePairKey(a, b)] = policyEntry{
		disposition: DispositionConditional,
		decide:      decide,
	}
}

// Remove deletes the pair's entry, restoring normal checking.
func (ac *AllowedCollisions) Remove(a, b string) {
	delete(ac.entries, MakePairKey(a, b))
}

// Has reports whether the pair has any entry.
func (ac *AllowedCollisions) Has(a, b string) bool {
	if ac == nil {
		return false
	}
	_, ok := ac.entries[MakePairKey(a, b)]
	return ok
}

// Lookup returns the pair's disposition and, for conditional entries,
// its predicate. Unknown pairs resolve as DispositionNone.
func (ac *AllowedCollisions) Lookup(a, b string) (Disposition, DecideContactFunc) {
	if ac == nil {
		return DispositionNone, nil
	}
	entry, ok := ac.entries[MakePairKey(a, b)]
	if !ok {
		return DispositionNone, nil
	}
	return entry.disposition, entry.decide
}

// Len returns the number of pairs with an entry.
func (ac *AllowedCollisions) Len() int {
	if ac == nil {
		return 0
	}
	return len(ac.entries)
}
