package graze

// CollisionRequest configures one collision check run.
type CollisionRequest struct {
	// WantContacts asks for contact geometry. When false a run only
	// answers "is anything colliding" and stores no contacts.
	WantContacts bool

	// MaxContacts bounds the total number of contacts stored across the
	// whole run. Once reached, the run terminates early.
	MaxContacts int

	// MaxContactsPerPair bounds the contacts stored for any single pair.
	MaxContactsPerPair int

	// Verbose enables per-decision logging on the evaluation context.
	Verbose bool
}

// DefaultRequest returns the boolean-query defaults: no contact
// geometry, budgets of one.
func DefaultRequest() CollisionRequest {
	return CollisionRequest{
		WantContacts:       false,
		MaxContacts:        1,
		MaxContactsPerPair: 1,
	}
}
