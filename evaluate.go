package graze

import (
	"log/slog"

	"github.com/akmonengine/graze/body"
)

// EvalContext carries the shared state of one collision check run: the
// request being answered, the result being filled, the policy table,
// the narrow-phase generator and the diagnostic sinks.
//
// A context serves exactly one run. Request, Result and Generator must
// be non-nil; Allowed may be nil when no pair is exempt.
type EvalContext struct {
	Request   *CollisionRequest
	Result    *CollisionResult
	Allowed   *AllowedCollisions
	Generator ContactGenerator

	// Log receives per-decision records when Request.Verbose is set.
	Log *slog.Logger

	// Diag, when non-nil, buffers decisions for subscribed listeners.
	Diag *Diagnostics

	done bool
}

func NewEvalContext(request *CollisionRequest, result *CollisionResult, allowed *AllowedCollisions, generator ContactGenerator) *EvalContext {
	return &EvalContext{
		Request:   request,
		Result:    result,
		Allowed:   allowed,
		Generator: generator,
		Log:       slog.Default(),
	}
}

// Done reports whether the run has terminated early. Once true, every
// further Evaluate call is a no-op.
func (ec *EvalContext) Done() bool {
	return ec.done
}

func (ec *EvalContext) verbose(msg string, args ...any) {
	if ec.Request.Verbose && ec.Log != nil {
		ec.Log.Info(msg, args...)
	}
}

func (ec *EvalContext) record(kind DecisionKind, pair PairKey, count int) {
	if ec.Diag != nil {
		ec.Diag.record(Decision{Kind: kind, Pair: pair, Count: count})
	}
}

// Evaluate runs the collision decision procedure for one candidate pair
// and reports whether the whole run is complete. Drivers enumerate
// candidate pairs in any deterministic order and stop as soon as it
// returns true.
//
// The two bodies must be distinct; passing the same id twice panics.
func Evaluate(a, b *body.Body, ec *EvalContext) bool {
	if ec.done {
		return true
	}

	identityA, identityB := a.Identity, b.Identity
	key := MakePairKey(identityA.ID, identityB.ID)

	// Resolve the pair's disposition from the policy table
	disposition, decide := ec.Allowed.Lookup(identityA.ID, identityB.ID)
	switch disposition {
	case DispositionAlways:
		ec.verbose("collision always allowed, no contacts computed",
			"bodyA", identityA.ID, "bodyB", identityB.ID)
		ec.record(DecisionAlwaysAllowed, key, 0)
	case DispositionConditional:
		ec.verbose("collision conditionally allowed",
			"bodyA", identityA.ID, "bodyB", identityB.ID)
		ec.record(DecisionConditional, key, 0)
	}

	// An attached object never collides with the links it declares as
	// touchable. The override can only strengthen the table's verdict;
	// a table allowance already settled the pair.
	if disposition != DispositionAlways {
		if touched, link, object := touchAllowance(identityA, identityB); touched {
			disposition = DispositionAlways
			decide = nil
			ec.verbose("link allowed to touch attached object, no contacts computed",
				"link", link, "object", object)
			ec.record(DecisionTouchAllowed, key, 0)
		}
	}

	if disposition == DispositionAlways {
		return ec.done
	}

	want := ec.RemainingForPair(key)

	switch {
	case decide != nil:
		// Conditional pairs need every contact judged individually
		raw := ec.Generator.Collide(a, b, ExhaustiveQuery())
		if len(raw) > 0 {
			ec.verbose("contacts found, evaluating acceptance",
				"bodyA", identityA.ID, "bodyB", identityB.ID, "contacts", len(raw))
			ec.record(DecisionContactsFound, key, len(raw))
		}

		stored := 0
		for i := range raw {
			contact := raw[i].Contact()
			if decide(&contact) {
				continue // acceptable contact
			}

			if !ec.Result.Collision {
				ec.record(DecisionCollision, key, 0)
			}
			ec.Result.MarkCollision()

			if want > 0 {
				ec.Result.Record(key, contact)
				stored++
				want--
				ec.verbose("unacceptable contact stored",
					"bodyA", contact.BodyA, "bodyB", contact.BodyB)
			} else {
				ec.verbose("unacceptable contact not stored",
					"bodyA", contact.BodyA, "categoryA", contact.CategoryA,
					"bodyB", contact.BodyB, "categoryB", contact.CategoryB)
			}

			// Scanning continues while storage budget remains; with a
			// collision found and none left there is nothing to learn
			if want == 0 {
				break
			}
		}
		if stored > 0 {
			ec.record(DecisionContactsStored, key, stored)
		}

	case want > 0:
		raw := ec.Generator.Collide(a, b, BoundedQuery(want))
		if len(raw) > 0 {
			if len(raw) > want {
				raw = raw[:want] // generators may overshoot their bound
			}

			if !ec.Result.Collision {
				ec.record(DecisionCollision, key, 0)
			}
			ec.Result.MarkCollision()
			ec.verbose("collision found, storing contacts",
				"bodyA", identityA.ID, "categoryA", identityA.Category,
				"bodyB", identityB.ID, "categoryB", identityB.Category,
				"contacts", len(raw))
			ec.record(DecisionContactsFound, key, len(raw))

			for i := range raw {
				ec.Result.Record(key, raw[i].Contact())
			}
			ec.record(DecisionContactsStored, key, len(raw))
		}

	default:
		// No storage budget: presence is the whole question
		raw := ec.Generator.Collide(a, b, BooleanQuery())
		if len(raw) > 0 {
			if !ec.Result.Collision {
				ec.record(DecisionCollision, key, 0)
			}
			ec.Result.MarkCollision()
			ec.verbose("collision found, no contact stored",
				"bodyA", identityA.ID, "categoryA", identityA.Category,
				"bodyB", identityB.ID, "categoryB", identityB.Category)
			ec.record(DecisionContactsFound, key, len(raw))
		}
	}

	// The run ends once a collision exists and nothing more can be
	// learned: either no contacts were wanted, or the budget is full
	if ec.Result.Collision &&
		(!ec.Request.WantContacts || ec.Result.ContactCount >= ec.Request.MaxContacts) {
		ec.done = true
		ec.verbose("collision checking complete",
			"collision", true, "contacts", ec.Result.ContactCount)
		ec.record(DecisionComplete, key, ec.Result.ContactCount)
	}

	return ec.done
}

// touchAllowance reports whether one body is an attached object that
// declares the other, a robot link, as touchable. Returns the link and
// object ids for diagnostics.
func touchAllowance(a, b *body.Identity) (bool, string, string) {
	if a.Category == body.CategoryRobotLink &&
		b.Category == body.CategoryAttachedObject && b.AllowsTouch(a.ID) {
		return true, a.ID, b.ID
	}
	if b.Category == body.CategoryRobotLink &&
		a.Category == body.CategoryAttachedObject && a.AllowsTouch(b.ID) {
		return true, b.ID, a.ID
	}
	return false, "", ""
}
