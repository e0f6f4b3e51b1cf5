package graze

import (
	"testing"

	"github.com/akmonengine/graze/body"
)

func TestDiagnostics_SubscribeAndFlush(t *testing.T) {
	diag := NewDiagnostics()
	key := MakePairKey("arm", "table")

	var found []Decision
	diag.Subscribe(DecisionContactsFound, func(decision Decision) {
		found = append(found, decision)
	})

	diag.record(Decision{Kind: DecisionCollision, Pair: key})
	diag.record(Decision{Kind: DecisionContactsFound, Pair: key, Count: 2})
	diag.record(Decision{Kind: DecisionContactsFound, Pair: key, Count: 1})
	diag.Flush()

	if len(found) != 2 {
		t.Fatalf("Expected 2 deliveries for the subscribed kind, got %d", len(found))
	}
	if found[0].Count != 2 || found[1].Count != 1 {
		t.Error("Expected decisions delivered in recording order")
	}
}

func TestDiagnostics_FlushEmptiesBuffer(t *testing.T) {
	diag := NewDiagnostics()

	deliveries := 0
	diag.Subscribe(DecisionCollision, func(decision Decision) {
		deliveries++
	})

	diag.record(Decision{Kind: DecisionCollision, Pair: MakePairKey("arm", "table")})
	diag.Flush()
	diag.Flush()

	if deliveries != 1 {
		t.Errorf("Expected a single delivery across repeated flushes, got %d", deliveries)
	}
}

func TestDiagnostics_MultipleListeners(t *testing.T) {
	diag := NewDiagnostics()

	first, second := 0, 0
	diag.Subscribe(DecisionComplete, func(decision Decision) { first++ })
	diag.Subscribe(DecisionComplete, func(decision Decision) { second++ })

	diag.record(Decision{Kind: DecisionComplete, Pair: MakePairKey("arm", "table"), Count: 3})
	diag.Flush()

	if first != 1 || second != 1 {
		t.Errorf("Expected both listeners notified once, got %d and %d", first, second)
	}
}

func TestDiagnostics_FlushWithoutListeners(t *testing.T) {
	diag := NewDiagnostics()
	diag.record(Decision{Kind: DecisionCollision, Pair: MakePairKey("arm", "table")})
	diag.Flush() // no listeners, nothing to deliver
}

// subscribeAll captures every decision kind into one ordered sequence.
func subscribeAll(diag *Diagnostics, sequence *[]DecisionKind) {
	kinds := []DecisionKind{
		DecisionAlwaysAllowed, DecisionTouchAllowed, DecisionConditional,
		DecisionContactsFound, DecisionContactsStored, DecisionCollision,
		DecisionComplete,
	}
	for _, kind := range kinds {
		diag.Subscribe(kind, func(decision Decision) {
			*sequence = append(*sequence, decision.Kind)
		})
	}
}

func TestDiagnostics_EvaluationTrace(t *testing.T) {
	a := newTestBody("alpha", body.CategoryWorldObject)
	b := newTestBody("beta", body.CategoryWorldObject)

	t.Run("boolean collision", func(t *testing.T) {
		generator := newScriptedGenerator()
		generator.script(a, b, 1)

		ec := newTestContext(DefaultRequest(), nil, generator)
		ec.Diag = NewDiagnostics()
		var sequence []DecisionKind
		subscribeAll(ec.Diag, &sequence)

		Evaluate(a, b, ec)
		ec.Diag.Flush()

		want := []DecisionKind{DecisionCollision, DecisionContactsFound, DecisionComplete}
		if len(sequence) != len(want) {
			t.Fatalf("Expected %d decisions, got %d (%v)", len(want), len(sequence), sequence)
		}
		for i := range want {
			if sequence[i] != want[i] {
				t.Errorf("Decision %d = %v, want %v", i, sequence[i], want[i])
			}
		}
	})

	t.Run("stored contacts", func(t *testing.T) {
		generator := newScriptedGenerator()
		generator.script(a, b, 2)

		request := CollisionRequest{WantContacts: true, MaxContacts: 2, MaxContactsPerPair: 2}
		ec := newTestContext(request, nil, generator)
		ec.Diag = NewDiagnostics()
		var sequence []DecisionKind
		subscribeAll(ec.Diag, &sequence)

		var storedCount int
		ec.Diag.Subscribe(DecisionContactsStored, func(decision Decision) {
			storedCount = decision.Count
		})

		Evaluate(a, b, ec)
		ec.Diag.Flush()

		want := []DecisionKind{
			DecisionCollision, DecisionContactsFound, DecisionContactsStored, DecisionComplete,
		}
		if len(sequence) != len(want) {
			t.Fatalf("Expected %d decisions, got %d (%v)", len(want), len(sequence), sequence)
		}
		for i := range want {
			if sequence[i] != want[i] {
				t.Errorf("Decision %d = %v, want %v", i, sequence[i], want[i])
			}
		}
		if storedCount != 2 {
			t.Errorf("Expected the stored decision to carry count 2, got %d", storedCount)
		}
	})

	t.Run("exempt pair", func(t *testing.T) {
		generator := newScriptedGenerator()
		generator.script(a, b, 1)

		allowed := NewAllowedCollisions()
		allowed.Set("alpha", "beta")

		ec := newTestContext(DefaultRequest(), allowed, generator)
		ec.Diag = NewDiagnostics()
		var sequence []DecisionKind
		subscribeAll(ec.Diag, &sequence)

		Evaluate(a, b, ec)
		ec.Diag.Flush()

		if len(sequence) != 1 || sequence[0] != DecisionAlwaysAllowed {
			t.Errorf("Expected only an always-allowed decision, got %v", sequence)
		}
	})

	t.Run("touch link", func(t *testing.T) {
		link := newTestBody("wrist", body.CategoryRobotLink)
		attached := newAttachedBody("grasped_part", "wrist", "wrist")
		generator := newScriptedGenerator()

		ec := newTestContext(DefaultRequest(), nil, generator)
		ec.Diag = NewDiagnostics()
		var sequence []DecisionKind
		subscribeAll(ec.Diag, &sequence)

		Evaluate(link, attached, ec)
		ec.Diag.Flush()

		if len(sequence) != 1 || sequence[0] != DecisionTouchAllowed {
			t.Errorf("Expected only a touch-allowed decision, got %v", sequence)
		}
	})
}
