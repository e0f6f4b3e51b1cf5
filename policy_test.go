package graze

import "testing"

func TestAllowedCollisions_SetAndLookup(t *testing.T) {
	allowed := NewAllowedCollisions()
	allowed.Set("arm", "table")

	disposition, decide := allowed.Lookup("arm", "table")
	if disposition != DispositionAlways || decide != nil {
		t.Errorf("Expected (always, nil), got (%v, %v)", disposition, decide)
	}

	// Lookup is symmetric in its arguments
	disposition, _ = allowed.Lookup("table", "arm")
	if disposition != DispositionAlways {
		t.Errorf("Expected symmetric lookup to resolve always, got %v", disposition)
	}

	disposition, decide = allowed.Lookup("arm", "shelf")
	if disposition != DispositionNone || decide != nil {
		t.Errorf("Expected an unknown pair to resolve (none, nil), got (%v, %v)", disposition, decide)
	}
}

func TestAllowedCollisions_SetConditional(t *testing.T) {
	allowed := NewAllowedCollisions()
	allowed.SetConditional("arm", "table", func(contact *Contact) bool {
		return contact.Depth < 0.01
	})

	disposition, decide := allowed.Lookup("table", "arm")
	if disposition != DispositionConditional {
		t.Errorf("Expected conditional disposition, got %v", disposition)
	}
	if decide == nil {
		t.Fatal("Expected a predicate for a conditional entry")
	}
	if !decide(&Contact{Depth: 0.001}) || decide(&Contact{Depth: 0.5}) {
		t.Error("Expected the stored predicate to judge by depth")
	}
}

func TestAllowedCollisions_SetConditionalNilDecide(t *testing.T) {
	allowed := NewAllowedCollisions()
	allowed.SetConditional("arm", "table", nil)

	// Without a predicate there is nothing to judge: plain allowance
	disposition, decide := allowed.Lookup("arm", "table")
	if disposition != DispositionAlways || decide != nil {
		t.Errorf("Expected nil predicate downgraded to (always, nil), got (%v, %v)", disposition, decide)
	}
}

func TestAllowedCollisions_Overwrite(t *testing.T) {
	allowed := NewAllowedCollisions()
	allowed.Set("arm", "table")
	allowed.SetConditional("table", "arm", func(contact *Contact) bool { return true })

	if allowed.Len() != 1 {
		t.Errorf("Expected one entry after overwriting, got %d", allowed.Len())
	}
	if disposition, _ := allowed.Lookup("arm", "table"); disposition != DispositionConditional {
		t.Errorf("Expected the later entry to win, got %v", disposition)
	}
}

func TestAllowedCollisions_Remove(t *testing.T) {
	allowed := NewAllowedCollisions()
	allowed.Set("arm", "table")
	allowed.Remove("table", "arm")

	if allowed.Has("arm", "table") {
		t.Error("Expected the entry removed")
	}
	if disposition, _ := allowed.Lookup("arm", "table"); disposition != DispositionNone {
		t.Errorf("Expected a removed pair to resolve none, got %v", disposition)
	}

	// Removing an absent pair is harmless
	allowed.Remove("arm", "shelf")
}

func TestAllowedCollisions_Has(t *testing.T) {
	allowed := NewAllowedCollisions()
	allowed.Set("arm", "table")

	if !allowed.Has("table", "arm") {
		t.Error("Expected Has to find the entry in either argument order")
	}
	if allowed.Has("arm", "shelf") {
		t.Error("Expected Has to miss an unknown pair")
	}
}

func TestAllowedCollisions_NilTable(t *testing.T) {
	var allowed *AllowedCollisions

	if disposition, decide := allowed.Lookup("arm", "table"); disposition != DispositionNone || decide != nil {
		t.Errorf("Expected a nil table to resolve (none, nil), got (%v, %v)", disposition, decide)
	}
	if allowed.Has("arm", "table") {
		t.Error("Expected a nil table to hold nothing")
	}
	if allowed.Len() != 0 {
		t.Errorf("Expected a nil table to have length 0, got %d", allowed.Len())
	}
}

func TestDisposition_String(t *testing.T) {
	tests := []struct {
		disposition Disposition
		want        string
	}{
		{DispositionNone, "none"},
		{DispositionAlways, "always"},
		{DispositionConditional, "conditional"},
	}

	for _, tt := range tests {
		if got := tt.disposition.String(); got != tt.want {
			t.Errorf("Disposition(%d).String() = %q, want %q", tt.disposition, got, tt.want)
		}
	}
}
