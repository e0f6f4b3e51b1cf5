package graze

// DecisionKind labels the notable points of the collision decision
// procedure.
type DecisionKind int

const (
	// DecisionAlwaysAllowed - the policy table exempted the pair.
	DecisionAlwaysAllowed DecisionKind = iota
	// DecisionTouchAllowed - a touch-link declaration exempted the pair.
	DecisionTouchAllowed
	// DecisionConditional - the pair carries a conditional allowance.
	DecisionConditional
	// DecisionContactsFound - the narrow phase produced Count contacts.
	DecisionContactsFound
	// DecisionContactsStored - Count contacts were recorded for the pair.
	DecisionContactsStored
	// DecisionCollision - the run's verdict flipped to collision.
	DecisionCollision
	// DecisionComplete - the run terminated; Count is the stored total.
	DecisionComplete
)

// Decision is one recorded step of a check run.
type Decision struct {
	Kind  DecisionKind
	Pair  PairKey
	Count int
}

// DecisionListener receives decisions of the kind it subscribed to.
type DecisionListener func(decision Decision)

// Diagnostics buffers the decisions of a check run and delivers them to
// subscribed listeners on Flush. Buffering keeps listener work out of
// the evaluation loop.
type Diagnostics struct {
	listeners map[DecisionKind][]DecisionListener
	buffer    []Decision
}

func NewDiagnostics() *Diagnostics {
	return &Diagnostics{
		listeners: make(map[DecisionKind][]DecisionListener),
	}
}

// Subscribe registers a listener for one kind of decision.
func (d *Diagnostics) Subscribe(kind DecisionKind, listener DecisionListener) {
	d.listeners[kind] = append(d.listeners[kind], listener)
}

func (d *Diagnostics) record(decision Decision) {
	d.buffer = append(d.buffer, decision)
}

// Flush delivers every buffered decision to its listeners, in the order
// the decisions were recorded, then empties the buffer.
func (d *Diagnostics) Flush() {
	for _, decision := range d.buffer {
		for _, listener := range d.listeners[decision.Kind] {
			listener(decision)
		}
	}
	d.buffer = d.buffer[:0]
}
