package hfsm

// Observer receives dispatch outcomes. Methods run synchronously on the
// machine's goroutine and must not call back into the machine.
type Observer interface {
	// StateChanged reports a committed transition. to is the state current
	// after history and Initial resolution.
	StateChanged(m *Machine, from, to *State, ev *Event)

	// EventIgnored reports an event no row matched, bubbling included.
	// Unmatched null events are not reported.
	EventIgnored(m *Machine, ev *Event)

	// GuardRejected reports a row whose guard returned false.
	GuardRejected(m *Machine, t *Transition)
}

// ObserverFuncs adapts optional functions to Observer.
type ObserverFuncs struct {
	OnStateChanged  func(m *Machine, from, to *State, ev *Event)
	OnEventIgnored  func(m *Machine, ev *Event)
	OnGuardRejected func(m *Machine, t *Transition)
}

// StateChanged calls OnStateChanged if set.
func (o ObserverFuncs) StateChanged(m *Machine, from, to *State, ev *Event) {
	if o.OnStateChanged != nil {
		o.OnStateChanged(m, from, to, ev)
	}
}

// EventIgnored calls OnEventIgnored if set.
func (o ObserverFuncs) EventIgnored(m *Machine, ev *Event) {
	if o.OnEventIgnored != nil {
		o.OnEventIgnored(m, ev)
	}
}

// GuardRejected calls OnGuardRejected if set.
func (o ObserverFuncs) GuardRejected(m *Machine, t *Transition) {
	if o.OnGuardRejected != nil {
		o.OnGuardRejected(m, t)
	}
}
