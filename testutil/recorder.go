package testutil

import (
	"fmt"

	"github.com/comalice/hfsm"
)

// Call is one recorded hook or action invocation.
type Call struct {
	Hook      string // "entry", "exit", "exec" or "action"
	Name      string // state or action name
	Completed bool
}

func (c Call) String() string {
	switch c.Hook {
	case "entry", "exit":
		return fmt.Sprintf("%s(%s,%t)", c.Hook, c.Name, c.Completed)
	}
	return fmt.Sprintf("%s(%s)", c.Hook, c.Name)
}

// Recorder collects hook calls in order.
type Recorder struct {
	calls []Call
}

// Instrument replaces the entry, exec and exit hooks of states with
// recording ones.
func (r *Recorder) Instrument(states ...*hfsm.State) {
	for _, s := range states {
		name := s.Name
		s.Entry = func(_ *hfsm.Machine, _ any, completed bool) {
			r.calls = append(r.calls, Call{Hook: "entry", Name: name, Completed: completed})
		}
		s.Exec = func(*hfsm.Machine, any) {
			r.calls = append(r.calls, Call{Hook: "exec", Name: name})
		}
		s.Exit = func(_ *hfsm.Machine, _ any, completed bool) {
			r.calls = append(r.calls, Call{Hook: "exit", Name: name, Completed: completed})
		}
	}
}

// Action returns an action that records its own invocation.
func (r *Recorder) Action(name string) *hfsm.Action {
	return &hfsm.Action{Name: name, Effect: func(*hfsm.Machine) {
		r.calls = append(r.calls, Call{Hook: "action", Name: name})
	}}
}

// Calls returns the recorded calls.
func (r *Recorder) Calls() []Call { return r.calls }

// Strings returns the recorded calls formatted with Call.String.
func (r *Recorder) Strings() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.String()
	}
	return out
}

// Reset forgets every recorded call.
func (r *Recorder) Reset() { r.calls = r.calls[:0] }
