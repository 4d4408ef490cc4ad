package hfsm

import (
	"errors"
	"fmt"
	"slices"

	"golang.org/x/text/unicode/norm"
)

// Builder assembles a transition table from plain state and event names.
// Names are compared after Unicode NFC normalization. The names "start" and
// "end" refer to the Start and End pseudostates and cannot be declared; the
// empty event name refers to NullEvent.
//
// Errors are collected and reported together by Build.
type Builder struct {
	states      map[string]*State
	stateOrder  []*State
	parents     map[*State]string
	initials    map[*State]string
	events      map[string]*Event
	eventOrder  []*Event
	transitions []*TransitionBuilder
	errs        []error
}

// StateBuilder configures one declared state.
type StateBuilder struct {
	b     *Builder
	state *State
}

// TransitionBuilder configures one table row. A row without Goto is an
// internal transition.
type TransitionBuilder struct {
	b      *Builder
	from   string
	event  string
	to     string
	hasTo  bool
	guard  *Guard
	action *Action
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		states:   make(map[string]*State),
		parents:  make(map[*State]string),
		initials: make(map[*State]string),
		events:   make(map[string]*Event),
	}
}

func normalize(name string) string { return norm.NFC.String(name) }

func (b *Builder) fail(err error) { b.errs = append(b.errs, err) }

// State declares a state. Declaring the same name twice is an error.
func (b *Builder) State(name string) *StateBuilder {
	name = normalize(name)
	s := &State{Name: name}
	sb := &StateBuilder{b: b, state: s}
	switch {
	case name == "":
		b.fail(fmt.Errorf("%w: empty state name", ErrInvalidArgument))
		return sb
	case name == Start.Name || name == End.Name:
		b.fail(fmt.Errorf("%w: state name %q is reserved", ErrInvalidArgument, name))
		return sb
	case b.states[name] != nil:
		b.fail(fmt.Errorf("%w: state %q", ErrDuplicate, name))
		return sb
	}
	b.states[name] = s
	b.stateOrder = append(b.stateOrder, s)
	return sb
}

// In nests the state under parent.
func (sb *StateBuilder) In(parent string) *StateBuilder {
	sb.b.parents[sb.state] = normalize(parent)
	return sb
}

// Initial sets the child entered when the state has no history.
func (sb *StateBuilder) Initial(child string) *StateBuilder {
	sb.b.initials[sb.state] = normalize(child)
	return sb
}

// Data attaches the payload passed to the state's hooks.
func (sb *StateBuilder) Data(v any) *StateBuilder {
	sb.state.Data = v
	return sb
}

// OnEntry sets the entry hook.
func (sb *StateBuilder) OnEntry(fn HookFunc) *StateBuilder {
	sb.state.Entry = fn
	return sb
}

// OnExec sets the hook run by Update.
func (sb *StateBuilder) OnExec(fn ExecFunc) *StateBuilder {
	sb.state.Exec = fn
	return sb
}

// OnExit sets the exit hook.
func (sb *StateBuilder) OnExit(fn HookFunc) *StateBuilder {
	sb.state.Exit = fn
	return sb
}

// Event declares events. Declaring the same name twice is an error.
func (b *Builder) Event(names ...string) *Builder {
	for _, name := range names {
		name = normalize(name)
		switch {
		case name == "":
			b.fail(fmt.Errorf("%w: the null event is implicit", ErrInvalidArgument))
		case b.events[name] != nil:
			b.fail(fmt.Errorf("%w: event %q", ErrDuplicate, name))
		default:
			ev := &Event{Name: name}
			b.events[name] = ev
			b.eventOrder = append(b.eventOrder, ev)
		}
	}
	return b
}

// On appends a row fired by event while from, or a descendant that does not
// handle event itself, is current. Rows are matched in the order On is
// called.
func (b *Builder) On(from, event string) *TransitionBuilder {
	tb := &TransitionBuilder{b: b, from: normalize(from), event: normalize(event)}
	b.transitions = append(b.transitions, tb)
	return tb
}

// When guards the row with a named predicate.
func (tb *TransitionBuilder) When(name string, pred func(m *Machine) bool) *TransitionBuilder {
	tb.guard = &Guard{Name: name, Predicate: pred}
	return tb
}

// Do runs a named effect when the row fires, before any state change.
func (tb *TransitionBuilder) Do(name string, effect func(m *Machine)) *TransitionBuilder {
	tb.action = &Action{Name: name, Effect: effect}
	return tb
}

// Goto sets the target state.
func (tb *TransitionBuilder) Goto(to string) *TransitionBuilder {
	tb.to = normalize(to)
	tb.hasTo = true
	return tb
}

// Build resolves every name and validates the resulting table.
func (b *Builder) Build() (*Definition, error) {
	errs := slices.Clone(b.errs)

	for _, s := range b.stateOrder {
		s.Parent, s.Initial = nil, nil
		if name, ok := b.parents[s]; ok {
			p, err := b.lookupState(name)
			if err != nil {
				errs = append(errs, fmt.Errorf("parent of %q: %w", s.Name, err))
			} else {
				s.Parent = p
			}
		}
	}
	limit := len(b.stateOrder)
	for _, s := range b.stateOrder {
		if depth(s, limit) > limit {
			errs = append(errs, fmt.Errorf("%w: parent cycle through %q", ErrTooDeep, s.Name))
		}
	}
	for _, s := range b.stateOrder {
		name, ok := b.initials[s]
		if !ok {
			continue
		}
		c, err := b.lookupState(name)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("initial state of %q: %w", s.Name, err))
		case c.Parent != s:
			errs = append(errs, fmt.Errorf("%w: initial state %q of %q is not its direct child", ErrInvalidArgument, c.Name, s.Name))
		default:
			s.Initial = c
		}
	}

	table := make([]Transition, 0, len(b.transitions))
	for i, tb := range b.transitions {
		t := Transition{Guard: tb.guard, Action: tb.action}
		var err error
		if t.From, err = b.lookupState(tb.from); err != nil {
			errs = append(errs, fmt.Errorf("row %d source: %w", i, err))
		}
		if t.Event, err = b.lookupEvent(tb.event); err != nil {
			errs = append(errs, fmt.Errorf("row %d: %w", i, err))
		}
		if tb.hasTo {
			if t.To, err = b.lookupState(tb.to); err != nil {
				errs = append(errs, fmt.Errorf("row %d target: %w", i, err))
			}
		}
		table = append(table, t)
	}

	if len(errs) == 0 {
		if err := Validate(table); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Definition{
		table:      table,
		states:     b.states,
		stateOrder: slices.Clone(b.stateOrder),
		events:     b.events,
		eventOrder: slices.Clone(b.eventOrder),
	}, nil
}

func (b *Builder) lookupState(name string) (*State, error) {
	switch name {
	case Start.Name:
		return Start, nil
	case End.Name:
		return End, nil
	}
	if s := b.states[name]; s != nil {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownState, name)
}

func (b *Builder) lookupEvent(name string) (*Event, error) {
	if name == "" {
		return NullEvent, nil
	}
	if ev := b.events[name]; ev != nil {
		return ev, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
}

// Definition is a validated transition table together with its named
// states and events.
type Definition struct {
	table      []Transition
	states     map[string]*State
	stateOrder []*State
	events     map[string]*Event
	eventOrder []*Event
}

// NewMachine starts a machine over the definition's table.
func (d *Definition) NewMachine(opts ...Option) (*Machine, error) {
	return New(d.table, opts...)
}

// State returns the state with the given name, or nil.
func (d *Definition) State(name string) *State {
	name = normalize(name)
	switch name {
	case Start.Name:
		return Start
	case End.Name:
		return End
	}
	return d.states[name]
}

// Event returns the event with the given name, or nil. The empty name
// returns NullEvent.
func (d *Definition) Event(name string) *Event {
	name = normalize(name)
	if name == "" {
		return NullEvent
	}
	return d.events[name]
}

// States returns the declared states in declaration order.
func (d *Definition) States() []*State { return slices.Clone(d.stateOrder) }

// Events returns the declared events in declaration order.
func (d *Definition) Events() []*Event { return slices.Clone(d.eventOrder) }

// Table returns a copy of the transition table.
func (d *Definition) Table() []Transition { return slices.Clone(d.table) }
