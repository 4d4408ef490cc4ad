package hfsm

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/comalice/hfsm/collections"
	"github.com/comalice/hfsm/internal/owner"
)

// Machine is a live instance of a transition table.
type Machine struct {
	table   []Transition
	current *State

	// src and dst hold the ancestor chains of the current and target
	// states while a transition is computed. Both are empty between calls.
	src *collections.Stack[*State]
	dst *collections.Stack[*State]

	hierarchy *collections.Tree[*State]

	maxDepth int
	maxChain int
	id       string
	logger   *slog.Logger
	observer Observer
	pinned   bool

	owner      owner.Guard
	terminated bool
}

// New validates table, allocates everything the machine will need, and
// performs the initial transition out of Start by dispatching NullEvent.
//
// The table is copied. States reachable from it have their history cleared,
// so a set of states drives at most one machine at a time.
func New(table []Transition, opts ...Option) (*Machine, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: empty transition table", ErrInvalidArgument)
	}
	m := &Machine{
		maxDepth: DefaultMaxDepth,
		maxChain: DefaultMaxChain,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.maxDepth <= 0 || m.maxChain <= 0 {
		return nil, fmt.Errorf("%w: max depth %d, max chain %d", ErrInvalidArgument, m.maxDepth, m.maxChain)
	}

	states, err := reachable(table, m.maxDepth)
	if err != nil {
		return nil, err
	}
	if m.src, err = collections.NewStack[*State](m.maxDepth); err != nil {
		return nil, fmt.Errorf("allocating ancestor stack: %w", err)
	}
	if m.dst, err = collections.NewStack[*State](m.maxDepth); err != nil {
		return nil, fmt.Errorf("allocating ancestor stack: %w", err)
	}
	if m.hierarchy, err = buildHierarchy(states); err != nil {
		return nil, fmt.Errorf("building state hierarchy: %w", err)
	}
	for _, s := range states {
		s.history = nil
	}

	if m.id == "" {
		m.id = uuid.NewString()
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	m.logger = m.logger.With(slog.String("machine", m.id))
	if m.pinned {
		m.owner.Pin()
	}
	m.table = slices.Clone(table)
	m.current = Start

	m.owner.Enter("New")
	defer m.owner.Exit()
	if err := m.settle(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate reports whether New would accept table with opts, without
// running any hooks.
func Validate(table []Transition, opts ...Option) error {
	if len(table) == 0 {
		return fmt.Errorf("%w: empty transition table", ErrInvalidArgument)
	}
	m := &Machine{maxDepth: DefaultMaxDepth, maxChain: DefaultMaxChain}
	for _, opt := range opts {
		opt(m)
	}
	if m.maxDepth <= 0 || m.maxChain <= 0 {
		return fmt.Errorf("%w: max depth %d, max chain %d", ErrInvalidArgument, m.maxDepth, m.maxChain)
	}
	_, err := reachable(table, m.maxDepth)
	return err
}

// reachable returns every state named by table, directly or through Parent
// and Initial links, in discovery order.
func reachable(table []Transition, limit int) ([]*State, error) {
	var work []*State
	for i := range table {
		t := &table[i]
		if t.From == nil || t.Event == nil {
			return nil, fmt.Errorf("%w: row %d has no source state or event", ErrInvalidArgument, i)
		}
		work = append(work, t.From)
		if t.To != nil {
			work = append(work, t.To)
		}
	}

	seen := make(map[*State]bool)
	var states []*State
	for len(work) > 0 {
		s := work[0]
		work = work[1:]
		if seen[s] {
			continue
		}
		seen[s] = true

		if depth(s, limit) > limit {
			return nil, fmt.Errorf("%w: %q is nested deeper than %d levels", ErrTooDeep, s.Name, limit)
		}
		if s.Parent != nil && isPseudo(s.Parent) {
			return nil, fmt.Errorf("%w: %q is nested in pseudostate %q", ErrInvalidArgument, s.Name, s.Parent.Name)
		}
		if s.Initial != nil && s.Initial.Parent != s {
			return nil, fmt.Errorf("%w: initial state %q of %q is not its direct child", ErrInvalidArgument, s.Initial.Name, s.Name)
		}
		states = append(states, s)

		if s.Parent != nil {
			work = append(work, s.Parent)
		}
		if s.Initial != nil {
			work = append(work, s.Initial)
		}
	}
	return states, nil
}

// buildHierarchy attaches every non-pseudo state under its parent, parents
// first, children in discovery order.
func buildHierarchy(states []*State) (*collections.Tree[*State], error) {
	n := 0
	for _, s := range states {
		if !isPseudo(s) {
			n++
		}
	}
	tree, err := collections.NewTree[*State](max(n, 1))
	if err != nil {
		return nil, err
	}

	nodes := make(map[*State]collections.NodeID, n)
	var chain []*State
	for _, s := range states {
		if isPseudo(s) {
			continue
		}
		chain = chain[:0]
		for p := s; p != nil; p = p.Parent {
			if _, ok := nodes[p]; ok {
				break
			}
			chain = append(chain, p)
		}
		for i := len(chain) - 1; i >= 0; i-- {
			parent := tree.Root()
			if p := chain[i].Parent; p != nil {
				parent = nodes[p]
			}
			id, err := tree.Attach(parent, chain[i])
			if err != nil {
				return nil, err
			}
			nodes[chain[i]] = id
		}
	}
	return tree, nil
}

// Send dispatches ev. Events no row handles are ignored and return nil, as
// are events whose matching row's guard rejects them.
func (m *Machine) Send(ev *Event) error {
	if ev == nil {
		return fmt.Errorf("%w: nil event", ErrInvalidArgument)
	}
	m.owner.Enter("Send")
	defer m.owner.Exit()

	if m.terminated {
		return ErrTerminated
	}
	if !m.dispatch(ev) {
		return nil
	}
	return m.settle()
}

// Update runs the Exec hook of the current state only.
func (m *Machine) Update() error {
	m.owner.Enter("Update")
	defer m.owner.Exit()

	if m.terminated {
		return ErrTerminated
	}
	if s := m.current; s.Exec != nil {
		s.Exec(m, StateData(s))
	}
	return nil
}

// Terminate exits every active state into End and releases the scratch
// stacks. The machine rejects further events.
func (m *Machine) Terminate() error {
	m.owner.Enter("Terminate")
	defer m.owner.Exit()

	if m.terminated {
		return ErrTerminated
	}
	from := m.current
	m.changeState(End)
	m.terminated = true
	m.src.Free()
	m.dst.Free()

	m.logger.LogAttrs(context.Background(), slog.LevelInfo, "machine terminated",
		slog.String("from", from.Name))
	if m.observer != nil {
		m.observer.StateChanged(m, from, End, nil)
	}
	return nil
}

// settle dispatches NullEvent until no row fires. It gives up after
// maxChain consecutive null transitions.
func (m *Machine) settle() error {
	for range m.maxChain {
		if !m.dispatch(NullEvent) {
			return nil
		}
	}
	m.logger.LogAttrs(context.Background(), slog.LevelWarn, "null transition chain did not settle",
		slog.String("state", m.current.Name), slog.Int("limit", m.maxChain))
	return fmt.Errorf("%w: stopped in %q after %d transitions", ErrChainLimit, m.current.Name, m.maxChain)
}

// dispatch fires the first row matching ev, searching the current state and
// then each ancestor, and reports whether the state changed.
func (m *Machine) dispatch(ev *Event) bool {
	for s := m.current; s != nil; s = s.Parent {
		for i := range m.table {
			t := &m.table[i]
			if t.From != s || t.Event != ev {
				continue
			}
			if !t.allows(m) {
				m.guardRejected(t)
				return false
			}
			t.run(m)
			if t.To == nil {
				m.internal(t)
				return false
			}
			from := m.current
			m.changeState(t.To)
			m.stateChanged(from, ev)
			return true
		}
	}
	if ev != NullEvent {
		m.ignored(ev)
	}
	return false
}

// changeState moves to next, then keeps descending into the remembered
// history child or the Initial child of each state it lands in.
func (m *Machine) changeState(next *State) {
	if next == m.current {
		m.exit(next, true)
		m.enter(next, true)
		return
	}
	for next != nil {
		m.moveTo(next)
		if next.history != nil {
			next = next.history
		} else {
			next = next.Initial
		}
	}
}

// moveTo exits from the current state up to the lowest common ancestor of
// current and next, then enters down to next. When next is an ancestor of
// current, next itself is exited and re-entered.
func (m *Machine) moveTo(next *State) {
	// A hook that panicked during an earlier move may have left entries behind.
	drain(m.src)
	drain(m.dst)

	for s := m.current; s != nil; s = s.Parent {
		mustPush(m.src, s)
	}
	for s := next; s != nil; s = s.Parent {
		mustPush(m.dst, s)
	}

	// Both stacks now have their roots on top. Pop while the chains agree;
	// the last shared state is the LCA.
	var lca, branch *State
	for m.src.Len() > 0 && m.dst.Len() > 0 {
		a, _ := m.src.Pop()
		b, _ := m.dst.Pop()
		if a != b {
			branch = b
			break
		}
		lca = a
	}
	drain(m.src)
	if branch == nil && lca == next {
		lca, branch = next.Parent, next
	}

	for s := m.current; s != lca; s = s.Parent {
		m.exit(s, s.Parent == lca)
	}
	m.current = next
	if branch != nil {
		m.enter(branch, m.dst.Len() == 0)
	}
	for m.dst.Len() > 0 {
		s, _ := m.dst.Pop()
		m.enter(s, m.dst.Len() == 0)
	}
}

func (m *Machine) exit(s *State, completed bool) {
	if s.Exit != nil {
		s.Exit(m, StateData(s), completed)
	}
	if s.Parent != nil {
		s.Parent.history = s
	}
}

func (m *Machine) enter(s *State, completed bool) {
	if s.Entry != nil {
		s.Entry(m, StateData(s), completed)
	}
}

func drain(s *collections.Stack[*State]) {
	for s.Len() > 0 {
		_, _ = s.Pop()
	}
}

func mustPush(s *collections.Stack[*State], v *State) {
	if _, err := s.Push(v); err != nil {
		panic(fmt.Sprintf("hfsm: ancestor stack: %v", err))
	}
}

func (m *Machine) debug() bool {
	return m.logger.Enabled(context.Background(), slog.LevelDebug)
}

func (m *Machine) stateChanged(from *State, ev *Event) {
	if m.debug() {
		m.logger.LogAttrs(context.Background(), slog.LevelDebug, "state changed",
			slog.String("from", from.Name),
			slog.String("event", EventName(ev)),
			slog.String("to", m.current.Name))
	}
	if m.observer != nil {
		m.observer.StateChanged(m, from, m.current, ev)
	}
}

func (m *Machine) internal(t *Transition) {
	if m.debug() {
		m.logger.LogAttrs(context.Background(), slog.LevelDebug, "internal transition",
			slog.String("state", m.current.Name),
			slog.String("event", EventName(t.Event)),
			slog.String("action", actionName(t.Action)))
	}
}

func (m *Machine) guardRejected(t *Transition) {
	if m.debug() {
		m.logger.LogAttrs(context.Background(), slog.LevelDebug, "guard rejected event",
			slog.String("state", m.current.Name),
			slog.String("event", EventName(t.Event)),
			slog.String("guard", t.Guard.Name))
	}
	if m.observer != nil {
		m.observer.GuardRejected(m, t)
	}
}

func (m *Machine) ignored(ev *Event) {
	if m.debug() {
		m.logger.LogAttrs(context.Background(), slog.LevelDebug, "event ignored",
			slog.String("state", m.current.Name),
			slog.String("event", EventName(ev)))
	}
	if m.observer != nil {
		m.observer.EventIgnored(m, ev)
	}
}

// EventName returns ev.Name, "null" for NullEvent and "" for nil.
func EventName(ev *Event) string {
	switch ev {
	case nil:
		return ""
	case NullEvent:
		return "null"
	}
	return ev.Name
}

func actionName(a *Action) string {
	if a == nil {
		return ""
	}
	return a.Name
}

// Current returns the active leaf state.
func (m *Machine) Current() *State { return m.current }

// CurrentName returns the name of the active leaf state.
func (m *Machine) CurrentName() string { return m.current.Name }

// ID returns the machine identifier used in logs and metrics.
func (m *Machine) ID() string { return m.id }

// Terminated reports whether Terminate has run.
func (m *Machine) Terminated() bool { return m.terminated }

// Table returns a copy of the machine's transition table.
func (m *Machine) Table() []Transition { return slices.Clone(m.table) }
