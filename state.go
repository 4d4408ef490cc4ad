package hfsm

// HookFunc runs when a state is entered or exited. completed is true only for
// the last hook of a transition on that side: the target leaf on entry, and
// the direct child of the common ancestor on exit.
type HookFunc func(m *Machine, data any, completed bool)

// ExecFunc runs on Update while its state is current.
type ExecFunc func(m *Machine, data any)

// State is a node in the machine hierarchy. States are configuration: build
// them before New and do not change their fields afterwards.
type State struct {
	Name   string
	Parent *State
	Data   any

	Entry HookFunc
	Exec  ExecFunc
	Exit  HookFunc

	// Initial is the direct child entered when this state becomes the target
	// of a transition and has no history yet.
	Initial *State

	// history is the direct child that was active when this state was last
	// left. It is written by the child's exit and read on this state's entry.
	history *State
}

// History returns the child remembered from the last exit, or nil.
func (s *State) History() *State { return s.history }

// Event is a transition trigger, compared by identity.
type Event struct {
	Name string
}

// Guard gates a transition. A nil Predicate always passes.
type Guard struct {
	Name      string
	Predicate func(m *Machine) bool
}

// Action is run by a transition before the state change.
type Action struct {
	Name   string
	Effect func(m *Machine)
}

// Transition is one row of a machine's table. A nil To makes the row an
// internal transition: its Action runs and the state does not change.
type Transition struct {
	From   *State
	Event  *Event
	Guard  *Guard
	Action *Action
	To     *State
}

func (t *Transition) allows(m *Machine) bool {
	return t.Guard == nil || t.Guard.Predicate == nil || t.Guard.Predicate(m)
}

func (t *Transition) run(m *Machine) {
	if t.Action != nil && t.Action.Effect != nil {
		t.Action.Effect(m)
	}
}

var (
	// Start is the pseudostate every machine begins in. Rows from Start on
	// NullEvent fire during New.
	Start = &State{Name: "start"}

	// End is the pseudostate Terminate moves to.
	End = &State{Name: "end"}

	// NullEvent is dispatched after every committed state change until no
	// row matches, enabling chains of transitions without external input.
	NullEvent = &Event{Name: ""}
)

type empty struct{}

// Empty is the payload passed to hooks of states without Data.
var Empty any = empty{}

// StateData returns s.Data, or Empty when s is nil or carries no payload.
func StateData(s *State) any {
	if s == nil || s.Data == nil {
		return Empty
	}
	return s.Data
}

func isPseudo(s *State) bool { return s == Start || s == End }

// depth counts s and its ancestors, stopping once limit is exceeded so that
// parent cycles terminate.
func depth(s *State, limit int) int {
	n := 0
	for ; s != nil && n <= limit; s = s.Parent {
		n++
	}
	return n
}
