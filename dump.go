package hfsm

// Dump calls render for every state in the hierarchy, parents before
// children, with root states at depth 1. Pseudostates are not included.
func (m *Machine) Dump(render func(s *State, depth int)) {
	it := m.hierarchy.Iter()
	for it.Next() {
		render(*it.Value(), it.Depth())
	}
}

// States returns the states of the hierarchy in Dump order.
func (m *Machine) States() []*State {
	states := make([]*State, 0, m.hierarchy.Len())
	m.Dump(func(s *State, _ int) {
		states = append(states, s)
	})
	return states
}
