// Package render draws a machine's state hierarchy as indented text or as
// Graphviz DOT source.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/comalice/hfsm"
)

// Indent returns a Dump callback writing one line per state, indented two
// spaces per level. States on current's ancestor chain are marked with
// " *". Write errors are dropped; use Text to observe them.
func Indent(w io.Writer, current *hfsm.State) func(*hfsm.State, int) {
	active := activeSet(current)
	return func(s *hfsm.State, depth int) {
		mark := ""
		if active[s] {
			mark = " *"
		}
		fmt.Fprintf(w, "%s%s%s\n", strings.Repeat("  ", depth-1), s.Name, mark)
	}
}

// Text writes the hierarchy of m with its active states marked.
func Text(w io.Writer, m *hfsm.Machine) error {
	var buf bytes.Buffer
	m.Dump(Indent(&buf, m.Current()))
	_, err := w.Write(buf.Bytes())
	return err
}

// activeSet returns s and its ancestors.
func activeSet(s *hfsm.State) map[*hfsm.State]bool {
	active := make(map[*hfsm.State]bool)
	for ; s != nil; s = s.Parent {
		active[s] = true
	}
	return active
}

type node struct {
	state *hfsm.State
	depth int
}

// DOT writes Graphviz source for m. Composite states become clusters, each
// table row becomes an edge and internal transitions are dashed self-loops.
// The active leaf is filled green and its active ancestors orange.
func DOT(w io.Writer, m *hfsm.Machine) error {
	var buf bytes.Buffer
	buf.WriteString(`digraph hfsm {
  rankdir=LR;
  node [shape=box, style=rounded, fontsize=10];
  edge [fontsize=9];

`)

	table := m.Table()
	var hasEnd bool
	for _, t := range table {
		if t.To == hfsm.End {
			hasEnd = true
		}
	}
	fmt.Fprintf(&buf, "  %q [shape=point];\n", hfsm.Start.Name)
	if hasEnd {
		fmt.Fprintf(&buf, "  %q [shape=doublecircle, label=\"\"];\n", hfsm.End.Name)
	}

	var nodes []node
	m.Dump(func(s *hfsm.State, depth int) {
		nodes = append(nodes, node{s, depth})
	})
	writeStates(&buf, nodes, activeSet(m.Current()))

	buf.WriteString("\n")
	for i := range table {
		writeEdge(&buf, &table[i])
	}
	buf.WriteString("}\n")

	_, err := w.Write(buf.Bytes())
	return err
}

func writeStates(buf *bytes.Buffer, nodes []node, active map[*hfsm.State]bool) {
	var open []int
	indent := func() string { return strings.Repeat("  ", len(open)+1) }
	closeTo := func(depth int) {
		for len(open) > 0 && open[len(open)-1] >= depth {
			open = open[:len(open)-1]
			fmt.Fprintf(buf, "%s}\n", indent())
		}
	}

	for i, n := range nodes {
		closeTo(n.depth)
		in := indent()
		name := n.state.Name
		if i+1 < len(nodes) && nodes[i+1].depth > n.depth {
			fmt.Fprintf(buf, "%ssubgraph %q {\n", in, "cluster_"+name)
			fmt.Fprintf(buf, "%s  label=%q;\n", in, name)
			if active[n.state] {
				fmt.Fprintf(buf, "%s  style=\"rounded,filled\";\n%s  fillcolor=orange;\n", in, in)
			} else {
				fmt.Fprintf(buf, "%s  style=rounded;\n", in)
			}
			fmt.Fprintf(buf, "%s  %q [shape=ellipse];\n", in, name)
			open = append(open, n.depth)
			continue
		}
		if active[n.state] {
			fmt.Fprintf(buf, "%s%q [style=\"rounded,filled\", fillcolor=lightgreen];\n", in, name)
		} else {
			fmt.Fprintf(buf, "%s%q;\n", in, name)
		}
	}
	closeTo(0)
}

func writeEdge(buf *bytes.Buffer, t *hfsm.Transition) {
	to := t.To
	var attrs []string
	if label := edgeLabel(t); label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", label))
	}
	if to == nil {
		to = t.From
		attrs = append(attrs, "style=dashed")
	}
	fmt.Fprintf(buf, "  %q -> %q", t.From.Name, to.Name)
	if len(attrs) > 0 {
		fmt.Fprintf(buf, " [%s]", strings.Join(attrs, ", "))
	}
	buf.WriteString(";\n")
}

// edgeLabel renders a row as "event [guard] / action", omitting empty
// parts. The null event has no label.
func edgeLabel(t *hfsm.Transition) string {
	var parts []string
	if t.Event != hfsm.NullEvent {
		parts = append(parts, t.Event.Name)
	}
	if t.Guard != nil {
		parts = append(parts, "["+t.Guard.Name+"]")
	}
	if t.Action != nil {
		parts = append(parts, "/ "+t.Action.Name)
	}
	return strings.Join(parts, " ")
}
