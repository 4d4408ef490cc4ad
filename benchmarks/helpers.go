// Package benchmarks generates machines of configurable shape for the
// transition, memory and runner benchmarks.
package benchmarks

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/comalice/hfsm"
	"github.com/comalice/hfsm/config"
)

// FlatDocument describes n top-level states s0..s(n-1) cycling on "tick".
func FlatDocument(n int) *config.Document {
	if n < 1 {
		n = 1
	}
	doc := &config.Document{
		Name:   fmt.Sprintf("flat_%d", n),
		Events: []string{"tick"},
		Transitions: []config.TransitionSpec{
			{From: "start", To: "s0"},
		},
	}
	for i := range n {
		doc.States = append(doc.States, config.StateSpec{Name: fmt.Sprintf("s%d", i)})
		doc.Transitions = append(doc.Transitions, config.TransitionSpec{
			From:  fmt.Sprintf("s%d", i),
			Event: "tick",
			To:    fmt.Sprintf("s%d", (i+1)%n),
		})
	}
	return doc
}

// DeepDocument describes two chains of composites, left c0..c(depth-1) and
// right d0..d(depth-1), each ending in a leaf. "tick" crosses between the
// leaves, so every transition exits and enters depth+1 states. "poke" is
// handled only by c0 and d0 and bubbles up from the leaves.
func DeepDocument(depth int) *config.Document {
	if depth < 1 {
		depth = 1
	}
	doc := &config.Document{
		Name:   fmt.Sprintf("deep_%d", depth),
		Events: []string{"tick", "poke"},
	}
	for _, side := range []string{"c", "d"} {
		parent := ""
		for i := range depth {
			name := fmt.Sprintf("%s%d", side, i)
			doc.States = append(doc.States, config.StateSpec{Name: name, Parent: parent})
			parent = name
		}
		doc.States = append(doc.States, config.StateSpec{Name: side + "_leaf", Parent: parent})
	}
	doc.Transitions = []config.TransitionSpec{
		{From: "start", To: "c_leaf"},
		{From: "c_leaf", Event: "tick", To: "d_leaf"},
		{From: "d_leaf", Event: "tick", To: "c_leaf"},
		{From: "c0", Event: "poke", Action: "noop"},
		{From: "d0", Event: "poke", Action: "noop"},
	}
	return doc
}

// WideDocument describes one state with n guarded "tick" rows; only the
// last guard passes and it loops back.
func WideDocument(n int) *config.Document {
	if n < 1 {
		n = 1
	}
	doc := &config.Document{
		Name:   fmt.Sprintf("wide_%d", n),
		States: []config.StateSpec{{Name: "main"}},
		Events: []string{"tick"},
		Transitions: []config.TransitionSpec{
			{From: "start", To: "main"},
		},
	}
	for i := range n {
		guard := "closed"
		if i == n-1 {
			guard = "open"
		}
		doc.Transitions = append(doc.Transitions, config.TransitionSpec{
			From: "main", Event: "tick", Guard: guard, To: "main",
		})
	}
	return doc
}

// Registry resolves the function names the generated documents use.
func Registry() *config.Registry {
	return config.NewRegistry().
		Guard("open", func(*hfsm.Machine) bool { return true }).
		Guard("closed", func(*hfsm.Machine) bool { return false }).
		Action("noop", func(*hfsm.Machine) {})
}

// MustDefinition builds doc against Registry and panics on error.
func MustDefinition(doc *config.Document) *hfsm.Definition {
	def, err := doc.Build(Registry())
	if err != nil {
		panic(err)
	}
	return def
}

// MarshalYAML encodes doc the way definition files are stored.
func MarshalYAML(doc *config.Document) []byte {
	data, err := yaml.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return data
}
