package hfsm_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/hfsm"
)

func airconDefinition(t *testing.T) *hfsm.Definition {
	t.Helper()
	b := hfsm.NewBuilder()
	b.State("stopped")
	b.State("running").Initial("cooling")
	b.State("cooling").In("running")
	b.State("heating").In("running")
	b.State("boost").In("heating")
	b.Event("run", "stop", "heat", "boost")
	b.On("start", "").Goto("stopped")
	b.On("stopped", "run").Goto("running")
	b.On("running", "stop").Goto("stopped")
	b.On("cooling", "heat").Goto("heating")
	b.On("heating", "boost").Goto("boost")

	def, err := b.Build()
	require.NoError(t, err)
	return def
}

func TestDump(t *testing.T) {
	m, err := airconDefinition(t).NewMachine()
	require.NoError(t, err)

	var sb strings.Builder
	m.Dump(func(s *hfsm.State, depth int) {
		fmt.Fprintf(&sb, "%s%s\n", strings.Repeat("  ", depth-1), s.Name)
	})

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "dump_aircon", []byte(sb.String()))
}

func TestStates_DumpOrder(t *testing.T) {
	m, err := airconDefinition(t).NewMachine()
	require.NoError(t, err)

	var names []string
	for _, s := range m.States() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"stopped", "running", "cooling", "heating", "boost"}, names)
}

func TestDump_AfterTerminate(t *testing.T) {
	m, err := airconDefinition(t).NewMachine()
	require.NoError(t, err)
	require.NoError(t, m.Terminate())

	n := 0
	m.Dump(func(*hfsm.State, int) { n++ })
	assert.Equal(t, 5, n, "the hierarchy outlives the scratch stacks")
}
