package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/hfsm"
)

func machinesDir() string {
	return filepath.Join("..", "testdata", "machines")
}

func airconRegistry(log *[]string) *Registry {
	note := func(s string) { *log = append(*log, s) }
	bump := func(state string) func(*hfsm.Machine) {
		return func(*hfsm.Machine) { note(state + ".temp") }
	}
	return NewRegistry().
		Hook("engine_off", func(*hfsm.Machine, any, bool) { note("engine off") }).
		Hook("engine_on", func(*hfsm.Machine, any, bool) { note("engine on") }).
		Hook("report", func(m *hfsm.Machine, _ any, _ bool) { note(m.CurrentName()) }).
		Action("cooling_inc", bump("cooling")).
		Action("cooling_dec", bump("cooling")).
		Action("heating_inc", bump("heating")).
		Action("heating_dec", bump("heating"))
}

func TestLoadFile_Aircon(t *testing.T) {
	doc, err := LoadFile(filepath.Join(machinesDir(), "aircon.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "aircon", doc.Name)
	require.Len(t, doc.States, 4)
	assert.Equal(t, StateSpec{Name: "cooling", Parent: "running", Data: 23, Entry: "report"}, doc.States[2])
	assert.Len(t, doc.Events, 6)
	require.Len(t, doc.Transitions, 11)
	assert.Equal(t, TransitionSpec{From: "start", To: "stopped"}, doc.Transitions[0])
	assert.Equal(t, TransitionSpec{From: "cooling", Event: "inc_temp", Action: "cooling_inc"}, doc.Transitions[7])
}

func TestBuild_Aircon(t *testing.T) {
	doc, err := LoadFile(filepath.Join(machinesDir(), "aircon.yaml"))
	require.NoError(t, err)

	var log []string
	def, err := doc.Build(airconRegistry(&log))
	require.NoError(t, err)

	m, err := def.NewMachine(hfsm.WithID(doc.Name))
	require.NoError(t, err)
	assert.Equal(t, "stopped", m.CurrentName())
	assert.Equal(t, 23, hfsm.StateData(def.State("cooling")))

	for _, ev := range []string{"run", "inc_temp", "heat", "dec_temp", "stop", "run"} {
		require.NoError(t, m.Send(def.Event(ev)))
	}
	assert.Equal(t, "heating", m.CurrentName(), "running resumes its history")
	assert.Equal(t, []string{
		"engine off",
		"engine on", "cooling",
		"cooling.temp",
		"heating",
		"heating.temp",
		"engine off",
		"engine on", "heating",
	}, log)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "Empty", input: "", wantErr: "empty document"},
		{name: "UnknownField", input: "name: x\ncolour: red\n", wantErr: "colour"},
		{name: "WrongType", input: "states: 3\n", wantErr: "yaml decode"},
		{name: "Minimal", input: "states: [{name: a}]\ntransitions: [{from: start, to: a}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, doc)
				return
			}
			require.NoError(t, err)
			require.Len(t, doc.States, 1)
		})
	}
}

func TestParse_EmptyDocumentSentinel(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuild_GuardFromRegistry(t *testing.T) {
	doc, err := LoadFile(filepath.Join(machinesDir(), "door.yaml"))
	require.NoError(t, err)

	hasKey := false
	def, err := doc.Build(NewRegistry().Guard("has_key", func(*hfsm.Machine) bool { return hasKey }))
	require.NoError(t, err)
	m, err := def.NewMachine()
	require.NoError(t, err)

	require.NoError(t, m.Send(def.Event("lock")))
	assert.Equal(t, "closed", m.CurrentName())
	hasKey = true
	require.NoError(t, m.Send(def.Event("lock")))
	assert.Equal(t, "locked", m.CurrentName())
	require.NoError(t, m.Send(def.Event("pull")))
	assert.Equal(t, "locked", m.CurrentName())
}

func TestBuild_Unregistered(t *testing.T) {
	doc, err := LoadFile(filepath.Join(machinesDir(), "aircon.yaml"))
	require.NoError(t, err)

	def, err := doc.Build(nil)
	assert.Nil(t, def)
	assert.ErrorIs(t, err, ErrUnregistered)
	for _, name := range []string{"engine_off", "engine_on", "report", "cooling_inc", "heating_dec"} {
		assert.Contains(t, err.Error(), name)
	}
}

func TestBuild_DefinitionErrors(t *testing.T) {
	doc, err := LoadFile(filepath.Join(machinesDir(), "broken.yaml"))
	require.NoError(t, err)

	_, err = doc.Build(NewRegistry())
	assert.ErrorIs(t, err, hfsm.ErrDuplicate)
	assert.ErrorIs(t, err, hfsm.ErrUnknownEvent)
	assert.ErrorIs(t, err, hfsm.ErrUnknownState)
}

func TestBuild_InternalAndNullRows(t *testing.T) {
	doc, err := Parse(strings.NewReader(`
states:
  - name: idle
  - name: busy
  - name: done
events: [tick, go]
transitions:
  - {from: start, to: idle}
  - {from: idle, event: tick, action: count}
  - {from: idle, event: go, to: busy}
  - {from: busy, guard: finished, to: done}
`))
	require.NoError(t, err)

	count := 0
	reg := NewRegistry().
		Action("count", func(*hfsm.Machine) { count++ }).
		Guard("finished", func(*hfsm.Machine) bool { return count >= 2 })
	def, err := doc.Build(reg)
	require.NoError(t, err)

	table := def.Table()
	assert.Nil(t, table[1].To)
	assert.Same(t, hfsm.NullEvent, table[3].Event)

	m, err := def.NewMachine()
	require.NoError(t, err)
	require.NoError(t, m.Send(def.Event("tick")))
	require.NoError(t, m.Send(def.Event("tick")))
	assert.Equal(t, "idle", m.CurrentName())
	assert.Equal(t, 2, count)
	require.NoError(t, m.Send(def.Event("go")))
	assert.Equal(t, "done", m.CurrentName(), "the null row fires once busy is entered")
}

func TestRefs(t *testing.T) {
	doc, err := LoadFile(filepath.Join(machinesDir(), "aircon.yaml"))
	require.NoError(t, err)

	refs := doc.Refs()
	assert.Equal(t, []string{"engine_off", "engine_on", "report"}, refs.Hooks)
	assert.Empty(t, refs.Execs)
	assert.Empty(t, refs.Guards)
	assert.Equal(t, []string{"cooling_dec", "cooling_inc", "heating_dec", "heating_inc"}, refs.Actions)
}
