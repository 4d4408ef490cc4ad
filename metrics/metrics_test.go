package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/hfsm"
)

func newDoor(t *testing.T, o *Observer, id string, open *bool) (*hfsm.Definition, *hfsm.Machine) {
	t.Helper()
	b := hfsm.NewBuilder()
	b.State("closed")
	b.State("open")
	b.Event("pull", "push", "knock")
	b.On("start", "").Goto("closed")
	b.On("closed", "pull").When("unlocked", func(*hfsm.Machine) bool { return *open }).Goto("open")
	b.On("open", "push").Goto("closed")
	def, err := b.Build()
	require.NoError(t, err)

	m, err := def.NewMachine(hfsm.WithID(id), hfsm.WithObserver(o))
	require.NoError(t, err)
	return def, m
}

func TestObserver_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	o := New(reg)
	unlocked := false
	def, m := newDoor(t, o, "door", &unlocked)

	require.NoError(t, m.Send(def.Event("pull")))
	require.NoError(t, m.Send(def.Event("knock")))
	unlocked = true
	require.NoError(t, m.Send(def.Event("pull")))
	require.NoError(t, m.Send(def.Event("push")))
	require.NoError(t, m.Send(def.Event("pull")))

	assert.Equal(t, 1.0, testutil.ToFloat64(o.transitions.WithLabelValues("door", "start", "closed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(o.transitions.WithLabelValues("door", "closed", "open")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.transitions.WithLabelValues("door", "open", "closed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.ignored.WithLabelValues("door", "knock")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.rejected.WithLabelValues("door", "unlocked")))

	expected := `
# HELP hfsm_guard_rejections_total Transition rows whose guard returned false.
# TYPE hfsm_guard_rejections_total counter
hfsm_guard_rejections_total{guard="unlocked",machine="door"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "hfsm_guard_rejections_total"))
}

func TestObserver_Terminate(t *testing.T) {
	o := New(nil)
	unlocked := true
	_, m := newDoor(t, o, "door", &unlocked)

	require.NoError(t, m.Terminate())
	assert.Equal(t, 1.0, testutil.ToFloat64(o.transitions.WithLabelValues("door", "closed", "end")))
}

func TestObserver_Forget(t *testing.T) {
	o := New(nil)
	unlocked := true
	_, a := newDoor(t, o, "a", &unlocked)
	_, _ = newDoor(t, o, "b", &unlocked)
	assert.Equal(t, 2, testutil.CollectAndCount(o.transitions))

	o.Forget(a)
	assert.Equal(t, 1, testutil.CollectAndCount(o.transitions))
}

func TestNew_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) }, "duplicate registration")
}
