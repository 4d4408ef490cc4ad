// Package metrics exports machine activity as Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/comalice/hfsm"
)

// Observer counts transitions, ignored events and guard rejections per
// machine. Install it with hfsm.WithObserver. Counters are labelled with
// the machine ID, so give long-lived machines a stable one with
// hfsm.WithID.
type Observer struct {
	transitions *prometheus.CounterVec
	ignored     *prometheus.CounterVec
	rejected    *prometheus.CounterVec
}

var _ hfsm.Observer = (*Observer)(nil)

// New creates the counters and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Observer {
	f := promauto.With(reg)
	return &Observer{
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hfsm",
			Name:      "transitions_total",
			Help:      "Committed state transitions by source and resolved target state.",
		}, []string{"machine", "from", "to"}),
		ignored: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hfsm",
			Name:      "events_ignored_total",
			Help:      "Events that no transition row handled.",
		}, []string{"machine", "event"}),
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hfsm",
			Name:      "guard_rejections_total",
			Help:      "Transition rows whose guard returned false.",
		}, []string{"machine", "guard"}),
	}
}

// StateChanged counts a transition by source and resolved target.
func (o *Observer) StateChanged(m *hfsm.Machine, from, to *hfsm.State, _ *hfsm.Event) {
	o.transitions.WithLabelValues(m.ID(), from.Name, to.Name).Inc()
}

// EventIgnored counts an event no row handled.
func (o *Observer) EventIgnored(m *hfsm.Machine, ev *hfsm.Event) {
	o.ignored.WithLabelValues(m.ID(), hfsm.EventName(ev)).Inc()
}

// GuardRejected counts a rejection under the guard's name.
func (o *Observer) GuardRejected(m *hfsm.Machine, t *hfsm.Transition) {
	o.rejected.WithLabelValues(m.ID(), t.Guard.Name).Inc()
}

// Forget drops every series labelled with the machine's ID, typically after
// Terminate.
func (o *Observer) Forget(m *hfsm.Machine) {
	labels := prometheus.Labels{"machine": m.ID()}
	o.transitions.DeletePartialMatch(labels)
	o.ignored.DeletePartialMatch(labels)
	o.rejected.DeletePartialMatch(labels)
}
