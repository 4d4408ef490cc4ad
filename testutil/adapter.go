package testutil

import (
	"github.com/comalice/hfsm"
	"github.com/comalice/hfsm/realtime"
)

// Driver provides a common interface for a bare machine and a tick-based
// runner. This allows running the same scenario against both.
type Driver interface {
	SendEvent(ev *hfsm.Event) error
	// Settle applies everything sent so far.
	Settle() error
	CurrentName() string
}

// DirectDriver sends events straight to the machine.
type DirectDriver struct {
	m *hfsm.Machine
}

// NewDirectDriver wraps m.
func NewDirectDriver(m *hfsm.Machine) *DirectDriver {
	return &DirectDriver{m: m}
}

func (d *DirectDriver) SendEvent(ev *hfsm.Event) error { return d.m.Send(ev) }

// Settle is a no-op: Send is synchronous.
func (d *DirectDriver) Settle() error { return nil }

func (d *DirectDriver) CurrentName() string { return d.m.CurrentName() }

// TickDriver queues events on a realtime.Runner and steps it by hand.
type TickDriver struct {
	r *realtime.Runner
}

// NewTickDriver wraps m in a runner with the given queue size.
func NewTickDriver(m *hfsm.Machine, queue int) (*TickDriver, error) {
	r, err := realtime.NewRunner(m, realtime.Config{MaxEventsPerTick: queue})
	if err != nil {
		return nil, err
	}
	return &TickDriver{r: r}, nil
}

func (d *TickDriver) SendEvent(ev *hfsm.Event) error { return d.r.SendEvent(ev) }

// Settle runs one tick.
func (d *TickDriver) Settle() error { return d.r.Tick() }

func (d *TickDriver) CurrentName() string { return d.r.CurrentName() }
