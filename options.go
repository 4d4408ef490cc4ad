package hfsm

import "log/slog"

const (
	// DefaultMaxDepth bounds state nesting and sizes the scratch stacks.
	DefaultMaxDepth = 16

	// DefaultMaxChain bounds null-event chaining per Send.
	DefaultMaxChain = 64
)

// Option configures a Machine.
type Option func(*Machine)

// WithMaxDepth sets the maximum length of a state's parent chain, the state
// itself included.
func WithMaxDepth(n int) Option {
	return func(m *Machine) {
		m.maxDepth = n
	}
}

// WithMaxChain sets how many null-event transitions may follow one Send
// before it fails with ErrChainLimit.
func WithMaxChain(n int) Option {
	return func(m *Machine) {
		m.maxChain = n
	}
}

// WithLogger routes machine logs to l. Every record carries the machine ID.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = l
	}
}

// WithID names the machine in logs and metrics. Defaults to a random UUID.
func WithID(id string) Option {
	return func(m *Machine) {
		m.id = id
	}
}

// WithObserver reports dispatch outcomes to o.
func WithObserver(o Observer) Option {
	return func(m *Machine) {
		m.observer = o
	}
}

// WithGoroutineCheck pins the machine to the goroutine that calls New.
// Driving it from any other goroutine panics.
func WithGoroutineCheck() Option {
	return func(m *Machine) {
		m.pinned = true
	}
}
