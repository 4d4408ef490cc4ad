package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/comalice/hfsm"
	"github.com/comalice/hfsm/collections"
)

// ErrRunning reports a second Start on a running Runner.
var ErrRunning = errors.New("realtime: runner already started")

// Config configures a Runner.
type Config struct {
	TickRate         time.Duration // Fixed tick rate (default: 16.67ms, 60 FPS)
	MaxEventsPerTick int           // Event queue capacity (default: 1000)
	Logger           *slog.Logger  // Tick failures and recovered panics (default: discard)
}

// Runner owns one machine and drives it from a single goroutine at a fixed
// rate. Any goroutine may queue events with SendEvent; they are applied in
// FIFO order at the next tick.
type Runner struct {
	m        *hfsm.Machine
	tickRate time.Duration
	logger   *slog.Logger

	// mu guards queue. Tick drains it into batch so the machine runs
	// without holding mu.
	mu    sync.Mutex
	queue *collections.Queue[*hfsm.Event]
	batch []*hfsm.Event

	// tickMu serializes Tick between the loop and direct callers.
	tickMu  sync.Mutex
	ticks   atomic.Uint64
	dropped atomic.Uint64
	current atomic.Pointer[hfsm.State]

	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewRunner wraps m. The runner must be the only user of m from now on.
func NewRunner(m *hfsm.Machine, cfg Config) (*Runner, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil machine", hfsm.ErrInvalidArgument)
	}
	if cfg.MaxEventsPerTick == 0 {
		cfg.MaxEventsPerTick = 1000
	}
	if cfg.TickRate == 0 {
		cfg.TickRate = 16667 * time.Microsecond // Default 60 FPS
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.TickRate < 0 {
		return nil, fmt.Errorf("%w: tick rate %v", hfsm.ErrInvalidArgument, cfg.TickRate)
	}

	queue, err := collections.NewQueue[*hfsm.Event](cfg.MaxEventsPerTick)
	if err != nil {
		return nil, fmt.Errorf("allocating event queue: %w", err)
	}
	r := &Runner{
		m:        m,
		tickRate: cfg.TickRate,
		logger:   cfg.Logger.With(slog.String("machine", m.ID())),
		queue:    queue,
		batch:    make([]*hfsm.Event, cfg.MaxEventsPerTick),
	}
	r.current.Store(m.Current())
	return r, nil
}

// Start begins ticking on a new goroutine until ctx is done or Stop is
// called.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped != nil {
		return ErrRunning
	}

	ctx, r.cancel = context.WithCancel(ctx)
	r.stopped = make(chan struct{})
	go r.tickLoop(ctx, r.stopped)
	return nil
}

// Stop halts the tick loop and waits for it to exit. Queued events stay
// queued. Stop on a runner that was never started is a no-op.
func (r *Runner) Stop() error {
	r.mu.Lock()
	cancel, stopped := r.cancel, r.stopped
	r.cancel, r.stopped = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-stopped
	return nil
}

func (r *Runner) tickLoop(ctx context.Context, stopped chan struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(r.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.safeTick(ctx)
		}
	}
}

// safeTick runs one tick, logging instead of crashing on a panicking hook.
func (r *Runner) safeTick(ctx context.Context) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.ErrorContext(ctx, "tick panicked", slog.Any("panic", p), slog.Uint64("tick", r.ticks.Load()))
		}
	}()
	if err := r.Tick(); err != nil {
		r.logger.WarnContext(ctx, "tick failed", slog.Any("error", err), slog.Uint64("tick", r.ticks.Load()))
	}
}

// CurrentName returns the machine's state as of the last completed tick.
func (r *Runner) CurrentName() string { return r.current.Load().Name }

// Current returns the machine's state as of the last completed tick.
func (r *Runner) Current() *hfsm.State { return r.current.Load() }

// Ticks returns the number of completed ticks.
func (r *Runner) Ticks() uint64 { return r.ticks.Load() }

// Dropped returns the number of dequeued events a panicking hook kept from
// being applied.
func (r *Runner) Dropped() uint64 { return r.dropped.Load() }

// Pending returns the number of queued events.
func (r *Runner) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.queue.Len()
}

// Terminate waits for any tick in progress and terminates the machine.
// Events still queued are discarded.
func (r *Runner) Terminate() error {
	r.tickMu.Lock()
	defer r.tickMu.Unlock()

	r.mu.Lock()
	if err := r.queue.Clear(); err != nil {
		r.mu.Unlock()
		return err
	}
	r.mu.Unlock()

	err := r.m.Terminate()
	r.current.Store(r.m.Current())
	return err
}
