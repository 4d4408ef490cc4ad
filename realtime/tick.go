package realtime

import (
	"errors"
	"log/slog"

	"github.com/comalice/hfsm"
)

// Tick processes one tick: drain the queue, send each event to the machine
// in order, then run Update once. Errors from individual events do not stop
// the tick; they are joined and returned.
//
// Tick may be called directly instead of Start for manual stepping.
func (r *Runner) Tick() error {
	r.tickMu.Lock()
	defer r.tickMu.Unlock()

	// Phase 1: Collect events atomically
	events := r.collectEvents()

	// A panicking hook abandons the rest of the batch.
	applied := 0
	defer func() {
		if lost := len(events) - applied; lost > 0 {
			clear(events[applied:])
			r.dropped.Add(uint64(lost))
			r.logger.Error("events dropped", slog.Int("count", lost), slog.Uint64("tick", r.ticks.Load()))
		}
	}()

	// Phase 2: Apply events in FIFO order
	var errs []error
	for i, ev := range events {
		if err := r.m.Send(ev); err != nil {
			errs = append(errs, err)
		}
		events[i] = nil
		applied++
	}

	// Phase 3: Run the current state's exec hook
	if err := r.m.Update(); err != nil {
		errs = append(errs, err)
	}

	r.current.Store(r.m.Current())
	r.ticks.Add(1)
	return errors.Join(errs...)
}

// collectEvents moves every queued event into the batch buffer.
func (r *Runner) collectEvents() []*hfsm.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for r.queue.Len() > 0 {
		ev, err := r.queue.Dequeue()
		if err != nil {
			break
		}
		r.batch[n] = ev
		n++
	}
	return r.batch[:n]
}
