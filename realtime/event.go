package realtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/comalice/hfsm"
)

// SendEvent queues ev for the next tick. It is safe for concurrent use.
// A full queue returns an error wrapping collections.ErrOutOfCapacity and
// drops ev.
func (r *Runner) SendEvent(ev *hfsm.Event) error {
	if ev == nil {
		return fmt.Errorf("%w: nil event", hfsm.ErrInvalidArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.queue.Enqueue(ev); err != nil {
		return fmt.Errorf("realtime: queueing %q: %w", hfsm.EventName(ev), err)
	}
	return nil
}

// Event ordering guarantees:
// 1. Events are applied in the order SendEvent accepted them
// 2. Events accepted before a tick starts are all applied in that tick
// 3. Events accepted during a tick wait for the next one

// Feed queues every event received from events until ctx is done or events
// is closed, and returns how many SendEvent rejected.
// Run it on its own goroutine to bridge a channel-based producer.
func (r *Runner) Feed(ctx context.Context, events <-chan *hfsm.Event) int {
	dropped := 0
	for {
		select {
		case <-ctx.Done():
			return dropped
		case ev, ok := <-events:
			if !ok {
				return dropped
			}
			if err := r.SendEvent(ev); err != nil {
				dropped++
				r.logger.WarnContext(ctx, "event dropped", slog.String("event", hfsm.EventName(ev)), slog.Any("error", err))
			}
		}
	}
}
