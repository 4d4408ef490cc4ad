// Package realtime drives an hfsm.Machine at a fixed tick rate.
//
// A Machine is single-threaded. The Runner is the synchronization point
// for programs that produce events on several goroutines:
//   - SendEvent may be called from any goroutine; events go into a bounded
//     queue allocated once by NewRunner
//   - Each tick drains the queue in FIFO order into the machine, then runs
//     Update once
//   - A full queue rejects the event instead of growing
//
// # Example Usage
//
//	m, _ := def.NewMachine()
//	r, _ := realtime.NewRunner(m, realtime.Config{
//		TickRate: 16667 * time.Microsecond, // 60 FPS
//	})
//	r.Start(ctx)
//	defer r.Stop()
//	r.SendEvent(def.Event("run"))
//
// Tick can also be called directly for manual stepping, which is how tests
// get reproducible runs without timers.
//
// # Use Cases
//
//   - Control loops with a fixed period
//   - Game logic at 60 FPS
//   - Testing/debugging (reproducible scenarios)
//
// Do not combine Start with hfsm.WithGoroutineCheck: ticks run on the
// runner's own goroutine.
package realtime
