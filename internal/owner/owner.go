// Package owner asserts single-threaded, non-reentrant use of an object.
package owner

import (
	"fmt"

	"github.com/petermattis/goid"
)

// Guard tracks whether an operation is in progress. The zero value checks
// reentrancy only; Pin adds a goroutine-affinity check.
type Guard struct {
	busy   bool
	pinned bool
	gid    int64
}

// Pin binds the guard to the calling goroutine.
func (g *Guard) Pin() {
	g.pinned = true
	g.gid = goid.Get()
}

// Pinned reports whether Pin was called.
func (g *Guard) Pinned() bool { return g.pinned }

// Enter marks op as running. It panics if another operation is already
// running or the caller is not the pinned goroutine.
func (g *Guard) Enter(op string) {
	if g.pinned {
		if id := goid.Get(); id != g.gid {
			panic(fmt.Sprintf("%s called from goroutine %d, owner is %d", op, id, g.gid))
		}
	}
	if g.busy {
		panic(fmt.Sprintf("%s called reentrantly from a hook or action", op))
	}
	g.busy = true
}

// Exit marks the running operation as finished.
func (g *Guard) Exit() { g.busy = false }
