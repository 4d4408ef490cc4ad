package collections

import "errors"

var (
	// ErrInvalidArgument reports a zero-sized payload, a non-positive capacity,
	// a nil or foreign handle, or an out-of-range position.
	ErrInvalidArgument = errors.New("collections: invalid argument")

	// ErrOutOfMemory reports a pool whose backing block would exceed MaxPoolBytes.
	ErrOutOfMemory = errors.New("collections: out of memory")

	// ErrOutOfCapacity reports an exhausted pool. It is recoverable: release a
	// slot and retry.
	ErrOutOfCapacity = errors.New("collections: out of capacity")

	// ErrEmpty reports a pop or dequeue with nothing present.
	ErrEmpty = errors.New("collections: empty")

	// ErrStaleHandle reports a handle whose slot was released or cleared.
	ErrStaleHandle = errors.New("collections: stale handle")

	// ErrReleased reports use of a container after Free.
	ErrReleased = errors.New("collections: released")

	// ErrIteratorInvalidated reports a tree that was mutated during iteration.
	ErrIteratorInvalidated = errors.New("collections: iterator invalidated")
)
