package collections

import (
	"fmt"
	"math"
	"unsafe"
)

// MaxPoolBytes bounds the single block a Pool may allocate.
const MaxPoolBytes = 1 << 32

// Handle is a generation-checked reference to a pool slot.
// The zero Handle is nil.
type Handle struct {
	index uint32 // slot index + 1
	gen   uint32
}

// IsNil reports whether h refers to no slot.
func (h Handle) IsNil() bool { return h.index == 0 }

type slot[T any] struct {
	value T
	next  uint32 // free-list link, slot index + 1
	gen   uint32
	live  bool
}

// Pool is a pre-sized block of fixed-size slots with an intrusive free list.
// Acquire and Release are O(1); Clear is O(capacity).
type Pool[T any] struct {
	slots    []slot[T]
	free     uint32
	live     int
	released bool
}

// NewPool allocates a pool of capacity slots in one block.
func NewPool[T any](capacity int) (*Pool[T], error) {
	var zero T
	if unsafe.Sizeof(zero) == 0 {
		return nil, fmt.Errorf("%w: zero-sized payload", ErrInvalidArgument)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity %d", ErrInvalidArgument, capacity)
	}
	slotBytes := uint64(unsafe.Sizeof(slot[T]{}))
	if uint64(capacity) >= math.MaxUint32 || uint64(capacity) > MaxPoolBytes/slotBytes {
		return nil, fmt.Errorf("%w: %d slots of %d bytes", ErrOutOfMemory, capacity, slotBytes)
	}

	p := &Pool[T]{slots: make([]slot[T], capacity)}
	p.reset()
	return p, nil
}

// reset threads every slot onto the free list, lowest index first, and
// invalidates every outstanding handle.
func (p *Pool[T]) reset() {
	var zero T
	p.free = 0
	for i := len(p.slots) - 1; i >= 0; i-- {
		s := &p.slots[i]
		if s.live {
			s.gen++
			s.live = false
		}
		s.value = zero
		s.next = p.free
		p.free = uint32(i) + 1
	}
	p.live = 0
}

// Acquire pops a slot from the free list.
func (p *Pool[T]) Acquire() (Handle, error) {
	if p.released {
		return Handle{}, ErrReleased
	}
	if p.free == 0 {
		return Handle{}, ErrOutOfCapacity
	}
	idx := p.free
	s := &p.slots[idx-1]
	p.free = s.next
	s.next = 0
	s.live = true
	p.live++
	return Handle{index: idx, gen: s.gen}, nil
}

// Release returns the slot behind h to the free list.
func (p *Pool[T]) Release(h Handle) error {
	s, err := p.lookup(h)
	if err != nil {
		return err
	}
	var zero T
	s.value = zero
	s.live = false
	s.gen++
	s.next = p.free
	p.free = h.index
	p.live--
	return nil
}

// Get resolves a live handle to its payload.
func (p *Pool[T]) Get(h Handle) (*T, bool) {
	s, err := p.lookup(h)
	if err != nil {
		return nil, false
	}
	return &s.value, true
}

// Valid reports whether h refers to a live slot of this pool.
func (p *Pool[T]) Valid(h Handle) bool {
	_, err := p.lookup(h)
	return err == nil
}

func (p *Pool[T]) lookup(h Handle) (*slot[T], error) {
	if p.released {
		return nil, ErrReleased
	}
	if h.index == 0 || int(h.index) > len(p.slots) {
		return nil, ErrInvalidArgument
	}
	s := &p.slots[h.index-1]
	if !s.live || s.gen != h.gen {
		return nil, ErrStaleHandle
	}
	return s, nil
}

// at resolves a handle the caller knows to be live.
func (p *Pool[T]) at(h Handle) *T {
	return &p.slots[h.index-1].value
}

// Clear releases every slot at once by rebuilding the free list.
func (p *Pool[T]) Clear() error {
	if p.released {
		return ErrReleased
	}
	p.reset()
	return nil
}

// Free drops the backing block. The pool is unusable afterwards.
func (p *Pool[T]) Free() {
	p.slots = nil
	p.free = 0
	p.live = 0
	p.released = true
}

// Len returns the number of live slots.
func (p *Pool[T]) Len() int { return p.live }

// Cap returns the number of slots.
func (p *Pool[T]) Cap() int { return len(p.slots) }
