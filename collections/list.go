package collections

import (
	"fmt"
	"iter"
	"unsafe"
)

type listNode[T any] struct {
	prev, next Handle
	value      T
}

// List is a bounded doubly-linked list over pool slots.
type List[T any] struct {
	pool  *Pool[listNode[T]]
	head  Handle
	tail  Handle
	count int
}

// NewList creates a list holding at most capacity payloads.
func NewList[T any](capacity int) (*List[T], error) {
	var zero T
	if unsafe.Sizeof(zero) == 0 {
		return nil, fmt.Errorf("%w: zero-sized payload", ErrInvalidArgument)
	}
	pool, err := NewPool[listNode[T]](capacity)
	if err != nil {
		return nil, err
	}
	return &List[T]{pool: pool}, nil
}

// Insert copies v into the list and returns a pointer to the stored copy,
// valid until that node is removed.
//
// index 0 inserts at the head, a negative index at the tail, and a positive
// index n before the node reached by walking n links from the head; n equal
// to Len() appends.
func (l *List[T]) Insert(index int, v T) (*T, error) {
	if l.pool.released {
		return nil, ErrReleased
	}
	var at Handle // insert before at; nil means append
	switch {
	case index == 0:
		at = l.head
	case index > 0:
		at = l.head
		for i := 0; i < index; i++ {
			if at.IsNil() {
				return nil, fmt.Errorf("%w: index %d exceeds length %d", ErrInvalidArgument, index, l.count)
			}
			at = l.pool.at(at).next
		}
	}

	h, err := l.pool.Acquire()
	if err != nil {
		return nil, err
	}
	n := l.pool.at(h)
	n.value = v
	l.linkBefore(h, n, at)
	l.count++
	return &n.value, nil
}

// Add appends v at the tail.
func (l *List[T]) Add(v T) (*T, error) {
	return l.Insert(-1, v)
}

func (l *List[T]) linkBefore(h Handle, n *listNode[T], at Handle) {
	if at.IsNil() {
		n.prev = l.tail
		n.next = Handle{}
		if l.tail.IsNil() {
			l.head = h
		} else {
			l.pool.at(l.tail).next = h
		}
		l.tail = h
		return
	}

	next := l.pool.at(at)
	n.next = at
	n.prev = next.prev
	if n.prev.IsNil() {
		l.head = h
	} else {
		l.pool.at(n.prev).next = h
	}
	next.prev = h
}

// Remove unlinks the node it points at and returns its slot to the pool.
func (l *List[T]) Remove(it Iter[T]) error {
	if it.list != l {
		return fmt.Errorf("%w: iterator from another list", ErrInvalidArgument)
	}
	if _, err := l.pool.lookup(it.h); err != nil {
		return err
	}
	l.unlink(it.h)
	return nil
}

func (l *List[T]) unlink(h Handle) {
	n := l.pool.at(h)
	if n.prev.IsNil() {
		l.head = n.next
	} else {
		l.pool.at(n.prev).next = n.next
	}
	if n.next.IsNil() {
		l.tail = n.prev
	} else {
		l.pool.at(n.next).prev = n.prev
	}
	l.count--
	_ = l.pool.Release(h)
}

// popFront removes the head node and returns its payload.
func (l *List[T]) popFront() (T, error) {
	var zero T
	if l.pool.released {
		return zero, ErrReleased
	}
	if l.head.IsNil() {
		return zero, ErrEmpty
	}
	h := l.head
	v := l.pool.at(h).value
	l.unlink(h)
	return v, nil
}

// Front returns an iterator positioned at the head.
func (l *List[T]) Front() Iter[T] {
	return Iter[T]{list: l, h: l.head}
}

// Find returns an iterator at the first payload matching fn, or an invalid
// iterator.
func (l *List[T]) Find(fn func(*T) bool) Iter[T] {
	for it := l.Front(); it.Valid(); it = it.Next() {
		if fn(it.Value()) {
			return it
		}
	}
	return Iter[T]{list: l}
}

// All yields each payload from head to tail. Removing the yielded node
// during iteration ends the walk early.
func (l *List[T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for it := l.Front(); it.Valid(); it = it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// Clear empties the list in O(capacity).
func (l *List[T]) Clear() error {
	if err := l.pool.Clear(); err != nil {
		return err
	}
	l.head, l.tail = Handle{}, Handle{}
	l.count = 0
	return nil
}

// Free releases the backing pool.
func (l *List[T]) Free() {
	l.pool.Free()
	l.head, l.tail = Handle{}, Handle{}
	l.count = 0
}

// Len returns the number of payloads.
func (l *List[T]) Len() int { return l.count }

// Cap returns the maximum number of payloads.
func (l *List[T]) Cap() int { return l.pool.Cap() }

// Iter is a borrowed position in a List. It is invalidated by removing the
// node it points at.
type Iter[T any] struct {
	list *List[T]
	h    Handle
}

// Valid reports whether the iterator points at a live node.
func (it Iter[T]) Valid() bool {
	return it.list != nil && !it.h.IsNil() && it.list.pool.Valid(it.h)
}

// Next returns the iterator for the following node.
func (it Iter[T]) Next() Iter[T] {
	if !it.Valid() {
		return Iter[T]{list: it.list}
	}
	return Iter[T]{list: it.list, h: it.list.pool.at(it.h).next}
}

// Value returns the payload, or nil for an invalid iterator.
func (it Iter[T]) Value() *T {
	if !it.Valid() {
		return nil
	}
	return &it.list.pool.at(it.h).value
}
