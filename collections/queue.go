package collections

import "iter"

// Queue is a FIFO view over a List: enqueue inserts at the tail, dequeue
// removes the head.
type Queue[T any] struct {
	list *List[T]
}

// NewQueue creates a queue holding at most capacity payloads.
func NewQueue[T any](capacity int) (*Queue[T], error) {
	l, err := NewList[T](capacity)
	if err != nil {
		return nil, err
	}
	return &Queue[T]{list: l}, nil
}

// Enqueue copies v to the back of the queue.
func (q *Queue[T]) Enqueue(v T) (*T, error) {
	return q.list.Insert(-1, v)
}

// Dequeue removes and returns the front payload.
func (q *Queue[T]) Dequeue() (T, error) {
	return q.list.popFront()
}

// Peek returns the front payload without removing it.
func (q *Queue[T]) Peek() (*T, error) {
	if q.list.pool.released {
		return nil, ErrReleased
	}
	if q.list.head.IsNil() {
		return nil, ErrEmpty
	}
	return &q.list.pool.at(q.list.head).value, nil
}

// All yields payloads from front to back.
func (q *Queue[T]) All() iter.Seq[*T] { return q.list.All() }

// Clear empties the queue in O(capacity).
func (q *Queue[T]) Clear() error { return q.list.Clear() }

// Free releases the backing pool.
func (q *Queue[T]) Free() { q.list.Free() }

// Len returns the number of payloads.
func (q *Queue[T]) Len() int { return q.list.Len() }

// Cap returns the maximum number of payloads.
func (q *Queue[T]) Cap() int { return q.list.Cap() }
