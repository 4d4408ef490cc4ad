package collections

import "iter"

// Stack is a LIFO view over a List: push inserts at the head, pop removes
// the head.
type Stack[T any] struct {
	list *List[T]
}

// NewStack creates a stack holding at most capacity payloads.
func NewStack[T any](capacity int) (*Stack[T], error) {
	l, err := NewList[T](capacity)
	if err != nil {
		return nil, err
	}
	return &Stack[T]{list: l}, nil
}

// Push copies v onto the top of the stack.
func (s *Stack[T]) Push(v T) (*T, error) {
	return s.list.Insert(0, v)
}

// Pop removes and returns the top payload.
func (s *Stack[T]) Pop() (T, error) {
	return s.list.popFront()
}

// Peek returns the top payload without removing it.
func (s *Stack[T]) Peek() (*T, error) {
	if s.list.pool.released {
		return nil, ErrReleased
	}
	if s.list.head.IsNil() {
		return nil, ErrEmpty
	}
	return &s.list.pool.at(s.list.head).value, nil
}

// All yields payloads from top to bottom.
func (s *Stack[T]) All() iter.Seq[*T] { return s.list.All() }

// Clear empties the stack in O(capacity).
func (s *Stack[T]) Clear() error { return s.list.Clear() }

// Free releases the backing pool.
func (s *Stack[T]) Free() { s.list.Free() }

// Len returns the number of payloads.
func (s *Stack[T]) Len() int { return s.list.Len() }

// Cap returns the maximum number of payloads.
func (s *Stack[T]) Cap() int { return s.list.Cap() }
