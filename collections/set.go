package collections

import "iter"

// Set is a List that refuses duplicates. Membership is a linear scan with
// ==, so Add is O(n); there is no hashing.
type Set[T comparable] struct {
	list *List[T]
}

// NewSet creates a set holding at most capacity payloads.
func NewSet[T comparable](capacity int) (*Set[T], error) {
	l, err := NewList[T](capacity)
	if err != nil {
		return nil, err
	}
	return &Set[T]{list: l}, nil
}

// Add returns the stored payload equal to v, inserting v at the tail if no
// such payload exists.
func (s *Set[T]) Add(v T) (*T, error) {
	if it := s.find(v); it.Valid() {
		return it.Value(), nil
	}
	return s.list.Insert(-1, v)
}

// Contains reports whether a payload equal to v is stored.
func (s *Set[T]) Contains(v T) bool {
	return s.find(v).Valid()
}

// Delete removes the payload equal to v and reports whether one was found.
func (s *Set[T]) Delete(v T) bool {
	it := s.find(v)
	if !it.Valid() {
		return false
	}
	return s.list.Remove(it) == nil
}

// Remove unlinks the node it points at.
func (s *Set[T]) Remove(it Iter[T]) error { return s.list.Remove(it) }

// Front returns an iterator positioned at the first payload.
func (s *Set[T]) Front() Iter[T] { return s.list.Front() }

func (s *Set[T]) find(v T) Iter[T] {
	for it := s.list.Front(); it.Valid(); it = it.Next() {
		if *it.Value() == v {
			return it
		}
	}
	return Iter[T]{list: s.list}
}

// All yields payloads in insertion order.
func (s *Set[T]) All() iter.Seq[*T] { return s.list.All() }

// Clear empties the set in O(capacity).
func (s *Set[T]) Clear() error { return s.list.Clear() }

// Free releases the backing pool.
func (s *Set[T]) Free() { s.list.Free() }

// Len returns the number of payloads.
func (s *Set[T]) Len() int { return s.list.Len() }

// Cap returns the maximum number of payloads.
func (s *Set[T]) Cap() int { return s.list.Cap() }
