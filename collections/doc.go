// Package collections provides fixed-capacity, arena-backed containers for the
// hfsm runtime.
//
// Every container is carved out of a Pool that is allocated exactly once at
// construction. Inserts and removals only move slots between the live set and
// an intrusive free list, so steady-state use performs no heap allocation.
//
// Core invariants:
//   - A slot is either live or free, never both.
//   - Len() never exceeds Cap(); running out of slots is ErrOutOfCapacity, an
//     expected condition the caller must check.
//   - Links between nodes are generation-checked Handles, so a handle kept past
//     the removal of its node resolves to nothing instead of to a reused slot.
//
// None of the containers are safe for concurrent use.
package collections
