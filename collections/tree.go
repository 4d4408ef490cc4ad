package collections

import (
	"fmt"
	"unsafe"
)

type treeNode[T any] struct {
	firstChild  Handle
	nextSibling Handle
	depth       int
	value       T
}

// NodeID is an opaque reference to a tree node.
type NodeID = Handle

// Tree is a bounded N-ary tree in first-child/next-sibling encoding under a
// synthetic root. The root has depth 0 and does not count against capacity.
type Tree[T comparable] struct {
	pool    *Pool[treeNode[T]]
	root    Handle
	search  *Stack[Handle]
	count   int
	version uint64
}

// NewTree creates a tree holding at most capacity nodes besides the root.
func NewTree[T comparable](capacity int) (*Tree[T], error) {
	var zero T
	if unsafe.Sizeof(zero) == 0 {
		return nil, fmt.Errorf("%w: zero-sized payload", ErrInvalidArgument)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity %d", ErrInvalidArgument, capacity)
	}
	pool, err := NewPool[treeNode[T]](capacity + 1)
	if err != nil {
		return nil, err
	}
	search, err := NewStack[Handle](capacity + 1)
	if err != nil {
		return nil, err
	}
	t := &Tree[T]{pool: pool, search: search}
	t.root, _ = pool.Acquire()
	return t, nil
}

// Insert copies v under the node whose payload equals *parent, or under the
// root when parent is nil, and returns a pointer to the stored copy.
//
// The parent is located by checking a node, then its whole next-sibling
// chain (with their subtrees), and only then its first child. When several
// nodes hold an equal payload the first one reached in that order wins; use
// Attach to address a specific node.
func (t *Tree[T]) Insert(parent *T, v T) (*T, error) {
	if t.pool.released {
		return nil, ErrReleased
	}
	target := t.root
	if parent != nil {
		var ok bool
		if target, ok = t.find(*parent); !ok {
			return nil, fmt.Errorf("%w: parent not found", ErrInvalidArgument)
		}
	}
	h, err := t.attach(target, v)
	if err != nil {
		return nil, err
	}
	return &t.pool.at(h).value, nil
}

// Attach copies v as the last child of parent.
func (t *Tree[T]) Attach(parent NodeID, v T) (NodeID, error) {
	if _, err := t.pool.lookup(parent); err != nil {
		return Handle{}, err
	}
	return t.attach(parent, v)
}

func (t *Tree[T]) attach(parent Handle, v T) (Handle, error) {
	h, err := t.pool.Acquire()
	if err != nil {
		return Handle{}, err
	}
	p := t.pool.at(parent)
	n := t.pool.at(h)
	n.value = v
	n.depth = p.depth + 1
	n.firstChild = Handle{}
	n.nextSibling = Handle{}

	if p.firstChild.IsNil() {
		p.firstChild = h
	} else {
		last := p.firstChild
		for next := t.pool.at(last).nextSibling; !next.IsNil(); next = t.pool.at(last).nextSibling {
			last = next
		}
		t.pool.at(last).nextSibling = h
	}
	t.count++
	t.version++
	return h, nil
}

// find walks the tree sibling subtree before child subtree. Popping the
// sibling before the child from the LIFO search stack reproduces that order
// without recursion.
func (t *Tree[T]) find(v T) (Handle, bool) {
	start := t.pool.at(t.root).firstChild
	if start.IsNil() {
		return Handle{}, false
	}
	if _, err := t.search.Push(start); err != nil {
		panic("collections: tree search stack overflow")
	}
	defer t.drainSearch()

	for t.search.Len() > 0 {
		h, _ := t.search.Pop()
		n := t.pool.at(h)
		if n.value == v {
			return h, true
		}
		if !n.firstChild.IsNil() {
			t.mustPush(t.search, n.firstChild)
		}
		if !n.nextSibling.IsNil() {
			t.mustPush(t.search, n.nextSibling)
		}
	}
	return Handle{}, false
}

func (t *Tree[T]) drainSearch() {
	for t.search.Len() > 0 {
		_, _ = t.search.Pop()
	}
}

// mustPush pushes onto a stack sized to the node count; failure means the
// tree links are corrupt.
func (t *Tree[T]) mustPush(s *Stack[Handle], h Handle) {
	if _, err := s.Push(h); err != nil {
		panic(fmt.Sprintf("collections: tree stack overflow: %v", err))
	}
}

// Root returns the synthetic root node.
func (t *Tree[T]) Root() NodeID { return t.root }

// Value returns the payload stored at id.
func (t *Tree[T]) Value(id NodeID) (*T, bool) {
	if id == t.root {
		return nil, false
	}
	n, ok := t.pool.Get(id)
	if !ok {
		return nil, false
	}
	return &n.value, true
}

// Depth returns the depth recorded for id when it was inserted.
func (t *Tree[T]) Depth(id NodeID) int {
	n, ok := t.pool.Get(id)
	if !ok {
		return -1
	}
	return n.depth
}

// Clear removes every node but the root in O(capacity).
func (t *Tree[T]) Clear() error {
	if err := t.pool.Clear(); err != nil {
		return err
	}
	t.root, _ = t.pool.Acquire()
	t.count = 0
	t.version++
	return nil
}

// Free releases the backing pool.
func (t *Tree[T]) Free() {
	t.pool.Free()
	t.search.Free()
	t.count = 0
	t.version++
}

// Len returns the number of nodes, excluding the root.
func (t *Tree[T]) Len() int { return t.count }

// Cap returns the maximum number of nodes, excluding the root.
func (t *Tree[T]) Cap() int { return t.pool.Cap() - 1 }
