package collections

// TreeIter walks a Tree in pre-order. It owns a fringe stack sized to the
// tree, so a walk never allocates after Iter returns.
//
// Any mutation of the tree after Iter or Reset invalidates the iterator:
// Next returns false and Err reports ErrIteratorInvalidated.
type TreeIter[T comparable] struct {
	tree    *Tree[T]
	fringe  *Stack[Handle]
	cur     Handle
	version uint64
	err     error
}

// Iter returns an iterator positioned before the first node.
func (t *Tree[T]) Iter() *TreeIter[T] {
	it := &TreeIter[T]{tree: t}
	if t.pool.released {
		it.err = ErrReleased
		return it
	}
	fringe, err := NewStack[Handle](t.pool.Cap())
	if err != nil {
		it.err = err
		return it
	}
	it.fringe = fringe
	it.Reset()
	return it
}

// Reset rewinds the iterator to the start of the tree as it is now.
func (it *TreeIter[T]) Reset() {
	if it.fringe == nil {
		return
	}
	t := it.tree
	if t.pool.released {
		it.err = ErrReleased
		return
	}
	for it.fringe.Len() > 0 {
		_, _ = it.fringe.Pop()
	}
	it.err = nil
	it.cur = Handle{}
	it.version = t.version
	// The root has no siblings, so only its first child seeds the fringe.
	if first := t.pool.at(t.root).firstChild; !first.IsNil() {
		t.mustPush(it.fringe, first)
	}
}

// Next advances to the following node and reports whether there is one.
func (it *TreeIter[T]) Next() bool {
	if it.err != nil {
		return false
	}
	t := it.tree
	if t.pool.released {
		it.err = ErrReleased
		return false
	}
	if it.version != t.version {
		it.err = ErrIteratorInvalidated
		it.cur = Handle{}
		return false
	}
	if it.fringe.Len() == 0 {
		it.cur = Handle{}
		return false
	}
	h, _ := it.fringe.Pop()
	n := t.pool.at(h)
	if !n.nextSibling.IsNil() {
		t.mustPush(it.fringe, n.nextSibling)
	}
	if !n.firstChild.IsNil() {
		t.mustPush(it.fringe, n.firstChild)
	}
	it.cur = h
	return true
}

// Node returns the current node.
func (it *TreeIter[T]) Node() NodeID { return it.cur }

// Value returns the current payload, or nil when the iterator is not
// positioned on a node.
func (it *TreeIter[T]) Value() *T {
	if it.cur.IsNil() || it.err != nil {
		return nil
	}
	return &it.tree.pool.at(it.cur).value
}

// Depth returns the current node's depth, or 0 when the iterator is not
// positioned on a node.
func (it *TreeIter[T]) Depth() int {
	if it.cur.IsNil() || it.err != nil {
		return 0
	}
	return it.tree.pool.at(it.cur).depth
}

// Err returns the error that stopped the walk, if any.
func (it *TreeIter[T]) Err() error { return it.err }
