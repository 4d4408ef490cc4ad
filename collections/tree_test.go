package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type visit struct {
	value int
	depth int
}

func walk(t *testing.T, tr *Tree[int]) []visit {
	t.Helper()
	var out []visit
	it := tr.Iter()
	for it.Next() {
		out = append(out, visit{*it.Value(), it.Depth()})
	}
	require.NoError(t, it.Err())
	return out
}

func ptr[T any](v T) *T { return &v }

func TestTree_OrderA(t *testing.T) {
	tr, err := NewTree[int](8)
	require.NoError(t, err)

	_, err = tr.Insert(nil, 0)
	require.NoError(t, err)
	_, err = tr.Insert(ptr(0), 1)
	require.NoError(t, err)
	_, err = tr.Insert(ptr(0), 2)
	require.NoError(t, err)
	_, err = tr.Insert(ptr(2), 3)
	require.NoError(t, err)
	_, err = tr.Insert(ptr(3), 4)
	require.NoError(t, err)

	assert.Equal(t, []visit{{0, 1}, {1, 2}, {2, 2}, {3, 3}, {4, 4}}, walk(t, tr))
	assert.Equal(t, 5, tr.Len())
}

func TestTree_OrderB(t *testing.T) {
	tr, err := NewTree[int](8)
	require.NoError(t, err)

	_, err = tr.Insert(nil, 0)
	require.NoError(t, err)
	_, err = tr.Insert(ptr(0), 1)
	require.NoError(t, err)
	_, err = tr.Insert(ptr(0), 2)
	require.NoError(t, err)
	_, err = tr.Insert(ptr(2), 3)
	require.NoError(t, err)
	_, err = tr.Insert(ptr(1), 4)
	require.NoError(t, err)

	assert.Equal(t, []visit{{0, 1}, {1, 2}, {4, 3}, {2, 2}, {3, 3}}, walk(t, tr))
}

func TestTree_DuplicateParentTieBreak(t *testing.T) {
	tr, err := NewTree[int](8)
	require.NoError(t, err)

	_, err = tr.Insert(nil, 1)
	require.NoError(t, err)
	_, err = tr.Insert(nil, 2)
	require.NoError(t, err)
	_, err = tr.Insert(ptr(1), 5)
	require.NoError(t, err)
	_, err = tr.Insert(ptr(2), 5)
	require.NoError(t, err)

	// The sibling chain of 1 is searched before its children, so the 5 under
	// 2 is reached first.
	_, err = tr.Insert(ptr(5), 9)
	require.NoError(t, err)

	assert.Equal(t, []visit{{1, 1}, {5, 2}, {2, 1}, {5, 2}, {9, 3}}, walk(t, tr))
}

func TestTree_Attach(t *testing.T) {
	tr, err := NewTree[int](4)
	require.NoError(t, err)

	a, err := tr.Attach(tr.Root(), 5)
	require.NoError(t, err)
	_, err = tr.Attach(tr.Root(), 5)
	require.NoError(t, err)
	leaf, err := tr.Attach(a, 9)
	require.NoError(t, err)

	assert.Equal(t, 2, tr.Depth(leaf))
	v, ok := tr.Value(leaf)
	require.True(t, ok)
	assert.Equal(t, 9, *v)
	_, ok = tr.Value(tr.Root())
	assert.False(t, ok, "the root carries no payload")

	assert.Equal(t, []visit{{5, 1}, {9, 2}, {5, 1}}, walk(t, tr))

	_, err = tr.Attach(Handle{}, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTree_ParentNotFound(t *testing.T) {
	tr, err := NewTree[int](4)
	require.NoError(t, err)

	_, err = tr.Insert(ptr(7), 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = tr.Insert(nil, 1)
	require.NoError(t, err)
	_, err = tr.Insert(ptr(7), 2)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, 1, tr.Len())
}

func TestTree_CapacityLaw(t *testing.T) {
	tr, err := NewTree[int](3)
	require.NoError(t, err)
	assert.Equal(t, 3, tr.Cap())

	for i := 0; i < 3; i++ {
		_, err := tr.Insert(nil, i)
		require.NoError(t, err)
	}
	_, err = tr.Insert(nil, 3)
	assert.ErrorIs(t, err, ErrOutOfCapacity)
	assert.Equal(t, 3, tr.Len())
}

func TestTree_SearchStackReused(t *testing.T) {
	tr, err := NewTree[int](16)
	require.NoError(t, err)

	_, err = tr.Insert(nil, 0)
	require.NoError(t, err)
	for i := 1; i < 16; i++ {
		_, err := tr.Insert(ptr(i-1), i)
		require.NoError(t, err, "insert %d", i)
	}
	assert.Equal(t, 0, tr.search.Len(), "search stack is drained after every insert")
	assert.Len(t, walk(t, tr), 16)
}

func TestTreeIter_InvalidatedByInsert(t *testing.T) {
	tr, err := NewTree[int](4)
	require.NoError(t, err)
	_, err = tr.Insert(nil, 0)
	require.NoError(t, err)
	_, err = tr.Insert(nil, 1)
	require.NoError(t, err)

	it := tr.Iter()
	require.True(t, it.Next())

	_, err = tr.Insert(nil, 2)
	require.NoError(t, err)

	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Err(), ErrIteratorInvalidated)
	assert.Nil(t, it.Value())

	it.Reset()
	require.NoError(t, it.Err())
	n := 0
	for it.Next() {
		n++
	}
	assert.Equal(t, 3, n)
}

func TestTree_ClearAndFree(t *testing.T) {
	tr, err := NewTree[int](2)
	require.NoError(t, err)
	_, err = tr.Insert(nil, 1)
	require.NoError(t, err)
	_, err = tr.Insert(ptr(1), 2)
	require.NoError(t, err)

	require.NoError(t, tr.Clear())
	assert.Equal(t, 0, tr.Len())
	assert.Empty(t, walk(t, tr))

	_, err = tr.Insert(nil, 3)
	require.NoError(t, err)
	_, err = tr.Insert(nil, 4)
	require.NoError(t, err, "clear returns every slot")

	tr.Free()
	_, err = tr.Insert(nil, 5)
	assert.ErrorIs(t, err, ErrReleased)
	assert.ErrorIs(t, tr.Iter().Err(), ErrReleased)

	tr, err = NewTree[int](5)
	require.NoError(t, err)
	_, err = tr.Insert(nil, 6)
	require.NoError(t, err)
}

func TestNewTree_InvalidArguments(t *testing.T) {
	_, err := NewTree[int](0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewTree[struct{}](2)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
