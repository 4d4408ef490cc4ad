package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPool_InvalidArguments(t *testing.T) {
	_, err := NewPool[int](0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewPool[int](-3)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewPool[struct{}](4)
	assert.ErrorIs(t, err, ErrInvalidArgument, "zero-sized payloads are rejected")
}

func TestNewPool_OutOfMemory(t *testing.T) {
	_, err := NewPool[[1 << 20]byte](1 << 13)
	assert.ErrorIs(t, err, ErrOutOfMemory)
}

func TestPool_CapacityLaw(t *testing.T) {
	p, err := NewPool[int](4)
	require.NoError(t, err)

	var handles []Handle
	for i := 0; i < 4; i++ {
		h, err := p.Acquire()
		require.NoError(t, err, "acquire %d", i)
		handles = append(handles, h)
	}
	assert.Equal(t, 4, p.Len())

	_, err = p.Acquire()
	assert.ErrorIs(t, err, ErrOutOfCapacity)

	require.NoError(t, p.Release(handles[2]))
	assert.Equal(t, 3, p.Len())

	h, err := p.Acquire()
	require.NoError(t, err, "a released slot is reusable")
	assert.NotEqual(t, handles[2], h, "reused slot carries a new generation")
}

func TestPool_StaleHandle(t *testing.T) {
	p, err := NewPool[string](2)
	require.NoError(t, err)

	h, err := p.Acquire()
	require.NoError(t, err)
	v, ok := p.Get(h)
	require.True(t, ok)
	*v = "payload"

	require.NoError(t, p.Release(h))
	_, ok = p.Get(h)
	assert.False(t, ok)
	assert.ErrorIs(t, p.Release(h), ErrStaleHandle, "double release is detected")

	again, err := p.Acquire()
	require.NoError(t, err)
	got, ok := p.Get(again)
	require.True(t, ok)
	assert.Empty(t, *got, "released payloads are zeroed")
	assert.False(t, p.Valid(h))
}

func TestPool_InvalidHandle(t *testing.T) {
	p, err := NewPool[int](2)
	require.NoError(t, err)

	assert.ErrorIs(t, p.Release(Handle{}), ErrInvalidArgument)
	assert.ErrorIs(t, p.Release(Handle{index: 9}), ErrInvalidArgument)
}

func TestPool_ClearInvalidatesHandles(t *testing.T) {
	p, err := NewPool[int](3)
	require.NoError(t, err)

	a, _ := p.Acquire()
	b, _ := p.Acquire()
	require.NoError(t, p.Clear())

	assert.Equal(t, 0, p.Len())
	assert.False(t, p.Valid(a))
	assert.False(t, p.Valid(b))

	for i := 0; i < 3; i++ {
		_, err := p.Acquire()
		require.NoError(t, err)
	}
}

func TestPool_FreeThenUse(t *testing.T) {
	p, err := NewPool[int](2)
	require.NoError(t, err)
	h, _ := p.Acquire()

	p.Free()

	_, err = p.Acquire()
	assert.ErrorIs(t, err, ErrReleased)
	assert.ErrorIs(t, p.Release(h), ErrReleased)
	assert.ErrorIs(t, p.Clear(), ErrReleased)
	assert.Equal(t, 0, p.Cap())
}
