package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monolift/src/types"
)

func TestMemStoreStateDefaults(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	state, err := s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.ElevState{Floor: 1, Dir: types.DirIdle}, state)

	require.NoError(t, s.SetState(ctx, types.ElevState{Floor: 7, Dir: types.DirUp}))
	state, err = s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.ElevState{Floor: 7, Dir: types.DirUp}, state)
}

func TestMemStoreStateCorruptionResets(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	require.NoError(t, s.SetState(ctx, types.ElevState{Floor: 99, Dir: types.DirUp}))
	state, err := s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.ElevState{Floor: 1, Dir: types.DirIdle}, state)
}

func TestMemStoreQueueAddIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	require.NoError(t, s.QueueAdd(ctx, QueueUp, 5))
	require.NoError(t, s.QueueAdd(ctx, QueueUp, 5))
	require.NoError(t, s.QueueAdd(ctx, QueueUp, 3))

	members, err := s.QueueMembers(ctx, QueueUp)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 5}, members)
}

func TestMemStorePeekNearestUp(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	for _, f := range []int{3, 8, 12} {
		require.NoError(t, s.QueueAdd(ctx, QueueUp, f))
	}

	floor, ok, err := s.QueuePeekNearest(ctx, QueueUp, 5)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 8, floor)

	// Peek must include the current floor itself.
	floor, ok, err = s.QueuePeekNearest(ctx, QueueUp, 8)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 8, floor)

	_, ok, err = s.QueuePeekNearest(ctx, QueueUp, 13)
	require.NoError(t, err)
	assert.False(t, ok)

	// Peeking never consumes.
	members, err := s.QueueMembers(ctx, QueueUp)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 8, 12}, members)
}

func TestMemStorePeekNearestDown(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	for _, f := range []int{3, 8} {
		require.NoError(t, s.QueueAdd(ctx, QueueDown, f))
	}

	floor, ok, err := s.QueuePeekNearest(ctx, QueueDown, 5)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, floor)

	floor, ok, err = s.QueuePeekNearest(ctx, QueueDown, 10)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 8, floor)

	_, ok, err = s.QueuePeekNearest(ctx, QueueDown, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemStoreQueueRemove(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	require.NoError(t, s.QueueAdd(ctx, QueueDown, 4))

	require.NoError(t, s.QueueRemove(ctx, QueueDown, 4))
	require.NoError(t, s.QueueRemove(ctx, QueueDown, 4)) // absent is fine

	members, err := s.QueueMembers(ctx, QueueDown)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestMemStoreIntendedDirection(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	_, ok, err := s.IntendedDirection(ctx, 10)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetIntendedDirection(ctx, 10, types.DirDown))
	dir, ok, err := s.IntendedDirection(ctx, 10)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.DirDown, dir)

	require.NoError(t, s.ClearIntendedDirection(ctx, 10))
	_, ok, err = s.IntendedDirection(ctx, 10)
	require.NoError(t, err)
	assert.False(t, ok)
}
