package controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monolift/src/config"
	"monolift/src/dispatcher"
	"monolift/src/store"
	"monolift/src/types"
)

func newTestController(t *testing.T) (*Controller, *store.MemStore) {
	t.Helper()
	st := store.NewMemStore()
	disp := dispatcher.New(st, config.Dispatch{TickInterval: time.Millisecond})
	return New(st, disp), st
}

func TestHallCallClassification(t *testing.T) {
	ctx := context.Background()
	c, st := newTestController(t)
	require.NoError(t, st.SetState(ctx, types.ElevState{Floor: 5, Dir: types.DirIdle}))

	outcome, err := c.SubmitHallCall(ctx, 8, types.DirDown)
	require.NoError(t, err)
	assert.Equal(t, types.CallAdmitted, outcome)

	outcome, err = c.SubmitHallCall(ctx, 3, types.DirUp)
	require.NoError(t, err)
	assert.Equal(t, types.CallAdmitted, outcome)

	// Queue placement follows floor vs cab position, not the requested
	// direction.
	up, err := st.QueueMembers(ctx, store.QueueUp)
	require.NoError(t, err)
	assert.Equal(t, []int{8}, up)
	down, err := st.QueueMembers(ctx, store.QueueDown)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, down)

	dir, ok, err := st.IntendedDirection(ctx, 8)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.DirDown, dir)
	dir, ok, err = st.IntendedDirection(ctx, 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.DirUp, dir)
}

func TestCarCallPlacesExactlyOneQueue(t *testing.T) {
	ctx := context.Background()
	c, st := newTestController(t)
	require.NoError(t, st.SetState(ctx, types.ElevState{Floor: 5, Dir: types.DirIdle}))

	outcome, err := c.SubmitCarCall(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, types.CallAdmitted, outcome)

	up, err := st.QueueMembers(ctx, store.QueueUp)
	require.NoError(t, err)
	assert.Empty(t, up)
	down, err := st.QueueMembers(ctx, store.QueueDown)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, down)

	// Car calls never touch the intended-direction table.
	_, ok, err := st.IntendedDirection(ctx, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAlreadyThereLeavesQueuesUntouched(t *testing.T) {
	ctx := context.Background()
	c, st := newTestController(t)
	require.NoError(t, st.SetState(ctx, types.ElevState{Floor: 5, Dir: types.DirIdle}))

	outcome, err := c.SubmitCarCall(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, types.CallAlreadyThere, outcome)

	outcome, err = c.SubmitHallCall(ctx, 5, types.DirUp)
	require.NoError(t, err)
	assert.Equal(t, types.CallAlreadyThere, outcome)

	for _, q := range []store.Queue{store.QueueUp, store.QueueDown} {
		members, err := st.QueueMembers(ctx, q)
		require.NoError(t, err)
		assert.Empty(t, members)
	}
	_, ok, err := st.IntendedDirection(ctx, 5)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInvalidFloorRejected(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestController(t)

	for _, floor := range []int{0, -3, config.MaxFloor + 1} {
		_, err := c.SubmitCarCall(ctx, floor)
		assert.ErrorIs(t, err, ErrInvalidFloor)
		_, err = c.SubmitHallCall(ctx, floor, types.DirUp)
		assert.ErrorIs(t, err, ErrInvalidFloor)
	}
}

func TestStateAndFloorQueries(t *testing.T) {
	ctx := context.Background()
	c, st := newTestController(t)
	require.NoError(t, st.SetState(ctx, types.ElevState{Floor: 9, Dir: types.DirDown}))

	state, err := c.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.ElevState{Floor: 9, Dir: types.DirDown}, state)

	floor, err := c.Floor(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, floor)
}
