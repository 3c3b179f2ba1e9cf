package dispatcher

import (
	"context"

	"monolift/src/store"
	"monolift/src/types"
)

// target is the call chosen for the current tick and the queue it came
// from, so serve can remove exactly that entry.
type target struct {
	floor int
	dir   types.Direction
	queue store.Queue
}

// selectTarget picks the next floor to serve.
//  1. While moving, continue in the travel direction until that queue has
//     nothing left on the current side, then reverse onto the other queue.
//  2. From idle, take the nearer of the two candidates; an equal distance
//     resolves up.
func (d *Dispatcher) selectTarget(ctx context.Context, state types.ElevState) (target, bool, error) {
	switch state.Dir {
	case types.DirUp:
		return d.continueOrReverse(ctx, state.Floor, store.QueueUp, store.QueueDown)
	case types.DirDown:
		return d.continueOrReverse(ctx, state.Floor, store.QueueDown, store.QueueUp)
	default:
		return d.nearestFromIdle(ctx, state.Floor)
	}
}

func (d *Dispatcher) continueOrReverse(ctx context.Context, floor int, ahead, behind store.Queue) (target, bool, error) {
	if f, ok, err := d.store.QueuePeekNearest(ctx, ahead, floor); err != nil || ok {
		return target{floor: f, dir: queueDir(ahead), queue: ahead}, ok, err
	}
	if f, ok, err := d.store.QueuePeekNearest(ctx, behind, floor); err != nil || ok {
		return target{floor: f, dir: queueDir(behind), queue: behind}, ok, err
	}
	return target{}, false, nil
}

func (d *Dispatcher) nearestFromIdle(ctx context.Context, floor int) (target, bool, error) {
	up, upOK, err := d.store.QueuePeekNearest(ctx, store.QueueUp, floor)
	if err != nil {
		return target{}, false, err
	}
	down, downOK, err := d.store.QueuePeekNearest(ctx, store.QueueDown, floor)
	if err != nil {
		return target{}, false, err
	}
	switch {
	case upOK && downOK:
		if abs(floor-up) <= abs(floor-down) {
			return target{floor: up, dir: types.DirUp, queue: store.QueueUp}, true, nil
		}
		return target{floor: down, dir: types.DirDown, queue: store.QueueDown}, true, nil
	case upOK:
		return target{floor: up, dir: types.DirUp, queue: store.QueueUp}, true, nil
	case downOK:
		return target{floor: down, dir: types.DirDown, queue: store.QueueDown}, true, nil
	}
	return target{}, false, nil
}

func queueDir(q store.Queue) types.Direction {
	if q == store.QueueDown {
		return types.DirDown
	}
	return types.DirUp
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
