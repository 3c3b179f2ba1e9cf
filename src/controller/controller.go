// Call admission and read-only state queries for the single cab.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"monolift/src/config"
	"monolift/src/dispatcher"
	"monolift/src/store"
	"monolift/src/types"
)

// ErrInvalidFloor rejects floors outside [1, config.MaxFloor] before
// anything reaches the queues.
var ErrInvalidFloor = fmt.Errorf("floor must be between 1 and %d", config.MaxFloor)

type Controller struct {
	store store.Store
	disp  *dispatcher.Dispatcher
}

func New(st store.Store, disp *dispatcher.Dispatcher) *Controller {
	return &Controller{store: st, disp: disp}
}

// SubmitHallCall admits an external call from floor with a desired travel
// direction. The floor is classified against the cab position read now;
// the cab may have moved by the time the scheduler consults the queue,
// which can place a call on the wrong sweep. That snapshot behavior is
// kept as is.
func (c *Controller) SubmitHallCall(ctx context.Context, floor int, dir types.Direction) (types.CallOutcome, error) {
	if floor < 1 || floor > config.MaxFloor {
		return 0, ErrInvalidFloor
	}
	state, err := c.store.State(ctx)
	if err != nil {
		return 0, err
	}
	slog.Info("Hall call", "floor", floor, "direction", dir, "cab", state.Floor)
	if floor == state.Floor {
		return types.CallAlreadyThere, nil
	}

	if err := c.store.QueueAdd(ctx, classify(floor, state.Floor), floor); err != nil {
		return 0, err
	}
	// The requested direction is independent of which sweep picks the
	// call up; it is applied as an override on arrival.
	if err := c.store.SetIntendedDirection(ctx, floor, dir); err != nil {
		return 0, err
	}
	c.disp.CallAdmitted()
	c.logQueues(ctx)
	return types.CallAdmitted, nil
}

// SubmitCarCall admits a destination request from inside the cab. No
// intended direction: the passenger is dropped off and the sweep carries
// on.
func (c *Controller) SubmitCarCall(ctx context.Context, floor int) (types.CallOutcome, error) {
	if floor < 1 || floor > config.MaxFloor {
		return 0, ErrInvalidFloor
	}
	state, err := c.store.State(ctx)
	if err != nil {
		return 0, err
	}
	slog.Info("Car call", "floor", floor, "cab", state.Floor)
	if floor == state.Floor {
		return types.CallAlreadyThere, nil
	}

	if err := c.store.QueueAdd(ctx, classify(floor, state.Floor), floor); err != nil {
		return 0, err
	}
	c.disp.CallAdmitted()
	c.logQueues(ctx)
	return types.CallAdmitted, nil
}

// State returns the current elevator record.
func (c *Controller) State(ctx context.Context) (types.ElevState, error) {
	return c.store.State(ctx)
}

// Floor returns the current cab position.
func (c *Controller) Floor(ctx context.Context) (int, error) {
	state, err := c.store.State(ctx)
	if err != nil {
		return 0, err
	}
	return state.Floor, nil
}

func classify(floor, cabFloor int) store.Queue {
	if floor > cabFloor {
		return store.QueueUp
	}
	return store.QueueDown
}

func (c *Controller) logQueues(ctx context.Context) {
	up, upErr := c.store.QueueMembers(ctx, store.QueueUp)
	down, downErr := c.store.QueueMembers(ctx, store.QueueDown)
	if err := errors.Join(upErr, downErr); err != nil {
		slog.Debug("Queue snapshot unavailable", "error", err)
		return
	}
	slog.Debug("Queue contents", "up", up, "down", down)
}
