// Persistence layer for the elevator service: the shared state record, the
// two directional call queues and the per-floor intended-direction table.
package store

import (
	"context"

	"monolift/src/types"
)

// Queue names one of the two directional call queues.
type Queue string

const (
	QueueUp   Queue = "up"
	QueueDown Queue = "down"
)

// Store is the persistence contract the scheduler and call admission run
// against. Multi-operation sequences are not atomic; a single scheduler
// instance is assumed to perform all target selection and state mutation.
type Store interface {
	// State returns the elevator record, creating the default
	// {DefaultFloor, Idle} on first access. A missing or malformed
	// persisted value is reset to the default, never surfaced as an error.
	State(ctx context.Context) (types.ElevState, error)
	SetState(ctx context.Context, state types.ElevState) error

	// QueueAdd inserts floor into q. Re-adding a present floor is a no-op.
	QueueAdd(ctx context.Context, q Queue, floor int) error
	// QueuePeekNearest returns the next floor to serve from q when the cab
	// is at from: the smallest member >= from for the up queue, the
	// largest member <= from for the down queue. It never mutates q.
	QueuePeekNearest(ctx context.Context, q Queue, from int) (int, bool, error)
	// QueueRemove removes floor from q if present.
	QueueRemove(ctx context.Context, q Queue, floor int) error
	// QueueMembers returns a snapshot of q in ascending order.
	QueueMembers(ctx context.Context, q Queue) ([]int, error)

	IntendedDirection(ctx context.Context, floor int) (types.Direction, bool, error)
	SetIntendedDirection(ctx context.Context, floor int, dir types.Direction) error
	ClearIntendedDirection(ctx context.Context, floor int) error
}
