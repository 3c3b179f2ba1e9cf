// SCAN-style dispatch loop for the single cab: picks the next call in the
// current travel direction, simulates the ride and settles to idle when
// both queues drain.
package dispatcher

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"monolift/src/config"
	"monolift/src/store"
	"monolift/src/types"
)

type Dispatcher struct {
	store store.Store
	cfg   config.Dispatch

	running atomic.Bool
	// settled suppresses repeated idle writes once the queues are empty.
	// Cleared by CallAdmitted, set again on the first targetless tick.
	settled atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(st store.Store, cfg config.Dispatch) *Dispatcher {
	return &Dispatcher{store: st, cfg: cfg}
}

// Start launches the dispatch loop. Returns false if it is already running.
func (d *Dispatcher) Start() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running.CompareAndSwap(false, true) {
		return false
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.done = make(chan struct{})
	go d.run(ctx, d.done)
	slog.Info("Dispatch loop started")
	return true
}

// Stop signals the loop to exit. The tick in progress, including any
// remaining simulated travel, completes first. Returns false if the loop
// was not running.
func (d *Dispatcher) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running.Load() || d.cancel == nil {
		return false
	}
	d.cancel()
	slog.Info("Dispatch loop stopping")
	return true
}

func (d *Dispatcher) Running() bool {
	return d.running.Load()
}

// Done returns a channel closed when the loop has fully exited. Nil before
// the first Start.
func (d *Dispatcher) Done() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.done
}

// CallAdmitted clears the settled flag so the next empty-queue condition
// logs and writes idle state exactly once again.
func (d *Dispatcher) CallAdmitted() {
	d.settled.Store(false)
}

func (d *Dispatcher) run(ctx context.Context, done chan struct{}) {
	defer func() {
		d.running.Store(false)
		close(done)
		slog.Info("Dispatch loop stopped")
	}()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		d.tick(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(d.cfg.TickInterval):
		}
	}
}

// tick performs one scheduling round. Any store failure makes the tick a
// no-op; the next tick is the retry.
func (d *Dispatcher) tick(ctx context.Context) {
	state, err := d.store.State(ctx)
	if err != nil {
		slog.Error("Tick skipped: reading elevator state", "error", err)
		return
	}

	next, ok, err := d.selectTarget(ctx, state)
	if err != nil {
		slog.Error("Tick skipped: selecting target", "error", err)
		return
	}
	if !ok {
		d.settle(ctx, state)
		return
	}
	d.serve(ctx, state, next)
}

// serve removes the chosen call and simulates the ride: one travel pause
// per floor with a state write at every floor, then the arrival write, the
// intended-direction override and the door dwell.
func (d *Dispatcher) serve(ctx context.Context, state types.ElevState, next target) {
	if err := d.store.QueueRemove(ctx, next.queue, next.floor); err != nil {
		slog.Error("Tick skipped: removing served call", "error", err)
		return
	}
	slog.Info("Serving call", "target", next.floor, "direction", next.dir)

	step := 1
	if next.dir == types.DirDown {
		step = -1
	}
	for floor := state.Floor; floor != next.floor; floor += step {
		if err := d.store.SetState(ctx, types.ElevState{Floor: floor, Dir: next.dir}); err != nil {
			slog.Error("Tick aborted: writing position", "floor", floor, "error", err)
			return
		}
		slog.Info("Moving", "direction", next.dir, "floor", floor)
		time.Sleep(d.cfg.TravelDuration)
	}

	arrival := types.ElevState{Floor: next.floor, Dir: next.dir}
	if err := d.store.SetState(ctx, arrival); err != nil {
		slog.Error("Tick aborted: writing arrival", "floor", next.floor, "error", err)
		return
	}
	slog.Info("Reached floor", "floor", next.floor)

	intended, ok, err := d.store.IntendedDirection(ctx, next.floor)
	if err != nil {
		slog.Error("Reading intended direction", "floor", next.floor, "error", err)
	} else if ok {
		slog.Info("Applying intended direction", "floor", next.floor, "direction", intended)
		if err := d.store.ClearIntendedDirection(ctx, next.floor); err != nil {
			slog.Error("Clearing intended direction", "floor", next.floor, "error", err)
		}
		if err := d.store.SetState(ctx, types.ElevState{Floor: next.floor, Dir: intended}); err != nil {
			slog.Error("Writing intended direction", "floor", next.floor, "error", err)
		}
	}

	slog.Info("Opening door", "floor", next.floor)
	time.Sleep(d.cfg.DoorOpenDuration)
	slog.Info("Closing door", "floor", next.floor)
}

// settle handles the no-target tick: write idle state and log on the first
// one, short wait on every one after that until a new call arrives.
func (d *Dispatcher) settle(ctx context.Context, state types.ElevState) {
	if !d.settled.Swap(true) {
		if err := d.store.SetState(ctx, types.ElevState{Floor: state.Floor, Dir: types.DirIdle}); err != nil {
			d.settled.Store(false)
			slog.Error("Writing idle state", "error", err)
			return
		}
		slog.Info("No pending calls, stopping elevator", "floor", state.Floor)
		return
	}
	time.Sleep(d.cfg.SettleWait)
}
