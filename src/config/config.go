package config

import "time"

const (
	MaxFloor     = 20
	DefaultFloor = 1

	TickInterval     = 500 * time.Millisecond
	TravelDuration   = 1 * time.Second
	DoorOpenDuration = 2 * time.Second
	SettleWait       = 2 * time.Second

	DefaultListenAddr = ":8002"
	DefaultRedisAddr  = "localhost:6379"
)

// Dispatch bundles the scheduler timing knobs so tests can shrink them.
type Dispatch struct {
	TickInterval     time.Duration
	TravelDuration   time.Duration
	DoorOpenDuration time.Duration
	SettleWait       time.Duration
}

// DefaultDispatch returns the production timings.
func DefaultDispatch() Dispatch {
	return Dispatch{
		TickInterval:     TickInterval,
		TravelDuration:   TravelDuration,
		DoorOpenDuration: DoorOpenDuration,
		SettleWait:       SettleWait,
	}
}
