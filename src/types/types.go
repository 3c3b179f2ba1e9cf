// Shared types for the elevator service.
package types

import (
	"fmt"
	"strings"
)

// Direction is the travel direction of the cab, or Idle when parked.
type Direction int

const (
	DirIdle Direction = iota
	DirUp
	DirDown
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	default:
		return "idle"
	}
}

// MarshalJSON emits the lowercase wire form ("up", "down", "idle").
func (d Direction) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Direction) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection maps the persisted/wire form back to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "idle":
		return DirIdle, nil
	}
	return DirIdle, fmt.Errorf("unknown direction %q", s)
}

// ElevState is the single shared elevator record: where the cab is and
// which way it is going.
type ElevState struct {
	Floor int       `json:"floor"`
	Dir   Direction `json:"state"`
}

// CallOutcome reports what admission did with a call.
type CallOutcome int

const (
	CallAdmitted CallOutcome = iota
	CallAlreadyThere
)

func (c CallOutcome) String() string {
	if c == CallAlreadyThere {
		return "already there"
	}
	return "admitted"
}
