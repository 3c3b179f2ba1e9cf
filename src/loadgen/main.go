// Synthetic multi-user load generator for the elevator service. Each user
// loops: call the elevator from a floor, poll until the cab arrives, board
// and request a destination, ride, then wait a random think-time before
// the next trip.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"

	"monolift/src/config"
	"monolift/src/types"
)

const (
	maxWait     = 60 * time.Second
	pollEvery   = 2 * time.Second
	boardingLag = 5 * time.Second
)

func main() {
	users := flag.Int("users", 10, "number of simultaneous users")
	duration := flag.Duration("duration", 5*time.Minute, "total simulation duration")
	minInterval := flag.Duration("min-interval", 5*time.Second, "minimum think-time between trips")
	maxInterval := flag.Duration("max-interval", 20*time.Second, "maximum think-time between trips")
	url := flag.String("url", "http://localhost:8002", "elevator service URL")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	c := &client{baseURL: *url, http: &http.Client{Timeout: 10 * time.Second}}
	if err := ensureDispatchRunning(c); err != nil {
		slog.Error("Elevator service unavailable", "url", *url, "error", err)
		os.Exit(1)
	}

	slog.Info("Starting load generation", "users", *users, "duration", *duration)
	deadline := time.Now().Add(*duration)

	var wg sync.WaitGroup
	for id := 1; id <= *users; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			u := newUser(id, c)
			for time.Now().Before(deadline) {
				u.trip()
				think := *minInterval + time.Duration(rand.Int63n(int64(*maxInterval-*minInterval)+1))
				slog.Debug("User thinking", "user", id, "wait", think)
				time.Sleep(think)
			}
		}(id)
	}
	wg.Wait()
	slog.Info("Load generation completed")
}

// ensureDispatchRunning starts the dispatch loop if the service reports it
// stopped.
func ensureDispatchRunning(c *client) error {
	running, err := c.simStatus()
	if err != nil {
		return err
	}
	if !running {
		slog.Info("Dispatch loop not running, starting it")
		return c.simStart()
	}
	return nil
}

type user struct {
	id     int
	floor  int
	client *client
}

func newUser(id int, c *client) *user {
	u := &user{id: id, floor: 1 + rand.Intn(config.MaxFloor), client: c}
	slog.Info("User created", "user", id, "floor", u.floor)
	return u
}

// trip runs one full usage cycle: hall call, wait, car call, ride.
func (u *user) trip() {
	dest := u.otherFloor()
	dir := types.DirUp
	if dest < u.floor {
		dir = types.DirDown
	}
	slog.Info("User calling elevator", "user", u.id, "floor", u.floor, "direction", dir)
	if err := u.client.hallCall(u.floor, dir); err != nil {
		slog.Error("Hall call failed", "user", u.id, "error", err)
		return
	}
	if !u.awaitCab(u.floor, "waiting for elevator") {
		return
	}

	slog.Info("User boarding", "user", u.id, "floor", u.floor)
	if err := u.client.carCall(dest); err != nil {
		slog.Error("Car call failed", "user", u.id, "error", err)
		return
	}
	if u.awaitCab(dest, "riding") {
		slog.Info("User arrived", "user", u.id, "floor", dest)
	}
	// Even on a timed-out ride, carry on from the destination so the
	// simulation keeps producing traffic.
	u.floor = dest
}

// awaitCab polls floor and state until the cab is at want. The cab counts
// as arrived when it reports idle there, or after a grace period long
// enough for the door cycle.
func (u *user) awaitCab(want int, phase string) bool {
	start := time.Now()
	for time.Since(start) < maxWait {
		state, err := u.client.state()
		if err != nil {
			slog.Error("Polling state failed", "user", u.id, "error", err)
		} else {
			slog.Debug("Cab position", "user", u.id, "phase", phase,
				"floor", state.Floor, "state", state.Dir)
			if state.Floor == want && (state.Dir == types.DirIdle || time.Since(start) > boardingLag) {
				return true
			}
		}
		time.Sleep(pollEvery)
	}
	slog.Warn("User gave up", "user", u.id, "phase", phase, "after", maxWait)
	return false
}

func (u *user) otherFloor() int {
	for {
		f := 1 + rand.Intn(config.MaxFloor)
		if f != u.floor {
			return f
		}
	}
}

type client struct {
	baseURL string
	http    *http.Client
}

func (c *client) state() (types.ElevState, error) {
	var state types.ElevState
	err := c.getJSON("/state", &state)
	return state, err
}

func (c *client) hallCall(floor int, dir types.Direction) error {
	return c.post(fmt.Sprintf("/%d/%s", floor, dir))
}

func (c *client) carCall(floor int) error {
	return c.post(fmt.Sprintf("/go/%d", floor))
}

func (c *client) simStatus() (bool, error) {
	var status struct {
		Running bool `json:"running"`
	}
	err := c.getJSON("/simulation/status", &status)
	return status.Running, err
}

func (c *client) simStart() error {
	return c.post("/simulation/start")
}

func (c *client) getJSON(path string, v any) error {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *client) post(path string) error {
	resp, err := c.http.Post(c.baseURL+path, "application/json", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("POST %s: status %d", path, resp.StatusCode)
	}
	return nil
}
