// HTTP binding of the elevator operations.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"monolift/src/controller"
	"monolift/src/dispatcher"
	"monolift/src/types"
)

type Server struct {
	ctrl *controller.Controller
	disp *dispatcher.Dispatcher
}

func New(ctrl *controller.Controller, disp *dispatcher.Dispatcher) *Server {
	return &Server{ctrl: ctrl, disp: disp}
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/state", s.handleState)
	r.Get("/floor", s.handleFloor)
	r.Post("/go/{floor}", s.handleCarCall)
	r.Post("/{floor}/up", s.handleHallCall(types.DirUp))
	r.Post("/{floor}/down", s.handleHallCall(types.DirDown))
	r.Post("/simulation/start", s.handleSimStart)
	r.Post("/simulation/stop", s.handleSimStop)
	r.Get("/simulation/status", s.handleSimStatus)
	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to the elevator service.",
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state, err := s.ctrl.State(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleFloor(w http.ResponseWriter, r *http.Request) {
	floor, err := s.ctrl.Floor(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"current_floor": floor})
}

func (s *Server) handleCarCall(w http.ResponseWriter, r *http.Request) {
	floor, ok := floorParam(w, r)
	if !ok {
		return
	}
	outcome, err := s.ctrl.SubmitCarCall(r.Context(), floor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":           outcomeMessage(outcome),
		"destination_floor": floor,
	})
}

func (s *Server) handleHallCall(dir types.Direction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		floor, ok := floorParam(w, r)
		if !ok {
			return
		}
		outcome, err := s.ctrl.SubmitHallCall(r.Context(), floor, dir)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":           outcomeMessage(outcome),
			"called_from_floor": floor,
			"direction":         dir,
		})
	}
}

func (s *Server) handleSimStart(w http.ResponseWriter, r *http.Request) {
	if !s.disp.Start() {
		writeJSON(w, http.StatusOK, map[string]any{"message": "Simulation is already running"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Elevator simulation started"})
}

func (s *Server) handleSimStop(w http.ResponseWriter, r *http.Request) {
	if !s.disp.Stop() {
		writeJSON(w, http.StatusOK, map[string]any{"message": "Simulation is not running"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Elevator simulation stopping..."})
}

func (s *Server) handleSimStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"running": s.disp.Running()})
}

func floorParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	floor, err := strconv.Atoi(chi.URLParam(r, "floor"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"detail": "Floor must be a positive integer",
		})
		return 0, false
	}
	return floor, true
}

func outcomeMessage(outcome types.CallOutcome) string {
	if outcome == types.CallAlreadyThere {
		return "Already at the requested floor"
	}
	return "Request submitted successfully"
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, controller.ErrInvalidFloor) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": err.Error()})
		return
	}
	slog.Error("Request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]any{"detail": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Encoding response", "error", err)
	}
}
