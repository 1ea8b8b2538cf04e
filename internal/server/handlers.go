package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/claude/mapty/internal/render"
	"github.com/claude/mapty/internal/tracker"
	"github.com/claude/mapty/internal/workout"
	"github.com/go-chi/chi/v5"
)

// invalidInputMessage is shown to the user whenever a form number is rejected.
const invalidInputMessage = "Inputs have to be positive numbers"

// WorkoutDetail is a rendered workout plus the map pan target.
type WorkoutDetail struct {
	render.View
	Focus render.FocusView `json:"focus"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"state":  s.tracker.State().String(),
	})
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, render.List(s.tracker.Workouts()))
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	wk, err := s.tracker.Find(chi.URLParam(r, "id"))
	if err != nil {
		s.writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail(wk))
}

func (s *Server) handleLogWorkout(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form: "+err.Error())
		return
	}
	in, err := parseInput(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":  invalidInputMessage,
			"detail": err.Error(),
		})
		return
	}

	wk, err := s.tracker.Log(r.Context(), in)
	if err != nil {
		s.writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, render.Render(wk))
}

func (s *Server) handleClickWorkout(w http.ResponseWriter, r *http.Request) {
	wk, err := s.tracker.Click(chi.URLParam(r, "id"))
	if err != nil {
		s.writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail(wk))
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	if _, err := s.tracker.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeTrackerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetWorkouts(w http.ResponseWriter, r *http.Request) {
	s.tracker.Reset(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func detail(wk workout.Workout) WorkoutDetail {
	return WorkoutDetail{View: render.Render(wk), Focus: render.Focus(wk)}
}

// parseInput reads the workout form. The sport attribute comes from
// "cadence" for running and "elevation" for cycling.
func parseInput(r *http.Request) (tracker.Input, error) {
	kind, err := workout.ParseKind(r.FormValue("type"))
	if err != nil {
		return tracker.Input{}, err
	}
	attrField := "cadence"
	if kind == workout.Cycling {
		attrField = "elevation"
	}

	fields := []string{"lat", "lng", "distance", "duration", attrField}
	vals := make([]float64, len(fields))
	for i, name := range fields {
		v, err := parseNumber(r.FormValue(name))
		if err != nil {
			return tracker.Input{}, fmt.Errorf("%w: %s: %v", workout.ErrInvalidInput, name, err)
		}
		vals[i] = v
	}

	return tracker.Input{
		Kind:        kind,
		Coords:      workout.Coordinates{Lat: vals[0], Lng: vals[1]},
		DistanceKm:  vals[2],
		DurationMin: vals[3],
		Attr:        vals[4],
	}, nil
}

func parseNumber(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("missing")
	}
	return strconv.ParseFloat(raw, 64)
}

// writeTrackerError maps tracker errors to status codes.
func (s *Server) writeTrackerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workout.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, workout.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":  invalidInputMessage,
			"detail": err.Error(),
		})
	default:
		s.log.Error("tracker error", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
