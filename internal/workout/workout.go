package workout

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Kind selects which sport-specific attribute and derived metric a workout carries.
type Kind string

const (
	Running Kind = "running"
	Cycling Kind = "cycling"
)

// ParseKind maps form input ("running", "cycling") to a Kind.
func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case Running:
		return Running, nil
	case Cycling:
		return Cycling, nil
	}
	return "", fmt.Errorf("%w: unknown workout type %q", ErrInvalidInput, raw)
}

// Label returns the capitalized kind, e.g. "Running".
func (k Kind) Label() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

func (k Kind) valid() bool {
	return k == Running || k == Cycling
}

// Coordinates is a (latitude, longitude) pair in degrees.
type Coordinates struct {
	Lat float64
	Lng float64
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lng)
}

func (c Coordinates) validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return fmt.Errorf("%w: coordinates must be finite", ErrInvalidInput)
	}
	if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: coordinates %s out of range", ErrInvalidInput, c)
	}
	return nil
}

// RunningStats is the running payload: cadence and the derived pace.
type RunningStats struct {
	CadenceSPM   float64
	PaceMinPerKm float64
}

// CyclingStats is the cycling payload: elevation gain and the derived speed.
type CyclingStats struct {
	ElevationGainM float64
	SpeedKmPerH    float64
}

// Workout is one logged activity. All fields are fixed at construction except
// the interaction counter; exactly one of the running or cycling payloads is
// meaningful, selected by Kind.
type Workout struct {
	id          string
	kind        Kind
	createdAt   time.Time
	coords      Coordinates
	distanceKm  float64
	durationMin float64
	description string
	clicks      int

	running RunningStats
	cycling CyclingStats
}

// ID returns the workout's unique identifier.
func (w Workout) ID() string { return w.id }

// Kind returns Running or Cycling.
func (w Workout) Kind() Kind { return w.kind }

// CreatedAt returns when the workout was logged.
func (w Workout) CreatedAt() time.Time { return w.createdAt }

// Coords returns where on the map the workout was logged.
func (w Workout) Coords() Coordinates { return w.coords }

// DistanceKm returns the distance in kilometres.
func (w Workout) DistanceKm() float64 { return w.distanceKm }

// DurationMin returns the duration in minutes.
func (w Workout) DurationMin() float64 { return w.durationMin }

// Description returns the display label built at construction.
func (w Workout) Description() string { return w.description }

// InteractionCount returns how many times Click has been called.
func (w Workout) InteractionCount() int { return w.clicks }

// Running returns the running payload, or false for a cycling workout.
func (w Workout) Running() (RunningStats, bool) {
	return w.running, w.kind == Running
}

// Cycling returns the cycling payload, or false for a running workout.
func (w Workout) Cycling() (CyclingStats, bool) {
	return w.cycling, w.kind == Cycling
}

// Click records one interaction with the workout (e.g. selecting it in the list).
func (w *Workout) Click() {
	w.clicks++
}

// Pace returns minutes per kilometre.
func Pace(distanceKm, durationMin float64) float64 {
	return durationMin / distanceKm
}

// Speed returns kilometres per hour.
func Speed(distanceKm, durationMin float64) float64 {
	return distanceKm / (durationMin / 60)
}

// Describe builds the display label, e.g. "Running on April 14".
func Describe(kind Kind, at time.Time) string {
	return fmt.Sprintf("%s on %s %d", kind.Label(), at.Month(), at.Day())
}

func positive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: %s must be a positive number, got %v", ErrInvalidInput, field, v)
	}
	return nil
}
