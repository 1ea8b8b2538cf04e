package workout

import (
	"time"

	"github.com/google/uuid"
)

// Factory validates raw input and builds workouts. It has no side effects
// beyond allocation.
type Factory struct {
	now   func() time.Time
	newID func() string
}

// Option configures a Factory.
type Option func(*Factory)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(f *Factory) { f.now = now }
}

// WithIDGenerator overrides id assignment. Generated ids must be unique for
// the lifetime of the store the workouts are added to.
func WithIDGenerator(newID func() string) Option {
	return func(f *Factory) { f.newID = newID }
}

// NewFactory creates a Factory using the wall clock and random UUIDs.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create validates the input and returns a fully formed workout. attr is the
// cadence (steps/min) for running and the elevation gain (m) for cycling.
// Any non-finite or non-positive number fails with ErrInvalidInput.
func (f *Factory) Create(kind Kind, coords Coordinates, distanceKm, durationMin, attr float64) (Workout, error) {
	if !kind.valid() {
		_, err := ParseKind(string(kind))
		return Workout{}, err
	}
	if err := coords.validate(); err != nil {
		return Workout{}, err
	}
	if err := positive("distance", distanceKm); err != nil {
		return Workout{}, err
	}
	if err := positive("duration", durationMin); err != nil {
		return Workout{}, err
	}
	if err := positive(attrField(kind), attr); err != nil {
		return Workout{}, err
	}

	createdAt := f.now()
	w := Workout{
		id:          f.newID(),
		kind:        kind,
		createdAt:   createdAt,
		coords:      coords,
		distanceKm:  distanceKm,
		durationMin: durationMin,
		description: Describe(kind, createdAt),
	}
	switch kind {
	case Running:
		w.running = RunningStats{CadenceSPM: attr, PaceMinPerKm: Pace(distanceKm, durationMin)}
	case Cycling:
		w.cycling = CyclingStats{ElevationGainM: attr, SpeedKmPerH: Speed(distanceKm, durationMin)}
	}
	return w, nil
}

func attrField(kind Kind) string {
	if kind == Cycling {
		return "elevation gain"
	}
	return "cadence"
}
