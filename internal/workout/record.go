package workout

import (
	"fmt"
	"math"
	"time"
)

// Record is the persisted form of a workout. Derived fields are stored
// alongside the inputs so a restored workout is displayable without
// recomputation.
type Record struct {
	ID               string     `json:"id"`
	Kind             Kind       `json:"kind"`
	Coordinates      []float64  `json:"coordinates"`
	DistanceKm       float64    `json:"distanceKm"`
	DurationMin      float64    `json:"durationMin"`
	CadenceSPM       *float64   `json:"cadenceSpm,omitempty"`
	ElevationGainM   *float64   `json:"elevationGainM,omitempty"`
	PaceMinPerKm     *float64   `json:"paceMinPerKm,omitempty"`
	SpeedKmPerH      *float64   `json:"speedKmPerH,omitempty"`
	Description      string     `json:"description"`
	CreatedAt        time.Time  `json:"createdAt"`
	InteractionCount int        `json:"interactionCount,omitempty"`
}

// Record returns the persisted form of w.
func (w Workout) Record() Record {
	r := Record{
		ID:               w.id,
		Kind:             w.kind,
		Coordinates:      []float64{w.coords.Lat, w.coords.Lng},
		DistanceKm:       w.distanceKm,
		DurationMin:      w.durationMin,
		Description:      w.description,
		CreatedAt:        w.createdAt,
		InteractionCount: w.clicks,
	}
	switch w.kind {
	case Running:
		cadence, pace := w.running.CadenceSPM, w.running.PaceMinPerKm
		r.CadenceSPM, r.PaceMinPerKm = &cadence, &pace
	case Cycling:
		elevation, speed := w.cycling.ElevationGainM, w.cycling.SpeedKmPerH
		r.ElevationGainM, r.SpeedKmPerH = &elevation, &speed
	}
	return r
}

// FromRecord restores a workout from its persisted form. The stored derived
// values are taken as-is. A record that breaks any workout invariant fails
// with ErrCorruptData.
func FromRecord(r Record) (Workout, error) {
	if r.ID == "" {
		return Workout{}, fmt.Errorf("%w: record has no id", ErrCorruptData)
	}
	if !r.Kind.valid() {
		return Workout{}, fmt.Errorf("%w: record %s has unknown kind %q", ErrCorruptData, r.ID, r.Kind)
	}
	if len(r.Coordinates) != 2 {
		return Workout{}, fmt.Errorf("%w: record %s has %d coordinates, want 2", ErrCorruptData, r.ID, len(r.Coordinates))
	}
	coords := Coordinates{Lat: r.Coordinates[0], Lng: r.Coordinates[1]}
	if err := coords.validate(); err != nil {
		return Workout{}, fmt.Errorf("%w: record %s: %v", ErrCorruptData, r.ID, err)
	}
	if err := positive("distance", r.DistanceKm); err != nil {
		return Workout{}, fmt.Errorf("%w: record %s: %v", ErrCorruptData, r.ID, err)
	}
	if err := positive("duration", r.DurationMin); err != nil {
		return Workout{}, fmt.Errorf("%w: record %s: %v", ErrCorruptData, r.ID, err)
	}
	if r.Description == "" {
		return Workout{}, fmt.Errorf("%w: record %s has no description", ErrCorruptData, r.ID)
	}
	if r.CreatedAt.IsZero() {
		return Workout{}, fmt.Errorf("%w: record %s has no creation time", ErrCorruptData, r.ID)
	}
	if r.InteractionCount < 0 {
		return Workout{}, fmt.Errorf("%w: record %s has negative interaction count", ErrCorruptData, r.ID)
	}

	w := Workout{
		id:          r.ID,
		kind:        r.Kind,
		createdAt:   r.CreatedAt,
		coords:      coords,
		distanceKm:  r.DistanceKm,
		durationMin: r.DurationMin,
		description: r.Description,
		clicks:      r.InteractionCount,
	}

	switch r.Kind {
	case Running:
		if r.ElevationGainM != nil || r.SpeedKmPerH != nil {
			return Workout{}, fmt.Errorf("%w: running record %s carries cycling fields", ErrCorruptData, r.ID)
		}
		cadence, err := required(r.ID, "cadence", r.CadenceSPM)
		if err != nil {
			return Workout{}, err
		}
		pace, err := required(r.ID, "pace", r.PaceMinPerKm)
		if err != nil {
			return Workout{}, err
		}
		w.running = RunningStats{CadenceSPM: cadence, PaceMinPerKm: pace}
	case Cycling:
		if r.CadenceSPM != nil || r.PaceMinPerKm != nil {
			return Workout{}, fmt.Errorf("%w: cycling record %s carries running fields", ErrCorruptData, r.ID)
		}
		elevation, err := required(r.ID, "elevation gain", r.ElevationGainM)
		if err != nil {
			return Workout{}, err
		}
		speed, err := required(r.ID, "speed", r.SpeedKmPerH)
		if err != nil {
			return Workout{}, err
		}
		w.cycling = CyclingStats{ElevationGainM: elevation, SpeedKmPerH: speed}
	}
	return w, nil
}

func required(id, field string, v *float64) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: record %s is missing %s", ErrCorruptData, id, field)
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) || *v <= 0 {
		return 0, fmt.Errorf("%w: record %s has invalid %s %v", ErrCorruptData, id, field, *v)
	}
	return *v, nil
}
