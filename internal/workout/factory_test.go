package workout

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"
)

var fixedNow = time.Date(2026, time.April, 14, 9, 30, 0, 0, time.UTC)

func testFactory() *Factory {
	n := 0
	return NewFactory(
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("w%04d", n)
		}),
	)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestCreateRunning verifies pace is duration/distance and the description
// uses the creation date.
func TestCreateRunning(t *testing.T) {
	w, err := testFactory().Create(Running, Coordinates{Lat: 39, Lng: -12}, 5.2, 23, 178)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	run, ok := w.Running()
	if !ok {
		t.Fatal("expected running payload")
	}
	if !approx(run.PaceMinPerKm, 23/5.2) {
		t.Errorf("pace = %v, want %v", run.PaceMinPerKm, 23/5.2)
	}
	if math.Abs(run.PaceMinPerKm-4.423) > 0.001 {
		t.Errorf("pace = %.3f, want ~4.423", run.PaceMinPerKm)
	}
	if run.CadenceSPM != 178 {
		t.Errorf("cadence = %v, want 178", run.CadenceSPM)
	}
	if _, ok := w.Cycling(); ok {
		t.Error("running workout must not expose a cycling payload")
	}
	if w.Description() != "Running on April 14" {
		t.Errorf("description = %q, want %q", w.Description(), "Running on April 14")
	}
	if w.InteractionCount() != 0 {
		t.Errorf("interaction count = %d, want 0", w.InteractionCount())
	}
	if !w.CreatedAt().Equal(fixedNow) {
		t.Errorf("createdAt = %v, want %v", w.CreatedAt(), fixedNow)
	}
}

// TestCreateCycling verifies speed is distance/(duration/60).
func TestCreateCycling(t *testing.T) {
	w, err := testFactory().Create(Cycling, Coordinates{Lat: 39, Lng: -12}, 27, 95, 523)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cyc, ok := w.Cycling()
	if !ok {
		t.Fatal("expected cycling payload")
	}
	if !approx(cyc.SpeedKmPerH, 27/(95.0/60)) {
		t.Errorf("speed = %v, want %v", cyc.SpeedKmPerH, 27/(95.0/60))
	}
	if math.Abs(cyc.SpeedKmPerH-17.05) > 0.01 {
		t.Errorf("speed = %.2f, want ~17.05", cyc.SpeedKmPerH)
	}
	if cyc.ElevationGainM != 523 {
		t.Errorf("elevation = %v, want 523", cyc.ElevationGainM)
	}
	if _, ok := w.Running(); ok {
		t.Error("cycling workout must not expose a running payload")
	}
	if w.Description() != "Cycling on April 14" {
		t.Errorf("description = %q, want %q", w.Description(), "Cycling on April 14")
	}
}

// TestCreateAssignsUniqueIDs verifies the default factory never repeats an id.
func TestCreateAssignsUniqueIDs(t *testing.T) {
	f := NewFactory()
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		w, err := f.Create(Running, Coordinates{}, 1, 1, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if w.ID() == "" {
			t.Fatal("empty id")
		}
		if seen[w.ID()] {
			t.Fatalf("duplicate id %q", w.ID())
		}
		seen[w.ID()] = true
	}
}

// TestCreateRejectsInvalidInput covers non-positive and non-finite numbers for
// both kinds. Cycling elevation is validated the same as running cadence.
func TestCreateRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name     string
		kind     Kind
		distance float64
		duration float64
		attr     float64
	}{
		{"zero distance", Running, 0, 23, 178},
		{"negative distance", Running, -5, 23, 178},
		{"zero duration", Running, 5, 0, 178},
		{"negative cadence", Running, 5, 23, -1},
		{"NaN distance", Running, math.NaN(), 23, 178},
		{"Inf duration", Running, 5, math.Inf(1), 178},
		{"cycling zero elevation", Cycling, 27, 95, 0},
		{"cycling negative elevation", Cycling, 27, 95, -10},
		{"cycling negative duration", Cycling, 27, -95, 523},
		{"cycling NaN elevation", Cycling, 27, 95, math.NaN()},
		{"cycling -Inf distance", Cycling, math.Inf(-1), 95, 523},
	}
	f := testFactory()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, err := f.Create(tc.kind, Coordinates{Lat: 39, Lng: -12}, tc.distance, tc.duration, tc.attr)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
			if w.ID() != "" {
				t.Errorf("expected zero workout on failure, got id %q", w.ID())
			}
		})
	}
}

// TestCreateRejectsBadKindAndCoordinates verifies input outside the form
// contract is rejected before construction.
func TestCreateRejectsBadKindAndCoordinates(t *testing.T) {
	f := testFactory()
	if _, err := f.Create(Kind("swimming"), Coordinates{}, 1, 1, 1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown kind: err = %v, want ErrInvalidInput", err)
	}
	if _, err := f.Create(Running, Coordinates{Lat: 91}, 1, 1, 1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("latitude 91: err = %v, want ErrInvalidInput", err)
	}
	if _, err := f.Create(Running, Coordinates{Lng: math.NaN()}, 1, 1, 1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("NaN longitude: err = %v, want ErrInvalidInput", err)
	}
}

// TestParseKind verifies form values are matched case-insensitively.
func TestParseKind(t *testing.T) {
	cases := []struct {
		input string
		want  Kind
	}{
		{"running", Running},
		{"Cycling", Cycling},
		{"  RUNNING ", Running},
	}
	for _, tc := range cases {
		got, err := ParseKind(tc.input)
		if err != nil {
			t.Errorf("ParseKind(%q): unexpected error %v", tc.input, err)
		}
		if got != tc.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
	if _, err := ParseKind("hiking"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ParseKind(hiking): err = %v, want ErrInvalidInput", err)
	}
}

// TestDescribe checks month names and day numbers across the year.
func TestDescribe(t *testing.T) {
	cases := []struct {
		kind Kind
		at   time.Time
		want string
	}{
		{Running, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), "Running on January 1"},
		{Cycling, time.Date(2026, time.December, 31, 23, 0, 0, 0, time.UTC), "Cycling on December 31"},
	}
	for _, tc := range cases {
		if got := Describe(tc.kind, tc.at); got != tc.want {
			t.Errorf("Describe(%s, %v) = %q, want %q", tc.kind, tc.at, got, tc.want)
		}
	}
}

// TestClick verifies the interaction counter is the only mutable field.
func TestClick(t *testing.T) {
	w, err := testFactory().Create(Running, Coordinates{}, 5, 25, 170)
	if err != nil {
		t.Fatal(err)
	}
	w.Click()
	w.Click()
	if w.InteractionCount() != 2 {
		t.Errorf("interaction count = %d, want 2", w.InteractionCount())
	}
}
