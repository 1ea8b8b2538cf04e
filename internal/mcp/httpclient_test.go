package mcp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/claude/mapty/internal/server"
	"github.com/claude/mapty/internal/tracker"
	"github.com/claude/mapty/internal/workout"
)

// newRemote starts the real REST server over an in-memory tracker.
func newRemote(t *testing.T, apiKey string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(server.New(newTestTracker(), apiKey, discardLogger()))
	t.Cleanup(ts.Close)
	return ts
}

var runningInput = tracker.Input{
	Kind:        workout.Running,
	Coords:      workout.Coordinates{Lat: 38.72, Lng: -9.14},
	DistanceKm:  5.2,
	DurationMin: 23,
	Attr:        178,
}

// TestHTTPClientRoundTrip verifies log, list, get and delete through the REST API.
func TestHTTPClientRoundTrip(t *testing.T) {
	ts := newRemote(t, "secret")
	client := NewHTTPClient(ts.URL+"/", "secret")
	ctx := context.Background()

	view, err := client.LogWorkout(ctx, runningInput)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if view.Entry.ID != "w0001" {
		t.Errorf("id = %q, want w0001", view.Entry.ID)
	}

	cycling := runningInput
	cycling.Kind = workout.Cycling
	cycling.Attr = 523
	if _, err := client.LogWorkout(ctx, cycling); err != nil {
		t.Fatalf("log cycling: %v", err)
	}

	views, err := client.ListWorkouts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 2 || views[1].Entry.Kind != "cycling" {
		t.Fatalf("views = %+v, want running then cycling", views)
	}

	got, err := client.GetWorkout(ctx, "w0002")
	if err != nil {
		t.Fatal(err)
	}
	if got.Marker.Popup.ClassName != "cycling-popup" {
		t.Errorf("className = %q, want cycling-popup", got.Marker.Popup.ClassName)
	}

	if err := client.DeleteWorkout(ctx, "w0001"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := client.GetWorkout(ctx, "w0001"); !errors.Is(err, workout.ErrNotFound) {
		t.Errorf("get after delete: err = %v, want ErrNotFound", err)
	}
	if err := client.DeleteWorkout(ctx, "w0001"); !errors.Is(err, workout.ErrNotFound) {
		t.Errorf("second delete: err = %v, want ErrNotFound", err)
	}
}

// TestHTTPClientInvalidInput verifies a 400 maps back to ErrInvalidInput.
func TestHTTPClientInvalidInput(t *testing.T) {
	ts := newRemote(t, "")
	client := NewHTTPClient(ts.URL, "")

	bad := runningInput
	bad.DistanceKm = -3
	if _, err := client.LogWorkout(context.Background(), bad); !errors.Is(err, workout.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

// TestHTTPClientWrongKey verifies an auth failure is a plain error.
func TestHTTPClientWrongKey(t *testing.T) {
	ts := newRemote(t, "secret")
	client := NewHTTPClient(ts.URL, "wrong")

	_, err := client.LogWorkout(context.Background(), runningInput)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, workout.ErrInvalidInput) || errors.Is(err, workout.ErrNotFound) {
		t.Errorf("err = %v, want a plain status error", err)
	}
}

// TestHTTPClientServerError verifies non-JSON failures surface the status code.
func TestHTTPClientServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/workouts" {
			t.Errorf("unexpected request path: %s", r.URL.Path)
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	if _, err := NewHTTPClient(ts.URL, "").ListWorkouts(context.Background()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

// TestInputForm verifies the sport attribute lands in the right form field.
func TestInputForm(t *testing.T) {
	form := inputForm(runningInput)
	if form.Get("cadence") != "178" || form.Get("elevation") != "" {
		t.Errorf("running form = %v", form)
	}
	if form.Get("distance") != "5.2" || form.Get("type") != "running" {
		t.Errorf("running form = %v", form)
	}

	cycling := runningInput
	cycling.Kind = workout.Cycling
	form = inputForm(cycling)
	if form.Get("elevation") != "178" || form.Get("cadence") != "" {
		t.Errorf("cycling form = %v", form)
	}
}
