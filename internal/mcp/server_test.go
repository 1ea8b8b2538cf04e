package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/mapty/internal/render"
	"github.com/claude/mapty/internal/storage"
	"github.com/claude/mapty/internal/tracker"
	"github.com/claude/mapty/internal/workout"
	"github.com/mark3labs/mcp-go/mcp"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTracker() *tracker.Tracker {
	n := 0
	factory := workout.NewFactory(
		workout.WithClock(func() time.Time { return time.Date(2026, time.April, 14, 9, 30, 0, 0, time.UTC) }),
		workout.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("w%04d", n)
		}),
	)
	return tracker.New(storage.NewPersister(storage.NewMemory(), ""), factory, discardLogger())
}

func newHandlers() *handlers {
	return &handlers{ds: NewLocal(newTestTracker()), log: discardLogger()}
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("result has no text content")
	return ""
}

var runningArgs = map[string]any{
	"type": "running", "lat": 38.72, "lng": -9.14,
	"distance": 5.2, "duration": 23.0, "cadence": 178.0,
}

// TestLogAndListWorkouts verifies log_workout creates a workout that list_workouts returns.
func TestLogAndListWorkouts(t *testing.T) {
	h := newHandlers()
	ctx := context.Background()

	res, err := h.logWorkout(ctx, call(runningArgs))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("log_workout failed: %s", resultText(t, res))
	}
	var view render.View
	if err := json.Unmarshal([]byte(resultText(t, res)), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Entry.ID != "w0001" || view.Entry.Title != "Running on April 14" {
		t.Errorf("entry = %+v", view.Entry)
	}

	cycling := map[string]any{
		"type": "cycling", "lat": 38.7, "lng": -9.1,
		"distance": 27.0, "duration": 95.0, "elevation": 523.0,
	}
	if res, _ := h.logWorkout(ctx, call(cycling)); res.IsError {
		t.Fatalf("cycling failed: %s", resultText(t, res))
	}

	res, _ = h.listWorkouts(ctx, call(nil))
	var views []render.View
	if err := json.Unmarshal([]byte(resultText(t, res)), &views); err != nil {
		t.Fatal(err)
	}
	if len(views) != 2 {
		t.Fatalf("list = %d, want 2", len(views))
	}

	res, _ = h.listWorkouts(ctx, call(map[string]any{"type": "cycling"}))
	views = nil
	if err := json.Unmarshal([]byte(resultText(t, res)), &views); err != nil {
		t.Fatal(err)
	}
	if len(views) != 1 || views[0].Entry.Kind != "cycling" {
		t.Errorf("filtered list = %+v, want one cycling workout", views)
	}
}

// TestLogWorkoutRejected verifies invalid arguments come back as tool errors.
func TestLogWorkoutRejected(t *testing.T) {
	cases := []struct {
		name string
		edit func(map[string]any)
	}{
		{"negative distance", func(a map[string]any) { a["distance"] = -1.0 }},
		{"missing duration", func(a map[string]any) { delete(a, "duration") }},
		{"missing cadence", func(a map[string]any) { delete(a, "cadence") }},
		{"cycling without elevation", func(a map[string]any) { a["type"] = "cycling" }},
		{"unknown type", func(a map[string]any) { a["type"] = "rowing" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHandlers()
			args := map[string]any{}
			for k, v := range runningArgs {
				args[k] = v
			}
			tc.edit(args)

			res, err := h.logWorkout(context.Background(), call(args))
			if err != nil {
				t.Fatal(err)
			}
			if !res.IsError {
				t.Error("expected tool error")
			}
			views, _ := h.ds.ListWorkouts(context.Background())
			if len(views) != 0 {
				t.Errorf("workouts = %d, want 0", len(views))
			}
		})
	}
}

// TestGetAndDeleteWorkout verifies lookup by id and that deleted ids report not found.
func TestGetAndDeleteWorkout(t *testing.T) {
	h := newHandlers()
	ctx := context.Background()
	h.logWorkout(ctx, call(runningArgs))

	res, _ := h.getWorkout(ctx, call(map[string]any{"id": "w0001"}))
	if res.IsError {
		t.Fatalf("get_workout failed: %s", resultText(t, res))
	}

	res, _ = h.deleteWorkout(ctx, call(map[string]any{"id": "w0001"}))
	if res.IsError {
		t.Fatalf("delete_workout failed: %s", resultText(t, res))
	}

	res, _ = h.getWorkout(ctx, call(map[string]any{"id": "w0001"}))
	if !res.IsError {
		t.Error("get after delete should fail")
	}
	res, _ = h.deleteWorkout(ctx, call(map[string]any{"id": "w0001"}))
	if !res.IsError {
		t.Error("second delete should fail")
	}
	res, _ = h.getWorkout(ctx, call(nil))
	if !res.IsError {
		t.Error("missing id should fail")
	}
}

// TestWorkoutsResource verifies the resource returns the rendered list as JSON.
func TestWorkoutsResource(t *testing.T) {
	h := newHandlers()
	ctx := context.Background()
	h.logWorkout(ctx, call(runningArgs))

	var req mcp.ReadResourceRequest
	req.Params.URI = "mapty://workouts"
	contents, err := h.workouts(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(contents))
	}
	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents[0] is %T, want TextResourceContents", contents[0])
	}
	var views []render.View
	if err := json.Unmarshal([]byte(text.Text), &views); err != nil {
		t.Fatal(err)
	}
	if len(views) != 1 || views[0].Marker.Popup.ClassName != "running-popup" {
		t.Errorf("views = %+v", views)
	}
}

// TestNewRegistersServer verifies the server builds with every tool wired.
func TestNewRegistersServer(t *testing.T) {
	if s := New(NewLocal(newTestTracker()), "test", discardLogger()); s == nil {
		t.Fatal("New returned nil")
	}
}
