package mcp

import (
	"context"
	"errors"

	"github.com/claude/mapty/internal/render"
	"github.com/claude/mapty/internal/tracker"
	"github.com/claude/mapty/internal/workout"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List logged workouts in display order. Each item has a list entry (title, distance, duration, pace or speed, cadence or elevation) and a map marker."),
	mcp.WithString("type", mcp.Description("Only return workouts of this type"), mcp.Enum("running", "cycling")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Get one workout by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id")),
)

var toolLogWorkout = mcp.NewTool("log_workout",
	mcp.WithDescription("Log a workout at the given coordinates. Running needs cadence (steps/min); cycling needs elevation gain (m). All numbers must be positive."),
	mcp.WithString("type", mcp.Required(), mcp.Description("Workout type"), mcp.Enum("running", "cycling")),
	mcp.WithNumber("lat", mcp.Required(), mcp.Description("Latitude in degrees")),
	mcp.WithNumber("lng", mcp.Required(), mcp.Description("Longitude in degrees")),
	mcp.WithNumber("distance", mcp.Required(), mcp.Description("Distance in km")),
	mcp.WithNumber("duration", mcp.Required(), mcp.Description("Duration in minutes")),
	mcp.WithNumber("cadence", mcp.Description("Cadence in steps/min (running)")),
	mcp.WithNumber("elevation", mcp.Description("Elevation gain in m (cycling)")),
)

var toolDeleteWorkout = mcp.NewTool("delete_workout",
	mcp.WithDescription("Delete one workout by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id")),
)

// --- Tool handlers ---

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := req.GetString("type", "")

	views, err := h.ds.ListWorkouts(ctx)
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if filter != "" {
		kept := make([]render.View, 0, len(views))
		for _, v := range views {
			if v.Entry.Kind == filter {
				kept = append(kept, v)
			}
		}
		views = kept
	}

	result, err := mcp.NewToolResultJSON(views)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	view, err := h.ds.GetWorkout(ctx, id)
	if errors.Is(err, workout.ErrNotFound) {
		return mcp.NewToolResultError("workout " + id + " not found"), nil
	}
	if err != nil {
		h.log.Error("mcp get_workout", "id", id, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(view)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) logWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := toolInput(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	view, err := h.ds.LogWorkout(ctx, in)
	if errors.Is(err, workout.ErrInvalidInput) {
		return mcp.NewToolResultError("Inputs have to be positive numbers: " + err.Error()), nil
	}
	if err != nil {
		h.log.Error("mcp log_workout", "error", err)
		return mcp.NewToolResultError("log failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(view)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) deleteWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	err = h.ds.DeleteWorkout(ctx, id)
	if errors.Is(err, workout.ErrNotFound) {
		return mcp.NewToolResultError("workout " + id + " not found"), nil
	}
	if err != nil {
		h.log.Error("mcp delete_workout", "id", id, "error", err)
		return mcp.NewToolResultError("delete failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText("deleted " + id), nil
}

// toolInput reads log_workout arguments. The sport attribute is cadence for
// running and elevation for cycling; a missing one becomes 0 and is rejected
// by validation.
func toolInput(req mcp.CallToolRequest) (tracker.Input, error) {
	raw, err := req.RequireString("type")
	if err != nil {
		return tracker.Input{}, errors.New("type parameter is required")
	}
	kind, err := workout.ParseKind(raw)
	if err != nil {
		return tracker.Input{}, err
	}

	nums := map[string]float64{}
	for _, name := range []string{"lat", "lng", "distance", "duration"} {
		v, err := req.RequireFloat(name)
		if err != nil {
			return tracker.Input{}, errors.New(name + " parameter is required")
		}
		nums[name] = v
	}

	attr := req.GetFloat("cadence", 0)
	if kind == workout.Cycling {
		attr = req.GetFloat("elevation", 0)
	}

	return tracker.Input{
		Kind:        kind,
		Coords:      workout.Coordinates{Lat: nums["lat"], Lng: nums["lng"]},
		DistanceKm:  nums["distance"],
		DurationMin: nums["duration"],
		Attr:        attr,
	}, nil
}
