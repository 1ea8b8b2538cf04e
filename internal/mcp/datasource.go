package mcp

import (
	"context"

	"github.com/claude/mapty/internal/render"
	"github.com/claude/mapty/internal/tracker"
)

// DataSource abstracts the workout log for MCP tools. Local (in-process
// tracker) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListWorkouts(ctx context.Context) ([]render.View, error)
	GetWorkout(ctx context.Context, id string) (render.View, error)
	LogWorkout(ctx context.Context, in tracker.Input) (render.View, error)
	DeleteWorkout(ctx context.Context, id string) error
}

// Local serves MCP tools straight from a tracker in the same process.
type Local struct {
	t *tracker.Tracker
}

// Compile-time check: *Local satisfies DataSource.
var _ DataSource = (*Local)(nil)

// NewLocal wraps t.
func NewLocal(t *tracker.Tracker) *Local {
	return &Local{t: t}
}

func (l *Local) ListWorkouts(context.Context) ([]render.View, error) {
	return render.List(l.t.Workouts()), nil
}

func (l *Local) GetWorkout(_ context.Context, id string) (render.View, error) {
	w, err := l.t.Find(id)
	if err != nil {
		return render.View{}, err
	}
	return render.Render(w), nil
}

func (l *Local) LogWorkout(ctx context.Context, in tracker.Input) (render.View, error) {
	w, err := l.t.Log(ctx, in)
	if err != nil {
		return render.View{}, err
	}
	return render.Render(w), nil
}

func (l *Local) DeleteWorkout(ctx context.Context, id string) error {
	_, err := l.t.Delete(ctx, id)
	return err
}
