// Package tracker owns the single workout log of a running process: it
// hydrates it from storage at startup, applies user operations, and rewrites
// the persisted blob after every mutation.
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/claude/mapty/internal/journal"
	"github.com/claude/mapty/internal/observability"
	"github.com/claude/mapty/internal/storage"
	"github.com/claude/mapty/internal/workout"
)

// State is the hydration outcome of the log.
type State int

const (
	// Empty means nothing was loaded: no saved log, an unreadable one, or a reset.
	Empty State = iota
	// Hydrated means the log was restored from storage.
	Hydrated
)

func (s State) String() string {
	if s == Hydrated {
		return "hydrated"
	}
	return "empty"
}

// Input is a validated-number form submission: the clicked coordinates plus
// the numbers typed into the workout form. Attr is cadence for running and
// elevation gain for cycling.
type Input struct {
	Kind        workout.Kind
	Coords      workout.Coordinates
	DistanceKm  float64
	DurationMin float64
	Attr        float64
}

// Tracker serializes every operation on the log behind one mutex, so the
// store sees a single mutator even when adapters call in concurrently.
type Tracker struct {
	mu        sync.Mutex
	store     *journal.Store
	factory   *workout.Factory
	persister *storage.Persister
	log       *slog.Logger
	state     State
}

// New creates a tracker with an empty log. Call Hydrate to restore a saved one.
func New(persister *storage.Persister, factory *workout.Factory, log *slog.Logger) *Tracker {
	if factory == nil {
		factory = workout.NewFactory()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{
		store:     journal.New(),
		factory:   factory,
		persister: persister,
		log:       log,
	}
}

// Hydrate replaces the in-memory log with the persisted one. A missing,
// unreadable or corrupt blob never fails the session: the log starts empty.
func (t *Tracker) Hydrate(ctx context.Context) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.store = journal.New()
	t.state = Empty
	defer func() { observability.SetWorkoutsStored(t.store.Len()) }()

	blob, ok, err := t.persister.Load(ctx)
	if err != nil {
		observability.RecordPersistenceFailure("load")
		t.log.Error("loading workouts failed, starting empty", "key", t.persister.Key(), "error", err)
		return t.state
	}
	if !ok {
		t.log.Info("no saved workouts, starting empty", "key", t.persister.Key())
		return t.state
	}

	store, err := journal.Deserialize(blob)
	if err != nil {
		observability.RecordPersistenceFailure("load")
		t.log.Warn("saved workouts are corrupt, starting empty", "key", t.persister.Key(), "error", err)
		return t.state
	}

	t.store = store
	t.state = Hydrated
	t.log.Info("workouts restored", "count", store.Len())
	return t.state
}

// State reports the hydration outcome.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Workouts returns every workout in display order.
func (t *Tracker) Workouts() []workout.Workout {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Records()
}

// Find returns the workout with the given id or workout.ErrNotFound.
func (t *Tracker) Find(id string) (workout.Workout, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.FindByID(id)
}

// Log creates a workout from in, appends it and persists the log. Invalid
// input fails with workout.ErrInvalidInput and leaves the log untouched.
func (t *Tracker) Log(ctx context.Context, in Input) (workout.Workout, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, err := t.factory.Create(in.Kind, in.Coords, in.DistanceKm, in.DurationMin, in.Attr)
	if err != nil {
		return workout.Workout{}, err
	}
	if err := t.store.Add(w); err != nil {
		return workout.Workout{}, err
	}

	observability.RecordWorkoutLogged(string(w.Kind()))
	t.log.Info("workout logged", "id", w.ID(), "kind", w.Kind(), "description", w.Description())
	t.persist(ctx)
	return w, nil
}

// Click records an interaction with a workout. The counter is not
// persisted on its own; it is written with the next mutation.
func (t *Tracker) Click(id string) (workout.Workout, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Click(id)
}

// Delete removes the workout with the given id and persists the log.
func (t *Tracker) Delete(ctx context.Context, id string) (workout.Workout, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, err := t.store.RemoveByID(id)
	if err != nil {
		return workout.Workout{}, err
	}

	observability.RecordWorkoutDeleted()
	t.log.Info("workout deleted", "id", id)
	t.persist(ctx)
	return w, nil
}

// Reset empties the log and deletes the persisted blob.
func (t *Tracker) Reset(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.store.Len()
	t.store.Clear()
	t.state = Empty
	observability.SetWorkoutsStored(0)

	if err := t.persister.Clear(ctx); err != nil {
		observability.RecordPersistenceFailure("clear")
		t.log.Error("clearing saved workouts failed", "key", t.persister.Key(), "error", err)
		return
	}
	t.log.Info("workouts reset", "removed", n)
}

// persist writes the whole log. Failures are logged and swallowed: the
// in-memory log stays authoritative until the next successful save.
func (t *Tracker) persist(ctx context.Context) {
	observability.SetWorkoutsStored(t.store.Len())

	blob, err := t.store.Serialize()
	if err == nil {
		err = t.persister.Save(ctx, blob)
	}
	if err != nil {
		observability.RecordPersistenceFailure("save")
		attrs := []any{"key", t.persister.Key(), "count", t.store.Len(), "error", err}
		if !errors.Is(err, storage.ErrStorageWrite) {
			t.log.Error("encoding workouts failed", attrs...)
			return
		}
		t.log.Error("saving workouts failed, continuing in memory", attrs...)
	}
}
