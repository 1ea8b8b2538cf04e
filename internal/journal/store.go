// Package journal holds the ordered in-memory workout log and its persisted
// JSON form.
package journal

import (
	"encoding/json"
	"fmt"

	"github.com/claude/mapty/internal/workout"
)

// Store is an ordered collection of workouts. Insertion order is display
// order and persistence order. Callers only ever receive copies.
//
// A Store is not safe for concurrent use.
type Store struct {
	workouts []workout.Workout
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Len returns the number of workouts.
func (s *Store) Len() int {
	return len(s.workouts)
}

// Records returns a copy of all workouts in order.
func (s *Store) Records() []workout.Workout {
	out := make([]workout.Workout, len(s.workouts))
	copy(out, s.workouts)
	return out
}

// Add appends w. It only rejects a workout without an id or whose id is
// already present.
func (s *Store) Add(w workout.Workout) error {
	if w.ID() == "" {
		return fmt.Errorf("%w: workout has no id", workout.ErrInvalidInput)
	}
	if s.index(w.ID()) >= 0 {
		return fmt.Errorf("%w: %s", workout.ErrDuplicateID, w.ID())
	}
	s.workouts = append(s.workouts, w)
	return nil
}

// FindByID returns the workout with the given id.
func (s *Store) FindByID(id string) (workout.Workout, error) {
	i := s.index(id)
	if i < 0 {
		return workout.Workout{}, fmt.Errorf("%w: %s", workout.ErrNotFound, id)
	}
	return s.workouts[i], nil
}

// RemoveByID removes the first workout with the given id, keeping the order
// of the rest, and returns it.
func (s *Store) RemoveByID(id string) (workout.Workout, error) {
	i := s.index(id)
	if i < 0 {
		return workout.Workout{}, fmt.Errorf("%w: %s", workout.ErrNotFound, id)
	}
	removed := s.workouts[i]
	s.workouts = append(s.workouts[:i], s.workouts[i+1:]...)
	return removed, nil
}

// Click increments the interaction counter of the workout with the given id
// and returns the updated workout.
func (s *Store) Click(id string) (workout.Workout, error) {
	i := s.index(id)
	if i < 0 {
		return workout.Workout{}, fmt.Errorf("%w: %s", workout.ErrNotFound, id)
	}
	s.workouts[i].Click()
	return s.workouts[i], nil
}

// Clear removes every workout.
func (s *Store) Clear() {
	s.workouts = nil
}

func (s *Store) index(id string) int {
	for i := range s.workouts {
		if s.workouts[i].ID() == id {
			return i
		}
	}
	return -1
}

// Serialize encodes every workout, derived fields included, as a JSON array
// in store order.
func (s *Store) Serialize() ([]byte, error) {
	records := make([]workout.Record, 0, len(s.workouts))
	for _, w := range s.workouts {
		records = append(records, w.Record())
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encoding workouts: %w", err)
	}
	return data, nil
}

// Deserialize rebuilds a store from a blob produced by Serialize. Anything
// that is not a well-formed workout array fails with workout.ErrCorruptData.
func Deserialize(blob []byte) (*Store, error) {
	var records []workout.Record
	if err := json.Unmarshal(blob, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", workout.ErrCorruptData, err)
	}
	if records == nil {
		// JSON null
		return nil, fmt.Errorf("%w: not a workout list", workout.ErrCorruptData)
	}

	s := &Store{workouts: make([]workout.Workout, 0, len(records))}
	for i, r := range records {
		w, err := workout.FromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("workout %d: %w", i, err)
		}
		if err := s.Add(w); err != nil {
			return nil, fmt.Errorf("%w: workout %d: %v", workout.ErrCorruptData, i, err)
		}
	}
	return s, nil
}
