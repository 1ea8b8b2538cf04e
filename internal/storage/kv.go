package storage

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrAbsent is returned by KV.Get when nothing is stored under the key.
	ErrAbsent = errors.New("no value stored")
	// ErrStorageWrite wraps any failure to persist or delete the blob.
	ErrStorageWrite = errors.New("storage write failed")
)

// DefaultKey is the well-known key the workout log is stored under.
const DefaultKey = "workouts"

// KV is an opaque get/set-by-key byte-string store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Persister loads and saves one blob under a fixed key.
type Persister struct {
	kv  KV
	key string
}

// NewPersister binds kv to key. An empty key means DefaultKey.
func NewPersister(kv KV, key string) *Persister {
	if key == "" {
		key = DefaultKey
	}
	return &Persister{kv: kv, key: key}
}

// Key returns the key the blob is stored under.
func (p *Persister) Key() string {
	return p.key
}

// Load returns the stored blob. ok is false when nothing has been saved; err
// is only set when the backend itself fails.
func (p *Persister) Load(ctx context.Context) (blob []byte, ok bool, err error) {
	blob, err = p.kv.Get(ctx, p.key)
	if errors.Is(err, ErrAbsent) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading %s: %w", p.key, err)
	}
	return blob, true, nil
}

// Save replaces the stored blob.
func (p *Persister) Save(ctx context.Context, blob []byte) error {
	if err := p.kv.Set(ctx, p.key, blob); err != nil {
		return fmt.Errorf("%w: saving %s: %v", ErrStorageWrite, p.key, err)
	}
	return nil
}

// Clear deletes the stored blob. Clearing an absent key is not an error.
func (p *Persister) Clear(ctx context.Context) error {
	if err := p.kv.Delete(ctx, p.key); err != nil {
		return fmt.Errorf("%w: deleting %s: %v", ErrStorageWrite, p.key, err)
	}
	return nil
}
