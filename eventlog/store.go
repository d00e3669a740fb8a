package eventlog

import (
	"context"
	"sync"

	"github.com/ctoken-xyz/go-ctoken/token"
)

// Store is the persistence interface for registry events. A single store
// may be shared by several registry instances; events are partitioned by
// registry identity.
type Store interface {
	// Append persists one event.
	Append(ctx context.Context, ev Event) error

	// Read returns a registry's events with Seq >= fromSeq, in sequence
	// order.
	Read(ctx context.Context, registry token.RegistryID, fromSeq uint64) ([]Event, error)

	// Close releases any resources held by the store.
	Close() error
}

// MemoryStore is an in-memory Store, suitable for tests and demos.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append persists one event.
func (s *MemoryStore) Append(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

// Read returns a registry's events with Seq >= fromSeq.
func (s *MemoryStore) Read(_ context.Context, registry token.RegistryID, fromSeq uint64) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Event
	for _, ev := range s.events {
		if ev.Registry == registry && ev.Seq >= fromSeq {
			out = append(out, ev)
		}
	}
	return out, nil
}

// Registries lists every registry with at least one event, in first
// appearance order.
func (s *MemoryStore) Registries(_ context.Context) ([]token.RegistryID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[token.RegistryID]bool)
	var out []token.RegistryID
	for _, ev := range s.events {
		if !seen[ev.Registry] {
			seen[ev.Registry] = true
			out = append(out, ev.Registry)
		}
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
