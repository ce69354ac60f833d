// Package memory implements ports.HospitalStore in memory.
package memory

import (
	"context"
	"sync"
)

// Store holds hospital state for the lifetime of the process.
// Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	inventory map[string]int
	logs      []string
}

// NewStore creates a store seeded with the given inventory (may be nil).
func NewStore(seed map[string]int) *Store {
	inv := make(map[string]int, len(seed))
	for k, v := range seed {
		inv[k] = v
	}
	return &Store{inventory: inv}
}

// Inventory returns a copy of the current item -> quantity mapping.
func (s *Store) Inventory(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int, len(s.inventory))
	for k, v := range s.inventory {
		out[k] = v
	}
	return out, nil
}

// AdjustStock changes an item's quantity by delta, clamping at zero.
func (s *Store) AdjustStock(ctx context.Context, item string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	qty := s.inventory[item] + delta
	if qty < 0 {
		qty = 0
	}
	s.inventory[item] = qty
	return qty, nil
}

// AppendLog records an entry in the system log.
func (s *Store) AppendLog(ctx context.Context, entry string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	return nil
}

// Logs returns the system log, oldest first.
func (s *Store) Logs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.logs))
	copy(out, s.logs)
	return out, nil
}
