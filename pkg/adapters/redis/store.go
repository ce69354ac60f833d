// Package redis implements ports.HospitalStore on Redis, for deployments
// where the demo service should keep its state across restarts.
package redis

import (
	"context"
	"fmt"

	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.HospitalStore using a Redis hash for inventory and
// a list for the system log.
type Store struct {
	client *backend.Client
	prefix string
}

// Option configures the Store.
type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// New creates a Redis store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: "sentinel:hospital:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) inventoryKey() string { return s.prefix + "inventory" }
func (s *Store) logsKey() string      { return s.prefix + "logs" }

// Seed installs the inventory only if none exists yet.
func (s *Store) Seed(ctx context.Context, inventory map[string]int) error {
	n, err := s.client.HLen(ctx, s.inventoryKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to check inventory: %w", err)
	}
	if n > 0 {
		return nil
	}

	fields := make(map[string]interface{}, len(inventory))
	for k, v := range inventory {
		fields[k] = v
	}
	if len(fields) == 0 {
		return nil
	}
	if err := s.client.HSet(ctx, s.inventoryKey(), fields).Err(); err != nil {
		return fmt.Errorf("failed to seed inventory: %w", err)
	}
	return nil
}

// Inventory returns the current item -> quantity mapping.
func (s *Store) Inventory(ctx context.Context) (map[string]int, error) {
	raw, err := s.client.HGetAll(ctx, s.inventoryKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}

	out := make(map[string]int, len(raw))
	for k, v := range raw {
		var qty int
		if _, err := fmt.Sscanf(v, "%d", &qty); err != nil {
			return nil, fmt.Errorf("corrupt quantity for %q: %w", k, err)
		}
		out[k] = qty
	}
	return out, nil
}

// AdjustStock changes an item's quantity by delta, clamping at zero.
func (s *Store) AdjustStock(ctx context.Context, item string, delta int) (int, error) {
	qty, err := s.client.HIncrBy(ctx, s.inventoryKey(), item, int64(delta)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to adjust stock: %w", err)
	}
	if qty < 0 {
		// Clamp. Not atomic with the increment, which is acceptable for the
		// demo service's single-writer usage.
		if err := s.client.HSet(ctx, s.inventoryKey(), item, 0).Err(); err != nil {
			return 0, fmt.Errorf("failed to clamp stock: %w", err)
		}
		qty = 0
	}
	return int(qty), nil
}

// AppendLog records an entry in the system log.
func (s *Store) AppendLog(ctx context.Context, entry string) error {
	if err := s.client.RPush(ctx, s.logsKey(), entry).Err(); err != nil {
		return fmt.Errorf("failed to append log: %w", err)
	}
	return nil
}

// Logs returns the system log, oldest first.
func (s *Store) Logs(ctx context.Context) ([]string, error) {
	logs, err := s.client.LRange(ctx, s.logsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read logs: %w", err)
	}
	return logs, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
