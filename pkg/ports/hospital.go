package ports

import "context"

// HospitalStore holds the mutable hospital state served by the demo backend:
// inventory quantities and the append-only system log. It lives for the
// process (memory adapter) or survives restarts (redis adapter).
type HospitalStore interface {
	// Inventory returns the current item -> quantity mapping.
	Inventory(ctx context.Context) (map[string]int, error)

	// AdjustStock changes the quantity of an item by delta (creating it if
	// missing) and returns the new quantity. Quantities never go below zero.
	AdjustStock(ctx context.Context, item string, delta int) (int, error)

	// AppendLog records an entry in the system log.
	AppendLog(ctx context.Context, entry string) error

	// Logs returns the system log, oldest first.
	Logs(ctx context.Context) ([]string, error)
}
