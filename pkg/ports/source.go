package ports

import (
	"context"

	"github.com/pulsepredict/sentinel/pkg/domain"
)

// ExecuteRequest is the wire payload for /system/execute_action.
type ExecuteRequest struct {
	ActionID int            `json:"action_id"`
	Title    string         `json:"title"`
	Type     string         `json:"type"`
	Payload  map[string]any `json:"function_payload"`
}

// ExecuteResult is the server-confirmed outcome of an execution.
type ExecuteResult struct {
	// Message is the human-readable confirmation from the service,
	// e.g. "Alert sent to 142 Staff Members via SMS Gateway."
	Message string
}

// SnapshotSource is the remote endpoint returning system state and applying
// remediation actions. Implementations must return domain.ErrSourceUnavailable
// (possibly wrapped) for transport failures, non-2xx statuses and payloads
// whose success flag is false; the core treats all three identically.
type SnapshotSource interface {
	// Scan requests an initial_scan and returns the full snapshot.
	Scan(ctx context.Context) (*domain.Snapshot, error)

	// Execute forwards an approved action to the service.
	Execute(ctx context.Context, req ExecuteRequest) (ExecuteResult, error)
}
