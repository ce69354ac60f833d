package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pulsepredict/sentinel"
	"github.com/pulsepredict/sentinel/internal/presentation/tui"
	"github.com/pulsepredict/sentinel/pkg/domain"
)

// RunScan performs a single synchronization pass and prints the snapshot,
// either as a rendered frame or as JSON for scripting.
func RunScan(opts WatchOptions, jsonOut bool) error {
	logger := createLogger(opts.Debug)
	client := sentinel.New(opts.BaseURL,
		sentinel.WithLogger(logger),
		sentinel.WithSourceOptions(opts.sourceOptions()...),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := client.Sync(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Mode     domain.SyncMode  `json:"mode"`
			Snapshot *domain.Snapshot `json:"snapshot"`
		}{res.Mode, res.Snapshot})
	}

	view := tui.NewView()
	statuses := make(map[int]domain.ActionStatus, len(res.Snapshot.Agent.Actions))
	for _, a := range res.Snapshot.Agent.Actions {
		statuses[a.ID] = a.EffectiveStatus()
	}
	fmt.Print(view.Render(res.Snapshot, res.Mode, statuses, nil))
	return nil
}
