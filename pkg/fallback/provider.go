// Package fallback supplies the fixed, internally consistent snapshot used
// when the snapshot source is unreachable.
package fallback

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/pulsepredict/sentinel/pkg/domain"
	"gopkg.in/yaml.v3"
)

//go:embed dataset.yaml
var datasetYAML []byte

var (
	once    sync.Once
	dataset *domain.Snapshot
	loadErr error
)

func load() {
	var snap domain.Snapshot
	if err := yaml.Unmarshal(datasetYAML, &snap); err != nil {
		loadErr = fmt.Errorf("failed to parse embedded dataset: %w", err)
		return
	}
	if err := snap.Validate(); err != nil {
		loadErr = fmt.Errorf("embedded dataset is inconsistent: %w", err)
		return
	}
	dataset = &snap
}

// Snapshot returns a fresh copy of the built-in dataset. Deterministic:
// every call yields an equal snapshot. An error here is the single terminal
// failure mode of the client (total data unavailability).
func Snapshot() (*domain.Snapshot, error) {
	once.Do(load)
	if loadErr != nil {
		return nil, loadErr
	}
	return dataset.Clone(), nil
}
