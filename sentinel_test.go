package sentinel_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsepredict/sentinel"
	"github.com/pulsepredict/sentinel/pkg/adapters/httpsource"
	"github.com/pulsepredict/sentinel/pkg/domain"
	"github.com/pulsepredict/sentinel/pkg/ports"
)

// scriptedSource serves a mutable snapshot and confirms executions,
// standing in for the real backend.
type scriptedSource struct {
	mu    sync.Mutex
	snap  *domain.Snapshot
	scans int
}

func (s *scriptedSource) Scan(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scans++
	return s.snap.Clone(), nil
}

func (s *scriptedSource) Execute(ctx context.Context, req ports.ExecuteRequest) (ports.ExecuteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// The backend applies the side effect; the next scan reflects it.
	s.snap.Inventory["masks"] += 500
	return ports.ExecuteResult{Message: "Added +500 Masks to stock."}, nil
}

func (s *scriptedSource) scanCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scans
}

func TestFacade_SyncAndExecute(t *testing.T) {
	source := &scriptedSource{snap: &domain.Snapshot{
		Predictions: map[string]domain.Prediction{
			"vector": {Score: 8.0, Status: domain.SeverityCritical},
		},
		Inventory: map[string]int{"masks": 454},
		Agent: domain.Agent{Actions: []domain.Action{
			{ID: 2, Title: "Restock Masks", Type: domain.TypeInventory, Executable: true,
				Payload: map[string]any{"action": "RESTOCK"}},
		}},
	}}

	client := sentinel.New("", sentinel.WithSource(source))
	ctx := context.Background()

	res, err := client.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeLive, res.Mode)
	assert.Equal(t, 454, res.Snapshot.Inventory["masks"])

	action := *res.Snapshot.ActionByID(2)
	out, err := client.Execute(ctx, action)
	require.NoError(t, err)
	assert.False(t, out.Simulated)

	// The confirmed execution triggers a reconciling sync, so the store now
	// holds the backend's post-execution state.
	assert.Equal(t, 2, source.scanCount())
	snap, mode, err := client.Store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, domain.ModeLive, mode)
	assert.Equal(t, 954, snap.Inventory["masks"])

	status, err := client.Store.ActionStatus(2)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExecuted, status)

	// Executing again is an idempotent rejection.
	_, err = client.Execute(ctx, action)
	assert.ErrorIs(t, err, domain.ErrAlreadyExecuted)
}

func TestFacade_SourceOptionsReachTheClient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := sentinel.New(srv.URL,
		sentinel.WithSourceOptions(httpsource.WithScanAttempts(2)),
	)

	res, err := client.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ModeFallback, res.Mode)
	assert.Equal(t, int32(2), calls.Load(), "the configured retry budget must reach the HTTP source")
}
