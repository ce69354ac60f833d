package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsepredict/sentinel/internal/server"
	"github.com/pulsepredict/sentinel/pkg/adapters/memory"
	"github.com/pulsepredict/sentinel/pkg/domain"
	"github.com/pulsepredict/sentinel/pkg/ports"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()

	store := memory.NewStore(map[string]int{
		"masks": 454, "oxygen": 32, "beds_available": 17, "ors_packs": 50,
	})
	clock := func() time.Time {
		return time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)
	}
	handler := server.NewHandler(store, nil, server.WithClock(clock))
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, store
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func executeAction(t *testing.T, srv *httptest.Server, req ports.ExecuteRequest) string {
	t.Helper()
	resp := postJSON(t, srv.URL+"/system/execute_action", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.True(t, out.Success)
	return out.Message
}

func TestScan_ReturnsSnapshotWithLiveInventory(t *testing.T) {
	srv, store := newTestServer(t)

	// Mutate stock so the served snapshot must reflect the store, not the dataset.
	_, err := store.AdjustStock(context.Background(), "masks", 46)
	require.NoError(t, err)

	resp := postJSON(t, srv.URL+"/system/scan", map[string]string{"action": "initial_scan"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Success  bool             `json:"success"`
		LiveData *domain.Snapshot `json:"live_data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.True(t, out.Success)
	require.NotNil(t, out.LiveData)

	assert.Equal(t, 500, out.LiveData.Inventory["masks"])
	assert.Equal(t, "Dengue", out.LiveData.TopTrend)
	assert.NotEmpty(t, out.LiveData.Agent.Actions)
	assert.NoError(t, out.LiveData.Validate())
}

func TestScan_RejectsInvalidBody(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/system/scan", "application/json", bytes.NewReader([]byte("{")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExecute_AlertBroadcast(t *testing.T) {
	srv, store := newTestServer(t)

	msg := executeAction(t, srv, ports.ExecuteRequest{
		ActionID: 1,
		Title:    "Broadcast Dengue Alert",
		Type:     domain.TypeCommunication,
		Payload:  map[string]any{"action": "ALERT_ALL", "message": "Dengue outbreak imminent"},
	})
	assert.Equal(t, "Alert sent to 142 Staff Members via SMS Gateway.", msg)

	logs, err := store.Logs(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "[10:30:00] ALERT BROADCAST: Dengue outbreak imminent", logs[0])
}

func TestExecute_InventoryKeywords(t *testing.T) {
	cases := []struct {
		title   string
		message string
		item    string
		want    int
	}{
		{"Restock Masks and ORS", "Added +500 Masks to stock.", "masks", 954},
		{"Order Oxygen Cylinders", "Added +20 Oxygen Cylinders.", "oxygen", 52},
		{"Activate Bed Surge Protocol", "Surge Protocol Active: +5 Beds cleared.", "beds_available", 22},
		{"Restock ORS Packs", "Restocked +100 ORS/Fluids.", "ors_packs", 150},
		{"General Supply Replenishment", "General medical supplies restocked.", "ors_packs", 100},
	}

	for _, tc := range cases {
		t.Run(tc.title, func(t *testing.T) {
			srv, store := newTestServer(t)

			msg := executeAction(t, srv, ports.ExecuteRequest{
				ActionID: 2,
				Title:    tc.title,
				Type:     domain.TypeInventory,
			})
			assert.Equal(t, tc.message, msg)

			inv, err := store.Inventory(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.want, inv[tc.item])
		})
	}
}

func TestExecute_SyncDB(t *testing.T) {
	srv, _ := newTestServer(t)

	msg := executeAction(t, srv, ports.ExecuteRequest{
		ActionID: 4,
		Title:    "Synchronize Database",
		Type:     domain.TypeSystem,
		Payload:  map[string]any{"action": "SYNC_DB"},
	})
	assert.Equal(t, "Database synchronized with Central Command.", msg)
}

func TestExecute_GenericGoesToRegistry(t *testing.T) {
	srv, store := newTestServer(t)

	msg := executeAction(t, srv, ports.ExecuteRequest{
		ActionID: 9,
		Title:    "Review Containment Zones",
		Type:     domain.TypeProtocol,
	})
	assert.Equal(t, "Action 'Review Containment Zones' logged in system registry.", msg)

	logs, err := store.Logs(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "[10:30:00] ACTION LOGGED: Review Containment Zones", logs[0])
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
