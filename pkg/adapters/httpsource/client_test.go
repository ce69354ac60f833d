package httpsource_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsepredict/sentinel/pkg/adapters/httpsource"
	"github.com/pulsepredict/sentinel/pkg/domain"
	"github.com/pulsepredict/sentinel/pkg/ports"
)

func TestScan_Success(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/system/scan", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"live_data": map[string]any{
				"environment": map[string]any{"temp": 32.5, "rain": 120.5, "aqi": 165.0, "humidity": 78.0},
				"predictions": map[string]any{
					"vector": map[string]any{"score": 10.0, "status": "CRITICAL"},
				},
				"top_trend": "Dengue",
				"inventory": map[string]any{"masks": 454},
				"ai_agent": map[string]any{
					"summary": "High risk.",
					"actions": []map[string]any{
						{"id": 1, "title": "Broadcast Dengue Alert", "type": "COMMUNICATION", "executable": true},
					},
				},
			},
		})
	}))
	defer srv.Close()

	c := httpsource.New(srv.URL)
	snap, err := c.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "initial_scan", gotBody["action"])
	assert.Equal(t, 32.5, snap.Environment.Temp)
	assert.Equal(t, "Dengue", snap.TopTrend)
	assert.Equal(t, 454, snap.Inventory["masks"])
	require.Len(t, snap.Agent.Actions, 1)
	assert.True(t, snap.Agent.Actions[0].Executable)
}

func TestScan_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success":   true,
			"live_data": map[string]any{"top_trend": "Dengue"},
		})
	}))
	defer srv.Close()

	c := httpsource.New(srv.URL)
	snap, err := c.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Dengue", snap.TopTrend)
	assert.Equal(t, int32(3), calls.Load())
}

func TestScan_ServiceReportedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false})
	}))
	defer srv.Close()

	c := httpsource.New(srv.URL, httpsource.WithScanAttempts(1))
	_, err := c.Scan(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestScan_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := httpsource.New(srv.URL, httpsource.WithScanAttempts(1))
	_, err := c.Scan(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestScan_TimeoutApplies(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release // hold the response past the client deadline
	}))
	defer srv.Close()
	defer close(release)

	c := httpsource.New(srv.URL,
		httpsource.WithTimeout(20*time.Millisecond),
		httpsource.WithScanAttempts(1),
	)
	_, err := c.Scan(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestExecute_Success(t *testing.T) {
	var gotReq ports.ExecuteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/system/execute_action", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Added +500 Masks to stock.",
		})
	}))
	defer srv.Close()

	c := httpsource.New(srv.URL)
	result, err := c.Execute(context.Background(), ports.ExecuteRequest{
		ActionID: 2,
		Title:    "Restock Masks",
		Type:     domain.TypeInventory,
		Payload:  map[string]any{"action": "RESTOCK"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Added +500 Masks to stock.", result.Message)
	assert.Equal(t, 2, gotReq.ActionID)
	assert.Equal(t, "Restock Masks", gotReq.Title)
	assert.Equal(t, "RESTOCK", gotReq.Payload["action"])
}

func TestExecute_NeverRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := httpsource.New(srv.URL)
	_, err := c.Execute(context.Background(), ports.ExecuteRequest{ActionID: 1, Title: "Broadcast Alert"})
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.Equal(t, int32(1), calls.Load(), "execute is not idempotent and must not be retried")
}
