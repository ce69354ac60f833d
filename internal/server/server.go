// Package server implements the demo snapshot service: the same wire surface
// as the production Pulse Predict backend, backed by a HospitalStore and the
// built-in dataset. Risk scoring and agent summaries are upstream concerns;
// this service exists so the client has something real to sync against.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mitchellh/mapstructure"

	"github.com/pulsepredict/sentinel/internal/logging"
	"github.com/pulsepredict/sentinel/pkg/domain"
	"github.com/pulsepredict/sentinel/pkg/fallback"
	"github.com/pulsepredict/sentinel/pkg/ports"
)

// Server handles the two JSON endpoints of the snapshot source contract.
type Server struct {
	store  ports.HospitalStore
	logger *slog.Logger
	now    func() time.Time
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithClock overrides the wall clock (tests pin log timestamps).
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewHandler builds the HTTP handler. metricsHandler, when non-nil, is
// mounted at /metrics (the caller owns the registry).
func NewHandler(store ports.HospitalStore, metricsHandler http.Handler, opts ...Option) http.Handler {
	s := &Server{
		store:  store,
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Post("/system/scan", s.handleScan)
	r.Post("/system/execute_action", s.handleExecute)
	r.Get("/health", s.handleHealth)
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type scanRequest struct {
	Action string `json:"action"`
}

type scanResponse struct {
	Success  bool             `json:"success"`
	LiveData *domain.Snapshot `json:"live_data,omitempty"`
}

type executeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var body scanRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("scan: invalid request body", "err", err)
		return
	}

	snap, err := fallback.Snapshot()
	if err != nil {
		http.Error(w, "Dataset unavailable", http.StatusInternalServerError)
		s.logger.Error("scan: dataset unavailable", "err", err)
		return
	}

	// Inventory is the live, mutable part of the served state.
	inv, err := s.store.Inventory(r.Context())
	if err != nil {
		http.Error(w, "Store unavailable", http.StatusInternalServerError)
		s.logger.Error("scan: store unavailable", "err", err)
		return
	}
	if len(inv) > 0 {
		snap.Inventory = inv
	}

	s.logger.Info("scan served", "request", body.Action, "items", len(snap.Inventory))
	writeJSON(w, s.logger, scanResponse{Success: true, LiveData: snap})
}

// payloadCommand is the decoded shape of an action's opaque payload.
type payloadCommand struct {
	Action  string `mapstructure:"action"`
	Message string `mapstructure:"message"`
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req ports.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("execute: invalid request body", "err", err)
		return
	}

	var cmd payloadCommand
	if req.Payload != nil {
		if err := mapstructure.Decode(req.Payload, &cmd); err != nil {
			s.logger.Warn("execute: undecodable payload, treating as generic", "action_id", req.ActionID, "err", err)
		}
	}

	s.logger.Info("executing agent action", "action_id", req.ActionID, "title", req.Title, "type", req.Type)

	msg, err := s.apply(r, req, cmd)
	if err != nil {
		http.Error(w, "Store unavailable", http.StatusInternalServerError)
		s.logger.Error("execute: store failure", "action_id", req.ActionID, "err", err)
		return
	}

	writeJSON(w, s.logger, executeResponse{Success: true, Message: msg})
}

// apply mutates hospital state according to the action semantics.
func (s *Server) apply(r *http.Request, req ports.ExecuteRequest, cmd payloadCommand) (string, error) {
	ctx := r.Context()

	// 1. Broadcast alerts.
	if cmd.Action == "ALERT_ALL" {
		message := cmd.Message
		if message == "" {
			message = "Alert"
		}
		entry := fmt.Sprintf("[%s] ALERT BROADCAST: %s", s.now().Format("15:04:05"), message)
		if err := s.store.AppendLog(ctx, entry); err != nil {
			return "", err
		}
		return "Alert sent to 142 Staff Members via SMS Gateway.", nil
	}

	// 2. Inventory/resource actions: keyword heuristics on the title decide
	// what gets restocked.
	if req.Type == domain.TypeResource || req.Type == domain.TypeInventory {
		title := strings.ToLower(req.Title)
		switch {
		case strings.Contains(title, "masks"):
			if _, err := s.store.AdjustStock(ctx, "masks", 500); err != nil {
				return "", err
			}
			return "Added +500 Masks to stock.", nil
		case strings.Contains(title, "oxygen"):
			if _, err := s.store.AdjustStock(ctx, "oxygen", 20); err != nil {
				return "", err
			}
			return "Added +20 Oxygen Cylinders.", nil
		case strings.Contains(title, "bed"), strings.Contains(title, "surge"):
			if _, err := s.store.AdjustStock(ctx, "beds_available", 5); err != nil {
				return "", err
			}
			return "Surge Protocol Active: +5 Beds cleared.", nil
		case strings.Contains(title, "ors"), strings.Contains(title, "fluids"):
			if _, err := s.store.AdjustStock(ctx, "ors_packs", 100); err != nil {
				return "", err
			}
			return "Restocked +100 ORS/Fluids.", nil
		default:
			if _, err := s.store.AdjustStock(ctx, "ors_packs", 50); err != nil {
				return "", err
			}
			return "General medical supplies restocked.", nil
		}
	}

	// 3. Sync actions.
	if cmd.Action == "SYNC_DB" {
		return "Database synchronized with Central Command.", nil
	}

	// 4. Everything else goes to the registry.
	entry := fmt.Sprintf("[%s] ACTION LOGGED: %s", s.now().Format("15:04:05"), req.Title)
	if err := s.store.AppendLog(ctx, entry); err != nil {
		return "", err
	}
	return fmt.Sprintf("Action '%s' logged in system registry.", req.Title), nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}
