// Package executor owns the lifecycle of a single operator-triggered
// remediation action: optimistic ticket, remote call, and the
// simulated-success fallback when the service is unreachable.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pulsepredict/sentinel/internal/logging"
	"github.com/pulsepredict/sentinel/pkg/domain"
	"github.com/pulsepredict/sentinel/pkg/observability"
	"github.com/pulsepredict/sentinel/pkg/ports"
	"github.com/pulsepredict/sentinel/pkg/state"
)

// DefaultFallbackDelay is how long a failed execution "runs" before the
// simulated success lands. Without it the operator flow would appear to
// hang whenever the backend is down.
const DefaultFallbackDelay = 1500 * time.Millisecond

// Outcome describes how an execution concluded.
type Outcome struct {
	ActionID int
	// Simulated is true when the backend was unreachable and the success
	// was produced locally after the fallback delay.
	Simulated bool
	// Message is the operator-facing confirmation text.
	Message string
}

// Executor drives PENDING -> EXECUTED transitions. It enforces the
// machine-executable precondition, single-flight tickets and idempotence.
type Executor struct {
	source   ports.SnapshotSource
	store    *state.Store
	notifier ports.Notifier
	logger   *slog.Logger
	metrics  *observability.Metrics

	// reconcile triggers a fresh sync pass after a server-confirmed
	// execution so inventory/predictions reflect the applied side effect.
	// It is invoked only after the execute call itself has resolved.
	reconcile func(ctx context.Context)

	fallbackDelay time.Duration
}

// Option configures the Executor.
type Option func(*Executor)

// WithNotifier wires transient status notifications.
func WithNotifier(n ports.Notifier) Option {
	return func(e *Executor) { e.notifier = n }
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// WithMetrics wires Prometheus instrumentation.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// WithReconcile sets the sync pass to run after a confirmed execution.
func WithReconcile(fn func(ctx context.Context)) Option {
	return func(e *Executor) { e.reconcile = fn }
}

// WithFallbackDelay overrides the simulated-success delay (tests use ~0).
func WithFallbackDelay(d time.Duration) Option {
	return func(e *Executor) { e.fallbackDelay = d }
}

// New creates an executor bound to a source and the shared state store.
func New(source ports.SnapshotSource, store *state.Store, opts ...Option) *Executor {
	e := &Executor{
		source:        source,
		store:         store,
		notifier:      ports.NopNotifier{},
		logger:        logging.NewNop(),
		metrics:       observability.NewMetrics(nil),
		reconcile:     func(context.Context) {},
		fallbackDelay: DefaultFallbackDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs one action to completion. Rejections (human-only action,
// already executed, another execution in flight) are local and silent:
// they return a sentinel error and touch neither the network nor the state.
func (e *Executor) Execute(ctx context.Context, action domain.Action) (Outcome, error) {
	// The view should never offer this control for human-only actions, but
	// this is the safety-relevant boundary, so guard anyway.
	if !action.Executable {
		e.metrics.ExecutionTotal.WithLabelValues("rejected").Inc()
		return Outcome{}, domain.ErrNotExecutable
	}

	if status, err := e.store.ActionStatus(action.ID); err == nil && status == domain.StatusExecuted {
		e.metrics.ExecutionTotal.WithLabelValues("rejected").Inc()
		return Outcome{}, domain.ErrAlreadyExecuted
	}

	ticket, err := e.store.OpenTicket(action.ID)
	if err != nil {
		// A ticket is already open (same id or another action); do not queue.
		e.metrics.ExecutionTotal.WithLabelValues("rejected").Inc()
		e.logger.Debug("execute: rejected, ticket open", "action_id", action.ID)
		return Outcome{}, err
	}
	defer e.store.CloseTicket(ticket.ID)

	e.logger.Info("execute: dispatching action",
		"ticket_id", ticket.ID,
		"action_id", action.ID,
		"title", action.Title,
	)

	result, err := e.source.Execute(ctx, ports.ExecuteRequest{
		ActionID: action.ID,
		Title:    action.Title,
		Type:     action.Type,
		Payload:  action.Payload,
	})

	if ctx.Err() != nil {
		// View torn down mid-flight: clear the ticket, mutate nothing.
		return Outcome{}, ctx.Err()
	}

	if err == nil {
		if mErr := e.store.MarkExecuted(action.ID); mErr != nil {
			e.logger.Warn("execute: confirmed but not in snapshot", "action_id", action.ID, "err", mErr)
		}
		e.metrics.ExecutionTotal.WithLabelValues("confirmed").Inc()
		e.notifier.Notify(ports.NotifySuccess, result.Message)
		// Pull the authoritative post-execution snapshot.
		e.reconcile(ctx)
		return Outcome{ActionID: action.ID, Message: result.Message}, nil
	}

	// Backend unreachable or refused: simulate the full lifecycle after a
	// bounded delay instead of silently dropping the action.
	e.logger.Warn("execute: remote call failed, simulating success",
		"action_id", action.ID,
		"err", err,
	)
	select {
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	case <-time.After(e.fallbackDelay):
	}

	if mErr := e.store.MarkExecuted(action.ID); mErr != nil {
		e.logger.Warn("execute: simulated but not in snapshot", "action_id", action.ID, "err", mErr)
	}
	msg := fmt.Sprintf("%q completed (demo mode, backend offline).", action.Title)
	e.metrics.ExecutionTotal.WithLabelValues("simulated").Inc()
	e.notifier.Notify(ports.NotifyWarning, msg)
	return Outcome{ActionID: action.ID, Simulated: true, Message: msg}, nil
}

// IsRejection reports whether err is one of the silent local rejections.
func IsRejection(err error) bool {
	return errors.Is(err, domain.ErrNotExecutable) ||
		errors.Is(err, domain.ErrAlreadyExecuted) ||
		errors.Is(err, domain.ErrExecutionInFlight)
}
