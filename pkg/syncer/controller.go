// Package syncer owns the data-synchronization half of the client core: when
// to fetch, how to degrade to the built-in dataset, and how to keep a slow
// response from clobbering a newer one.
package syncer

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/pulsepredict/sentinel/internal/logging"
	"github.com/pulsepredict/sentinel/pkg/domain"
	"github.com/pulsepredict/sentinel/pkg/fallback"
	"github.com/pulsepredict/sentinel/pkg/observability"
	"github.com/pulsepredict/sentinel/pkg/ports"
	"github.com/pulsepredict/sentinel/pkg/state"
)

// Result is what a sync pass leaves behind for the view to render.
type Result struct {
	Mode     domain.SyncMode
	Snapshot *domain.Snapshot
}

// Controller decides when to fetch and how to degrade. All recoverable
// failure is absorbed here; the only error Sync ever returns is total data
// unavailability (no snapshot ever obtained and the built-in dataset failed
// to load), which the view renders as a retryable error state.
type Controller struct {
	source   ports.SnapshotSource
	store    *state.Store
	notifier ports.Notifier
	logger   *slog.Logger
	metrics  *observability.Metrics

	// fallbackFn is swappable for tests.
	fallbackFn func() (*domain.Snapshot, error)

	// refreshLimiter caps manual refresh bursts; the periodic timer and
	// execute-triggered reconciliation are not limited.
	refreshLimiter *rate.Limiter
}

// Option configures the Controller.
type Option func(*Controller)

// WithNotifier wires transient status notifications.
func WithNotifier(n ports.Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithMetrics wires Prometheus instrumentation.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithFallbackProvider overrides the built-in dataset provider.
func WithFallbackProvider(fn func() (*domain.Snapshot, error)) Option {
	return func(c *Controller) { c.fallbackFn = fn }
}

// WithRefreshLimit bounds manual refreshes to r per second with the given burst.
func WithRefreshLimit(r rate.Limit, burst int) Option {
	return func(c *Controller) { c.refreshLimiter = rate.NewLimiter(r, burst) }
}

// NewController creates a sync controller bound to a source and a state store.
func NewController(source ports.SnapshotSource, store *state.Store, opts ...Option) *Controller {
	c := &Controller{
		source:         source,
		store:          store,
		notifier:       ports.NopNotifier{},
		logger:         logging.NewNop(),
		metrics:        observability.NewMetrics(nil),
		fallbackFn:     fallback.Snapshot,
		refreshLimiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sync performs one full pass: scan, atomic replace on success, degrade on
// failure. It never partially applies a snapshot, and after ctx is cancelled
// it mutates nothing (completion becomes a no-op).
func (c *Controller) Sync(ctx context.Context) (Result, error) {
	started := time.Now()
	seq := c.store.BeginSync()

	snap, err := c.source.Scan(ctx)
	if err == nil {
		if vErr := snap.Validate(); vErr != nil {
			// A malformed payload is handled exactly like a transport failure.
			c.logger.Warn("sync: discarding inconsistent payload", "err", vErr)
			err = domain.ErrSourceUnavailable
		}
	}

	if ctx.Err() != nil {
		// View was torn down while the request was in flight.
		return c.current(), nil
	}

	elapsed := time.Since(started).Seconds()
	defer c.metrics.SyncDuration.Observe(elapsed)

	if err == nil {
		if !c.store.Replace(seq, snap, domain.ModeLive) {
			// A later-issued sync already applied; this response is stale.
			c.metrics.SyncTotal.WithLabelValues("stale").Inc()
			c.logger.Debug("sync: stale response discarded", "seq", seq)
			return c.current(), nil
		}
		c.metrics.SyncTotal.WithLabelValues("live").Inc()
		c.logger.Info("sync: live data applied", "seq", seq, "actions", len(snap.Agent.Actions))
		c.notifier.Notify(ports.NotifySuccess, "Live data synchronized.")
		return Result{Mode: domain.ModeLive, Snapshot: snap.Clone()}, nil
	}

	// Failure branch. Mid-session: keep the last good snapshot untouched.
	if c.store.HasSnapshot() {
		c.metrics.SyncTotal.WithLabelValues("retained").Inc()
		c.logger.Warn("sync: fetch failed, retaining previous snapshot", "seq", seq, "err", err)
		c.notifier.Notify(ports.NotifyWarning, "Sync failed. Showing last known data.")
		return c.current(), nil
	}

	// First load: still render something.
	fb, fbErr := c.fallbackFn()
	if fbErr != nil {
		c.metrics.SyncTotal.WithLabelValues("terminal").Inc()
		c.logger.Error("sync: no snapshot and fallback unavailable", "err", fbErr)
		c.notifier.Notify(ports.NotifyError, "No data available. Retry when the service is reachable.")
		return Result{}, fbErr
	}

	c.store.Replace(seq, fb, domain.ModeFallback)
	c.metrics.SyncTotal.WithLabelValues("fallback").Inc()
	c.logger.Warn("sync: service unreachable, demo dataset loaded", "seq", seq, "err", err)
	c.notifier.Notify(ports.NotifyWarning, "Service unreachable. Demo dataset loaded.")
	return Result{Mode: domain.ModeFallback, Snapshot: fb.Clone()}, nil
}

// Refresh is the manual-refresh entry point. Bursts beyond the limiter are
// dropped silently (the periodic poll will cover the gap).
func (c *Controller) Refresh(ctx context.Context) (Result, error) {
	if !c.refreshLimiter.Allow() {
		c.logger.Debug("sync: manual refresh throttled")
		return c.current(), nil
	}
	return c.Sync(ctx)
}

// current reads the present state without mutating anything.
func (c *Controller) current() Result {
	snap, mode, err := c.store.Snapshot()
	if err != nil {
		return Result{Mode: mode}
	}
	return Result{Mode: mode, Snapshot: snap}
}
