// Package sentinel is the high-level entry point for the Pulse Predict
// dashboard client core. It wires the state store, sync controller and
// action executor into a single client, leaving rendering to the caller.
package sentinel

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pulsepredict/sentinel/pkg/adapters/httpsource"
	"github.com/pulsepredict/sentinel/pkg/domain"
	"github.com/pulsepredict/sentinel/pkg/executor"
	"github.com/pulsepredict/sentinel/pkg/observability"
	"github.com/pulsepredict/sentinel/pkg/ports"
	"github.com/pulsepredict/sentinel/pkg/state"
	"github.com/pulsepredict/sentinel/pkg/syncer"
)

// Version is the client version reported by the CLI.
var Version = "0.2.0"

// Client bundles the core components around one shared state store.
type Client struct {
	Store      *state.Store
	Controller *syncer.Controller
	Executor   *executor.Executor
}

type config struct {
	source     ports.SnapshotSource
	notifier   ports.Notifier
	logger     *slog.Logger
	registry   prometheus.Registerer
	sourceOpts []httpsource.Option
	execOpts   []executor.Option
	syncOpts   []syncer.Option
}

// Option configures the Client.
type Option func(*config)

// WithSource injects a custom SnapshotSource (tests, alternate transports).
func WithSource(s ports.SnapshotSource) Option {
	return func(c *config) { c.source = s }
}

// WithNotifier wires transient status notifications.
func WithNotifier(n ports.Notifier) Option {
	return func(c *config) { c.notifier = n }
}

// WithLogger sets a structured logger for all components.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithRegistry registers metrics with the given Prometheus registerer.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(c *config) { c.registry = reg }
}

// WithSourceOptions appends options for the default HTTP source (timeout,
// retry budget). Ignored when WithSource supplies a custom source.
func WithSourceOptions(opts ...httpsource.Option) Option {
	return func(c *config) { c.sourceOpts = append(c.sourceOpts, opts...) }
}

// WithExecutorOptions appends raw executor options (e.g. fallback delay).
func WithExecutorOptions(opts ...executor.Option) Option {
	return func(c *config) { c.execOpts = append(c.execOpts, opts...) }
}

// WithSyncOptions appends raw sync controller options.
func WithSyncOptions(opts ...syncer.Option) Option {
	return func(c *config) { c.syncOpts = append(c.syncOpts, opts...) }
}

// New creates a client talking to the service at baseURL. When WithSource is
// provided, baseURL may be empty.
func New(baseURL string, opts ...Option) *Client {
	cfg := &config{notifier: ports.NopNotifier{}}
	for _, opt := range opts {
		opt(cfg)
	}

	metrics := observability.NewMetrics(cfg.registry)

	source := cfg.source
	if source == nil {
		srcOpts := []httpsource.Option{httpsource.WithMetrics(metrics)}
		if cfg.logger != nil {
			srcOpts = append(srcOpts, httpsource.WithLogger(cfg.logger))
		}
		srcOpts = append(srcOpts, cfg.sourceOpts...)
		source = httpsource.New(baseURL, srcOpts...)
	}

	store := state.NewStore()

	syncOpts := []syncer.Option{
		syncer.WithNotifier(cfg.notifier),
		syncer.WithMetrics(metrics),
	}
	if cfg.logger != nil {
		syncOpts = append(syncOpts, syncer.WithLogger(cfg.logger))
	}
	syncOpts = append(syncOpts, cfg.syncOpts...)
	controller := syncer.NewController(source, store, syncOpts...)

	execOpts := []executor.Option{
		executor.WithNotifier(cfg.notifier),
		executor.WithMetrics(metrics),
		executor.WithReconcile(func(ctx context.Context) {
			// The reconciling pass reuses the controller so ordering and
			// staleness rules hold for execute-triggered syncs too.
			controller.Sync(ctx)
		}),
	}
	if cfg.logger != nil {
		execOpts = append(execOpts, executor.WithLogger(cfg.logger))
	}
	execOpts = append(execOpts, cfg.execOpts...)

	return &Client{
		Store:      store,
		Controller: controller,
		Executor:   executor.New(source, store, execOpts...),
	}
}

// Sync runs one synchronization pass.
func (c *Client) Sync(ctx context.Context) (syncer.Result, error) {
	return c.Controller.Sync(ctx)
}

// Refresh runs a rate-limited manual refresh.
func (c *Client) Refresh(ctx context.Context) (syncer.Result, error) {
	return c.Controller.Refresh(ctx)
}

// Execute runs one remediation action through its full lifecycle.
func (c *Client) Execute(ctx context.Context, action domain.Action) (executor.Outcome, error) {
	return c.Executor.Execute(ctx, action)
}
