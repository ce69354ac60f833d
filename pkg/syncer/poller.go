package syncer

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pulsepredict/sentinel/internal/logging"
)

// Poller runs a sync pass eagerly and then on a fixed interval for the
// lifetime of the view. It is a cancellable scheduled task, not a
// free-running timer: cancelling the context or calling Stop tears the
// ticker down (a leaked timer is a defect).
type Poller struct {
	interval time.Duration
	run      func(context.Context)
	logger   *slog.Logger

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewPoller creates a poller invoking run on each tick.
func NewPoller(interval time.Duration, run func(context.Context), logger *slog.Logger) *Poller {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Poller{
		interval: interval,
		run:      run,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the polling loop in its own goroutine. The first pass runs
// immediately; subsequent passes run every interval until ctx is cancelled
// or Stop is called. Repeated Start calls are no-ops.
func (p *Poller) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	go p.loop(ctx)
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.done)

	p.run(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("poller: context cancelled")
			return
		case <-p.stop:
			p.logger.Debug("poller: stopped")
			return
		case <-ticker.C:
			p.run(ctx)
		}
	}
}

// Stop cancels the recurring task and waits for the loop to exit.
// Safe to call multiple times, and before Start; idiomatic usage is
// defer poller.Stop().
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
	if p.started.Load() {
		<-p.done
	}
}
