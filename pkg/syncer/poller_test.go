package syncer_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pulsepredict/sentinel/pkg/syncer"
)

func TestPoller_EagerFirstRunAndTicks(t *testing.T) {
	defer goleak.VerifyNone(t)

	var runs atomic.Int32
	p := syncer.NewPoller(10*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	}, nil)

	p.Start(context.Background())

	// The first pass fires immediately, then the ticker takes over.
	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)
	p.Stop()
}

func TestPoller_StopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := syncer.NewPoller(time.Hour, func(ctx context.Context) {}, nil)
	p.Start(context.Background())

	p.Stop()
	p.Stop() // second call must not panic or block
}

func TestPoller_StopWithoutStartReturns(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := syncer.NewPoller(time.Hour, func(ctx context.Context) {}, nil)

	done := make(chan struct{})
	go func() {
		p.Stop() // must not block waiting for a loop that never ran
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked without a prior Start")
	}
}

func TestPoller_StartIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	var runs atomic.Int32
	p := syncer.NewPoller(time.Hour, func(ctx context.Context) {
		runs.Add(1)
	}, nil)

	p.Start(context.Background())
	p.Start(context.Background()) // second call must not spawn a second loop
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, time.Millisecond)

	p.Stop()
	assert.Equal(t, int32(1), runs.Load(), "only the first Start runs the eager pass")
}

func TestPoller_ContextCancelStopsLoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	var runs atomic.Int32
	p := syncer.NewPoller(5*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	}, nil)

	p.Start(ctx)
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, time.Second, time.Millisecond)

	cancel()
	p.Stop()

	n := runs.Load()
	time.Sleep(25 * time.Millisecond)
	assert.Equal(t, n, runs.Load(), "no passes after cancellation")
}
