package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"

	"github.com/pulsepredict/sentinel"
	"github.com/pulsepredict/sentinel/internal/notify"
	"github.com/pulsepredict/sentinel/internal/presentation/tui"
	"github.com/pulsepredict/sentinel/pkg/adapters/httpsource"
	"github.com/pulsepredict/sentinel/pkg/domain"
	"github.com/pulsepredict/sentinel/pkg/executor"
	"github.com/pulsepredict/sentinel/pkg/ports"
	"github.com/pulsepredict/sentinel/pkg/syncer"
)

// WatchOptions carries run parameters resolved from config and flags.
type WatchOptions struct {
	BaseURL       string
	Interval      time.Duration
	FallbackDelay time.Duration
	SourceTimeout time.Duration
	ScanAttempts  uint
	Debug         bool
}

// sourceOptions translates the tunables into HTTP source options.
func (o WatchOptions) sourceOptions() []httpsource.Option {
	var opts []httpsource.Option
	if o.SourceTimeout > 0 {
		opts = append(opts, httpsource.WithTimeout(o.SourceTimeout))
	}
	if o.ScanAttempts > 0 {
		opts = append(opts, httpsource.WithScanAttempts(o.ScanAttempts))
	}
	return opts
}

// RunWatch runs the live dashboard: an eager sync, background polling, and a
// small keyboard loop for refresh and action execution.
func RunWatch(opts WatchOptions) error {
	logger := createLogger(opts.Debug)
	tui.PrintBanner(sentinel.Version)

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	view := tui.NewView()

	var frame frameState
	center := notify.NewCenter(notify.WithOnChange(func() {
		frame.repaint(view)
	}))
	defer center.Close()
	frame.center = center

	execOpts := []executor.Option{}
	if opts.FallbackDelay > 0 {
		execOpts = append(execOpts, executor.WithFallbackDelay(opts.FallbackDelay))
	}
	client := sentinel.New(opts.BaseURL,
		sentinel.WithNotifier(center),
		sentinel.WithLogger(logger),
		sentinel.WithSourceOptions(opts.sourceOptions()...),
		sentinel.WithExecutorOptions(execOpts...),
	)
	frame.client = client

	// The poller runs the eager first sync itself.
	poller := syncer.NewPoller(opts.Interval, func(ctx context.Context) {
		client.Sync(ctx)
		frame.repaint(view)
	}, logger)
	poller.Start(sigCtx)
	defer poller.Stop()

	input := readLines(os.Stdin)

	for {
		select {
		case <-sigCtx.Done():
			fmt.Println("\nShutting down.")
			return nil
		case line, ok := <-input:
			if !ok {
				return nil
			}
			switch strings.ToLower(line) {
			case "q", "quit", "exit":
				fmt.Println("Bye.")
				return nil
			case "r", "refresh":
				go func() {
					client.Refresh(sigCtx)
					frame.repaint(view)
				}()
			case "":
				frame.repaint(view)
			default:
				n, err := strconv.Atoi(line)
				if err != nil {
					frame.repaint(view)
					continue
				}
				go func() {
					executeByIndex(sigCtx, &frame, n)
					frame.repaint(view)
				}()
			}
		}
	}
}

// frameState serializes repaints: syncs, notifications and keystrokes all
// race to redraw, and interleaved frames garble the terminal.
type frameState struct {
	mu     sync.Mutex
	client *sentinel.Client
	center *notify.Center
}

func (f *frameState) repaint(view *tui.View) {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap, mode, err := f.client.Store.Snapshot()
	if err != nil {
		return // nothing to draw before the first sync completes
	}

	statuses := make(map[int]domain.ActionStatus, len(snap.Agent.Actions))
	for _, a := range snap.Agent.Actions {
		if st, err := f.client.Store.ActionStatus(a.ID); err == nil {
			statuses[a.ID] = st
		}
	}

	var note *notify.Notification
	if n, ok := f.center.Current(); ok {
		note = &n
	}

	termenv.ClearScreen()
	fmt.Print(view.Render(snap, mode, statuses, note))
}

// executeByIndex resolves the 1-based action number shown in the frame and
// runs it. The executor handles status and ticket rules; here we only turn
// its sentinel errors into user-facing notifications.
func executeByIndex(ctx context.Context, frame *frameState, n int) {
	snap, _, err := frame.client.Store.Snapshot()
	if err != nil {
		return
	}
	if n < 1 || n > len(snap.Agent.Actions) {
		frame.center.Notify(ports.NotifyWarning, fmt.Sprintf("No action #%d on the board.", n))
		return
	}
	action := snap.Agent.Actions[n-1]

	_, err = frame.client.Execute(ctx, action)
	switch {
	case err == nil:
		// Executor already notified with the outcome message.
	case errors.Is(err, domain.ErrNotExecutable):
		frame.center.Notify(ports.NotifyWarning, fmt.Sprintf("%q needs a human, it cannot be executed.", action.Title))
	case errors.Is(err, domain.ErrAlreadyExecuted):
		frame.center.Notify(ports.NotifyInfo, fmt.Sprintf("%q is already done.", action.Title))
	case executor.IsRejection(err):
		frame.center.Notify(ports.NotifyWarning, "Another action is still running.")
	}
}

// readLines pumps stdin lines into a channel so the event loop can also
// react to signals. The goroutine exits when stdin closes.
func readLines(r *os.File) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			out <- strings.TrimSpace(scanner.Text())
		}
	}()
	return out
}
