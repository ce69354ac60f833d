// Package notify implements the transient status notifications the core
// emits: one current message at a time, cleared automatically after a fixed
// interval. There is deliberately no persistent error banner.
package notify

import (
	"sync"
	"time"

	"github.com/pulsepredict/sentinel/pkg/ports"
)

// DefaultTTL is how long a notification stays visible before self-clearing.
const DefaultTTL = 4 * time.Second

// Notification is a single timed status message.
type Notification struct {
	Level   ports.NotifyLevel
	Message string
	At      time.Time
}

// Center implements ports.Notifier. The newest notification replaces the
// previous one; after the TTL it clears itself.
type Center struct {
	mu      sync.Mutex
	ttl     time.Duration
	current *Notification
	timer   *time.Timer

	// onChange, when set, is invoked (outside the lock) whenever the
	// current notification is set or cleared; the watch UI uses it to
	// repaint without polling.
	onChange func()
}

// Option configures the Center.
type Option func(*Center)

// WithTTL overrides the self-clear interval.
func WithTTL(ttl time.Duration) Option {
	return func(c *Center) { c.ttl = ttl }
}

// WithOnChange registers a repaint callback.
func WithOnChange(fn func()) Option {
	return func(c *Center) { c.onChange = fn }
}

// NewCenter creates an empty notification center.
func NewCenter(opts ...Option) *Center {
	c := &Center{ttl: DefaultTTL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notify installs the notification and schedules its self-clear.
func (c *Center) Notify(level ports.NotifyLevel, message string) {
	c.mu.Lock()
	c.current = &Notification{Level: level, Message: message, At: time.Now()}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.ttl, c.clear)
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (c *Center) clear() {
	c.mu.Lock()
	c.current = nil
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Current returns the visible notification, if any.
func (c *Center) Current() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return Notification{}, false
	}
	return *c.current, true
}

// Close stops the pending clear timer.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
