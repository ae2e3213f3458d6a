// Package notify holds the single transient notification shown after a load
// or mutation. Expiry is evaluated against a clock when the notification is
// read, so no timers or goroutines are involved.
package notify

import (
	"sync"
	"time"
)

// DefaultLifetime is how long a notification stays visible.
const DefaultLifetime = 3 * time.Second

// Severity classifies a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a displayed message.
type Notification struct {
	ID       uint64
	Message  string
	Severity Severity
	ShownAt  time.Time
	Expires  time.Time
}

// Remaining returns the time left before the notification hides itself.
func (n Notification) Remaining(now time.Time) time.Duration {
	if left := n.Expires.Sub(now); left > 0 {
		return left
	}
	return 0
}

// Option customises a Center.
type Option func(*Center)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Center) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLifetime overrides DefaultLifetime.
func WithLifetime(d time.Duration) Option {
	return func(c *Center) {
		if d > 0 {
			c.lifetime = d
		}
	}
}

// Center keeps at most one notification; showing a new one replaces the
// current one. It is safe for concurrent use.
type Center struct {
	mu       sync.Mutex
	now      func() time.Time
	lifetime time.Duration
	seq      uint64
	current  *Notification
}

// NewCenter returns an empty Center.
func NewCenter(opts ...Option) *Center {
	c := &Center{now: time.Now, lifetime: DefaultLifetime}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Show displays message, replacing any current notification.
func (c *Center) Show(message string, severity Severity) Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	now := c.now()
	n := Notification{
		ID:       c.seq,
		Message:  message,
		Severity: severity,
		ShownAt:  now,
		Expires:  now.Add(c.lifetime),
	}
	c.current = &n
	return n
}

// Success is Show with SeveritySuccess.
func (c *Center) Success(message string) Notification {
	return c.Show(message, SeveritySuccess)
}

// Error is Show with SeverityError.
func (c *Center) Error(message string) Notification {
	return c.Show(message, SeverityError)
}

// Current returns the visible notification. Expired notifications are
// dropped on read.
func (c *Center) Current() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return Notification{}, false
	}
	if !c.now().Before(c.current.Expires) {
		c.current = nil
		return Notification{}, false
	}
	return *c.current, true
}

// Dismiss hides the notification with the given id. Dismissing a
// notification that was already replaced or expired does nothing. An id of
// zero dismisses whatever is visible.
func (c *Center) Dismiss(id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return false
	}
	if id != 0 && c.current.ID != id {
		return false
	}
	c.current = nil
	return true
}

// Now exposes the center clock so views can compute remaining lifetimes.
func (c *Center) Now() time.Time {
	return c.now()
}
