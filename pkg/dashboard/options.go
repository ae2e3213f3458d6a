package dashboard

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-shelf/pkg/form"
	"github.com/goliatone/go-shelf/pkg/notify"
)

// Option customises a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for failure traces.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithReconciler swaps the post-mutation reconciliation strategy.
func WithReconciler(r Reconciler) Option {
	return func(c *Controller) {
		if r != nil {
			c.reconciler = r
		}
	}
}

// WithValidator supplies the form validator. Without it one is built from the
// embedded schema using the controller clock.
func WithValidator(v *form.Validator) Option {
	return func(c *Controller) {
		if v != nil {
			c.validator = v
		}
	}
}

// WithNotifier supplies the notification center. Without it one is built
// using the controller clock.
func WithNotifier(n *notify.Center) Option {
	return func(c *Controller) {
		if n != nil {
			c.notes = n
		}
	}
}

// WithClock sets the clock handed to the default validator and notifier.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithPageSize overrides DefaultPageSize.
func WithPageSize(size int) Option {
	return func(c *Controller) {
		if size > 0 {
			c.pageSize = size
		}
	}
}
