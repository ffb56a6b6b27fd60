// Package refresh periodically reloads the append-only catalog dataset
// in the background so a long-running server picks up newly authored
// days without restarting.
package refresh

import (
	"context"
	"fmt"
	"time"

	"github.com/benklinger/kamaole/pkg/logger"
	"github.com/benklinger/kamaole/pkg/metrics"
)

// Default refresher configuration constants.
const (
	defaultInterval = 5 * time.Minute
	shutdownTimeout = 5 * time.Second
)

// Loader reloads the catalog snapshot. A failed reload keeps the
// previous snapshot; it is logged and counted, never retried eagerly.
type Loader interface {
	Reload(ctx context.Context) error
}

// Refresher runs the periodic reload loop.
type Refresher struct {
	loader   Loader
	interval time.Duration
	name     string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Refresher.
type Option func(*Refresher)

// WithInterval sets the reload interval.
func WithInterval(d time.Duration) Option {
	return func(r *Refresher) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithName sets the refresher name used in logs.
func WithName(name string) Option {
	return func(r *Refresher) {
		if name != "" {
			r.name = name
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Refresher) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Refresher for the given loader.
func New(loader Loader, opts ...Option) *Refresher {
	r := &Refresher{
		loader:   loader,
		interval: defaultInterval,
		name:     "catalog-refresher",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the reload loop until ctx is canceled or Shutdown is
// called. It is meant to run on its own goroutine.
func (r *Refresher) Run(ctx context.Context) {
	defer close(r.done)

	if r.logger == nil {
		r.logger = logger.Get()
	}
	r.logger.Info(ctx, "refresher started",
		logger.String("name", r.name),
		logger.String("interval", r.interval.String()),
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info(ctx, "refresher stopping", logger.String("name", r.name))
			return
		case <-r.shutdown:
			r.logger.Info(ctx, "refresher shutting down", logger.String("name", r.name))
			return
		case <-ticker.C:
			err := r.loader.Reload(ctx)
			metrics.RecordRefreshRun(err)
			if err != nil {
				r.logger.Warn(ctx, "catalog reload failed; keeping previous snapshot",
					logger.String("name", r.name),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown gracefully stops the refresher, waiting for the loop to
// exit.
func (r *Refresher) Shutdown(ctx context.Context) error {
	select {
	case <-r.shutdown:
		// Already shut down
	default:
		close(r.shutdown)
	}

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("refresher shutdown: %w", ctx.Err())
	case <-time.After(shutdownTimeout):
		return ErrShutdownTimeout
	}
}
