// Package polling refreshes a store on a fixed period while the panel is active.
package polling

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/facebookgo/clock"
)

// DefaultInterval is the refresh period used when none is configured.
const DefaultInterval = 5 * time.Second

var ErrInvalidInterval = errors.New("poll interval must be positive")

// Loader is refreshed on every tick.
type Loader interface {
	Load(ctx context.Context) error
}

// LoaderFunc adapts a plain function to Loader.
type LoaderFunc func(ctx context.Context) error

func (f LoaderFunc) Load(ctx context.Context) error { return f(ctx) }

// Controller owns one ticker goroutine. Start and Stop may be called any
// number of times; only the first Start of an idle controller spawns a loop.
type Controller struct {
	target   Loader
	interval time.Duration
	clock    clock.Clock
	gate     func() bool
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Controller)

// WithClock replaces the wall clock, typically with clock.NewMock in tests.
func WithClock(c clock.Clock) Option {
	return func(ctl *Controller) {
		if c != nil {
			ctl.clock = c
		}
	}
}

// WithGate makes every tick conditional on gate returning true. The gate is
// asked again on each tick.
func WithGate(gate func() bool) Option {
	return func(ctl *Controller) {
		ctl.gate = gate
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(ctl *Controller) {
		ctl.logger = logger
	}
}

// New builds an idle controller.
func New(target Loader, interval time.Duration, opts ...Option) (*Controller, error) {
	if target == nil {
		return nil, errors.New("poll target is required")
	}
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	ctl := &Controller{target: target, interval: interval, clock: clock.New()}
	for _, opt := range opts {
		if opt != nil {
			opt(ctl)
		}
	}
	return ctl, nil
}

// Start begins ticking. The first refresh happens one interval after Start.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	ticker := c.clock.Ticker(c.interval)
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done
	go c.loop(ctx, ticker, done)
	c.log(ctx, slog.LevelDebug, "polling started", slog.Duration("interval", c.interval))
}

// Stop cancels the ticker and waits for the loop to exit. No refresh starts
// after Stop returns.
func (c *Controller) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()
	if done == nil {
		return
	}
	cancel()
	<-done
	c.log(context.Background(), slog.LevelDebug, "polling stopped")
}

// Running reports whether the loop is active.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done != nil
}

func (c *Controller) loop(ctx context.Context, ticker *clock.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			if c.gate != nil && !c.gate() {
				continue
			}
			if err := c.target.Load(ctx); err != nil && ctx.Err() == nil {
				c.log(ctx, slog.LevelWarn, "scheduled refresh failed", slog.String("error", err.Error()))
			}
		}
	}
}

func (c *Controller) log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, level, msg, attrs...)
}
