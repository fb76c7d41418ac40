package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Group is a Step that runs independent steps concurrently.
// The first error cancels the context of the remaining steps and is
// returned once all of them have finished.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because errgroup handles the concurrency limit and error propagation.
type Group struct {
	steps       []Step
	concurrency int
	logger      *slog.Logger
}

// GroupOption configures a Group.
type GroupOption func(*Group)

// WithGroupLogger sets a custom logger for the group.
func WithGroupLogger(logger *slog.Logger) GroupOption {
	return func(g *Group) {
		g.logger = logger
	}
}

// WithConcurrency sets the maximum number of steps running at once.
// Default is 4 if not specified.
func WithConcurrency(n int) GroupOption {
	return func(g *Group) {
		if n > 0 {
			g.concurrency = n
		}
	}
}

// NewGroup creates a Group of steps.
func NewGroup(steps []Step, opts ...GroupOption) *Group {
	g := &Group{
		steps:       steps,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Name returns the member step names joined with "+".
func (g *Group) Name() string {
	names := make([]string, len(g.steps))
	for i, step := range g.steps {
		names[i] = step.Name()
	}
	return strings.Join(names, "+")
}

// Do runs every member step and waits for all of them.
func (g *Group) Do(ctx context.Context, b *Build) error {
	startTime := time.Now()

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)

	for _, step := range g.steps {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if err := step.Do(ctx, b); err != nil {
				g.logger.Warn("step failed", "step", step.Name(), "error", err)
				return err
			}
			g.logger.Debug("step completed", "step", step.Name())
			return nil
		})
	}

	err := eg.Wait()
	g.logger.Debug("group complete",
		"steps", len(g.steps),
		"elapsed", time.Since(startTime),
	)
	return err
}
