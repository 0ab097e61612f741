// SPDX-License-Identifier: EPL-2.0

package script

import (
	"context"
	"fmt"
	"time"
)

// DefaultTick is one frame at 60 Hz, rounded down.
const DefaultTick = 16 * time.Millisecond

// Frame is what a run reports after each step of the timeline.
type Frame struct {
	Index int
	At    time.Duration
	// Applied holds the steps issued at this frame, in order.
	Applied []Step
}

type runConfig struct {
	tick     time.Duration
	realtime bool
	advance  func(time.Duration)
	onFrame  func(Frame)
}

type RunOption func(*runConfig)

// WithTick sets the frame length.
func WithTick(d time.Duration) RunOption {
	return func(c *runConfig) { c.tick = d }
}

// WithRealtime waits one tick of wall time between frames.
func WithRealtime(on bool) RunOption {
	return func(c *runConfig) { c.realtime = on }
}

// WithAdvance is called with each frame's length before the mixer ticks.
// Simulated voices use it to move their clock.
func WithAdvance(f func(time.Duration)) RunOption {
	return func(c *runConfig) { c.advance = f }
}

// WithFrame receives every frame once its steps are applied.
func WithFrame(f func(Frame)) RunOption {
	return func(c *runConfig) { c.onFrame = f }
}

// Run plays s against c until s.End, or until ctx is done.
func Run(ctx context.Context, c Commander, s Script, opts ...RunOption) error {
	cfg := runConfig{tick: DefaultTick}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.tick <= 0 {
		return fmt.Errorf("script: %w: %v", ErrBadTick, cfg.tick)
	}

	var ticker *time.Ticker
	if cfg.realtime {
		ticker = time.NewTicker(cfg.tick)
		defer ticker.Stop()
	}

	end := s.End()
	next := 0
	var now time.Duration

	for frame := 0; ; frame++ {
		var applied []Step
		for next < len(s.Steps) && s.Steps[next].At.Std() <= now {
			if err := Apply(c, s.Steps[next]); err != nil {
				return err
			}
			applied = append(applied, s.Steps[next])
			next++
		}

		if cfg.onFrame != nil {
			cfg.onFrame(Frame{Index: frame, At: now, Applied: applied})
		}
		if now >= end {
			return nil
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if cfg.advance != nil {
			cfg.advance(cfg.tick)
		}
		c.Tick(cfg.tick)
		now += cfg.tick
	}
}
