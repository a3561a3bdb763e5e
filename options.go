package fixedloop

import (
	"log/slog"
	"time"
)

// Option configures a Loop at construction.
type Option func(*Loop)

// WithTargetFPS sets the initial target rate. Run overrides it with its own
// argument, so this mostly matters for code reading TargetFPS before a run.
func WithTargetFPS(fps uint32) Option {
	return func(l *Loop) {
		l.pacing.SetTargetFPS(fps)
	}
}

// WithCappedFPS sets the initial capped mode (default DefaultCappedFPS).
func WithCappedFPS(capped bool) Option {
	return func(l *Loop) {
		l.pacing.SetCapped(capped)
	}
}

// WithClock replaces SystemClock, mainly for deterministic tests.
func WithClock(c Clock) Option {
	return func(l *Loop) {
		if c != nil {
			l.clock = c
		}
	}
}

// WithLogger sets the logger used for run lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithWaitStrategy selects how capped frames wait (default WaitSpin).
func WithWaitStrategy(w WaitStrategy) Option {
	return func(l *Loop) {
		l.wait = w
	}
}

// WithHybridSlack sets the spin window kept by WaitHybrid.
func WithHybridSlack(d time.Duration) Option {
	return func(l *Loop) {
		if d >= 0 {
			l.slack = d
		}
	}
}
