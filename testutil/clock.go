package testutil

import (
	"sync"
	"time"
)

// StepClock is a deterministic fixedloop.Clock. Every Now call advances
// synthetic time by Step; Sleep and Advance move it forward explicitly.
// A zero Step makes time stand still until Advance or Sleep is called.
type StepClock struct {
	mu     sync.Mutex
	now    time.Time
	step   time.Duration
	calls  int
	slept  time.Duration
	sleeps int
}

// NewStepClock creates a clock starting at an arbitrary fixed instant.
func NewStepClock(step time.Duration) *StepClock {
	return &StepClock{
		now:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		step: step,
	}
}

func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	c.calls++
	return c.now
}

func (c *StepClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d > 0 {
		c.now = c.now.Add(d)
		c.slept += d
	}
	c.sleeps++
}

// Advance moves time forward without counting as a Now call, eg. to model
// work done inside a hook.
func (c *StepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// SetStep changes how far each Now call advances time.
func (c *StepClock) SetStep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = d
}

// Calls returns how many times Now has been called.
func (c *StepClock) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Slept returns the total duration passed to Sleep and the number of calls.
func (c *StepClock) Slept() (time.Duration, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slept, c.sleeps
}
