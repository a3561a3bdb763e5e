package testutil

import (
	"testing"
	"time"

	"github.com/comalice/fixedloop"
)

// TestAdapterInterface verifies that both adapters drive a full run with restarts
func TestAdapterInterface(t *testing.T) {
	for _, adapter := range Adapters() {
		t.Run(adapter.Name(), func(t *testing.T) {
			clock := NewStepClock(time.Millisecond)
			rec := NewRecorder(Params{FramesPerRun: 3, Restarts: 1, ConstantRate: true},
				fixedloop.WithClock(clock))

			if err := adapter.Run(rec.Loop, 100); err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			for _, v := range rec.Verify() {
				t.Error(v)
			}
		})
	}
}

func TestStepClock(t *testing.T) {
	c := NewStepClock(2 * time.Millisecond)
	a := c.Now()
	b := c.Now()
	if d := b.Sub(a); d != 2*time.Millisecond {
		t.Errorf("Expected 2ms between Now calls, got %v", d)
	}

	c.Advance(5 * time.Millisecond)
	c.Sleep(3 * time.Millisecond)
	if d := c.Now().Sub(b); d != 10*time.Millisecond {
		t.Errorf("Expected 10ms after advance+sleep+step, got %v", d)
	}

	slept, n := c.Slept()
	if slept != 3*time.Millisecond || n != 1 {
		t.Errorf("Expected one 3ms sleep, got %d totalling %v", n, slept)
	}
	if c.Calls() != 3 {
		t.Errorf("Expected 3 Now calls, got %d", c.Calls())
	}
}
