package fixedloop

import (
	"sync"
	"testing"
	"time"
)

func TestPacingZeroTargetCoerced(t *testing.T) {
	p := newPacing(0, false)
	if p.TargetFPS() != 1 {
		t.Errorf("Expected 0 fps to be stored as 1, got %d", p.TargetFPS())
	}
	p.SetTargetFPS(240)
	if p.TargetFPS() != 240 {
		t.Errorf("Expected 240, got %d", p.TargetFPS())
	}
	p.SetTargetFPS(0)
	if p.TargetFPS() != 1 {
		t.Errorf("Expected 1, got %d", p.TargetFPS())
	}
}

func TestPacingDefaults(t *testing.T) {
	l := New(nil)
	if l.GetTargetFPS() != DefaultTargetFPS {
		t.Errorf("Expected default target %d, got %d", DefaultTargetFPS, l.GetTargetFPS())
	}
	if l.GetCappedFPS() != DefaultCappedFPS {
		t.Errorf("Expected default capped %v, got %v", DefaultCappedFPS, l.GetCappedFPS())
	}

	l = New(nil, WithTargetFPS(30), WithCappedFPS(false))
	if l.GetTargetFPS() != 30 || l.GetCappedFPS() {
		t.Errorf("Options not applied: target %d capped %v", l.GetTargetFPS(), l.GetCappedFPS())
	}
	if l.Pacing().TargetFPS() != 30 {
		t.Errorf("Pacing() does not share state with the loop")
	}
}

// TestPacingConcurrentAccess is meaningful under -race.
func TestPacingConcurrentAccess(t *testing.T) {
	p := newPacing(DefaultTargetFPS, true)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				p.SetTargetFPS(uint32(j % 300))
				p.SetCapped(j%2 == i%2)
			}
		}(i)
	}
	deadline := time.Now().Add(50 * time.Millisecond)
	for time.Now().Before(deadline) {
		if p.TargetFPS() == 0 {
			t.Fatal("Observed a zero target rate")
		}
		_ = p.Capped()
	}
	wg.Wait()
}

func TestSignalsPrecedence(t *testing.T) {
	tests := []struct {
		name        string
		shutdown    bool
		restart     bool
		wantPending bool
		wantRestart bool
	}{
		{"None", false, false, false, false},
		{"Shutdown", true, false, true, false},
		{"Restart", false, true, true, true},
		{"Both", true, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s signals
			s.shutdown.Store(tt.shutdown)
			s.restart.Store(tt.restart)
			if s.pending() != tt.wantPending {
				t.Errorf("pending = %v, want %v", s.pending(), tt.wantPending)
			}
			if s.restartOnly() != tt.wantRestart {
				t.Errorf("restartOnly = %v, want %v", s.restartOnly(), tt.wantRestart)
			}
			s.clear()
			if s.pending() {
				t.Error("Expected clear to reset both requests")
			}
		})
	}
}

func TestRoundedRate(t *testing.T) {
	tests := []struct {
		frames uint64
		d      time.Duration
		want   uint32
	}{
		{1, time.Second / 60, 60},
		{1, 16 * time.Millisecond, 63}, // 62.5 rounds up
		{1, 17 * time.Millisecond, 59}, // 58.8
		{1, 0, 0},
		{3, 50 * time.Millisecond, 60},
		{1, 2 * time.Second, 1}, // 0.5 rounds up
	}
	for _, tt := range tests {
		if got := roundedRate(tt.frames, tt.d); got != tt.want {
			t.Errorf("roundedRate(%d, %v) = %d, want %d", tt.frames, tt.d, got, tt.want)
		}
	}
}

func TestParseWaitStrategy(t *testing.T) {
	for in, want := range map[string]WaitStrategy{"": WaitSpin, "spin": WaitSpin, "HYBRID": WaitHybrid} {
		got, err := ParseWaitStrategy(in)
		if err != nil || got != want {
			t.Errorf("ParseWaitStrategy(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseWaitStrategy("sleep"); err == nil {
		t.Error("Expected an error for an unknown strategy")
	}
	if WaitHybrid.String() != "hybrid" || WaitSpin.String() != "spin" {
		t.Error("Unexpected strategy names")
	}
}
