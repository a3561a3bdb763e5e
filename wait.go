package fixedloop

import (
	"fmt"
	"strings"
	"time"
)

// WaitStrategy selects how a capped frame waits out its remaining time.
type WaitStrategy int

const (
	// WaitSpin re-reads the clock until the target duration has elapsed.
	// Most precise, burns a core for the leftover frame time.
	WaitSpin WaitStrategy = iota
	// WaitHybrid sleeps while more than the hybrid slack remains, then spins
	// the rest, so sleep overshoot cannot push a frame past its target.
	WaitHybrid
)

// DefaultHybridSlack is the spin window WaitHybrid keeps before the deadline.
const DefaultHybridSlack = 2 * time.Millisecond

func (w WaitStrategy) String() string {
	switch w {
	case WaitSpin:
		return "spin"
	case WaitHybrid:
		return "hybrid"
	default:
		return fmt.Sprintf("WaitStrategy(%d)", int(w))
	}
}

// ParseWaitStrategy converts "spin" or "hybrid" to a WaitStrategy.
func ParseWaitStrategy(s string) (WaitStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "spin":
		return WaitSpin, nil
	case "hybrid":
		return WaitHybrid, nil
	default:
		return WaitSpin, fmt.Errorf("unknown wait strategy %q", s)
	}
}

// waitFrame measures time since last and, when capped, blocks until at least
// target has elapsed. It returns the frame's end time and its elapsed duration.
func (l *Loop) waitFrame(last time.Time, target time.Duration, capped bool) (time.Time, time.Duration) {
	end := l.clock.Now()
	elapsed := end.Sub(last)
	for capped && elapsed < target {
		if l.wait == WaitHybrid {
			if remaining := target - elapsed; remaining > l.slack {
				l.clock.Sleep(remaining - l.slack)
			}
		}
		end = l.clock.Now()
		elapsed = end.Sub(last)
	}
	return end, elapsed
}
