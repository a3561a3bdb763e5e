package fixedloop

import "sync/atomic"

const (
	// DefaultTargetFPS is the rate a loop targets until told otherwise.
	DefaultTargetFPS uint32 = 60
	// DefaultCappedFPS is whether a new loop waits out each frame to the target.
	DefaultCappedFPS = true
)

// Pacing holds the target rate and capped mode. Both fields are independent
// atomics: readers never see a torn value, but a writer updating both may be
// observed half-applied for one frame.
type Pacing struct {
	targetFPS atomic.Uint32
	capped    atomic.Bool
}

func newPacing(targetFPS uint32, capped bool) *Pacing {
	p := &Pacing{}
	p.SetTargetFPS(targetFPS)
	p.SetCapped(capped)
	return p
}

// SetTargetFPS stores the target rate. A rate of 0 is stored as 1.
func (p *Pacing) SetTargetFPS(fps uint32) {
	p.targetFPS.Store(max(fps, 1))
}

// TargetFPS returns the last stored target rate.
func (p *Pacing) TargetFPS() uint32 {
	return p.targetFPS.Load()
}

// SetCapped toggles waiting for the target duration at the end of each frame.
func (p *Pacing) SetCapped(capped bool) {
	p.capped.Store(capped)
}

// Capped returns the last stored capped mode.
func (p *Pacing) Capped() bool {
	return p.capped.Load()
}
