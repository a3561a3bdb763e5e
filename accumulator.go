package fixedloop

import "time"

// accumulator tracks simulation time owed to fixed updates. It belongs to a
// single run and is never shared between goroutines.
type accumulator struct {
	owed time.Duration
}

// reset primes the balance with one full step so the first frame always
// performs a fixed update.
func (a *accumulator) reset(target time.Duration) {
	a.owed = target
}

// due reports whether a fixed update is owed at the given step size.
func (a *accumulator) due(target time.Duration) bool {
	return a.owed >= target
}

// consume settles one fixed update and clamps the leftover to at most one
// step, discarding backlog a slow frame would otherwise compound.
func (a *accumulator) consume(target time.Duration) {
	a.owed -= target
	if a.owed > target {
		a.owed = target
	}
}

// add credits real elapsed frame time.
func (a *accumulator) add(elapsed time.Duration) {
	a.owed += elapsed
}

// excess is the balance left over after the most recent adjustment.
func (a *accumulator) excess() time.Duration {
	return a.owed
}
