package fixedloop

import "sync/atomic"

// signals are the cooperative stop requests sampled once per frame.
type signals struct {
	shutdown atomic.Bool
	restart  atomic.Bool
}

func (s *signals) clear() {
	s.shutdown.Store(false)
	s.restart.Store(false)
}

// pending reports whether either request is set.
func (s *signals) pending() bool {
	return s.shutdown.Load() || s.restart.Load()
}

// restartOnly reports whether the run should start again: restart is set
// and shutdown is not. Shutdown always wins.
func (s *signals) restartOnly() bool {
	return !s.shutdown.Load() && s.restart.Load()
}
