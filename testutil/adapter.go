package testutil

import (
	"time"

	"github.com/comalice/fixedloop"
)

// RunnerAdapter provides a common interface over the blocking and the
// spawned-goroutine ways of running a loop.
// This allows running the same test suite on both entry points
type RunnerAdapter interface {
	Name() string
	Run(loop *fixedloop.Loop, targetFPS uint32) error
}

// BlockingAdapter runs the loop on the calling goroutine.
type BlockingAdapter struct{}

func (BlockingAdapter) Name() string { return "Blocking" }

func (BlockingAdapter) Run(loop *fixedloop.Loop, targetFPS uint32) error {
	return loop.Run(targetFPS)
}

// ThreadAdapter runs the loop via RunInThread and joins it.
type ThreadAdapter struct{}

func (ThreadAdapter) Name() string { return "Thread" }

func (ThreadAdapter) Run(loop *fixedloop.Loop, targetFPS uint32) error {
	return loop.RunInThread(targetFPS).Wait()
}

// Adapters returns every runner adapter.
func Adapters() []RunnerAdapter {
	return []RunnerAdapter{BlockingAdapter{}, ThreadAdapter{}}
}

// WaitForState polls until loop reaches want or timeout passes.
func WaitForState(loop *fixedloop.Loop, want fixedloop.LoopState, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if loop.State() == want {
			return true
		}
		time.Sleep(100 * time.Microsecond)
	}
	return loop.State() == want
}
