package fixedloop

import (
	"context"
	"runtime"
)

// Handle joins a run started by RunInThread.
type Handle struct {
	done chan struct{}
	err  error
}

// Wait blocks until the run returns and reports its error.
func (h *Handle) Wait() error {
	<-h.done
	return h.err
}

// Done is closed when the run returns.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// RunInThread starts Run on a new goroutine locked to its own OS thread and
// returns a handle the caller must Wait on. The loop is claimed before the
// goroutine starts, so a second call made right after is rejected with
// ErrAlreadyRunning (via Wait) and never races the first.
func (l *Loop) RunInThread(targetFPS uint32) *Handle {
	return l.RunInThreadContext(context.Background(), targetFPS)
}

// RunInThreadContext is RunInThread with RunContext's cancellation semantics.
func (l *Loop) RunInThreadContext(ctx context.Context, targetFPS uint32) *Handle {
	h := &Handle{done: make(chan struct{})}
	if err := l.acquire(); err != nil {
		h.err = err
		close(h.done)
		return h
	}

	go func() {
		defer close(h.done)
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		l.run(ctx, targetFPS)
	}()
	return h
}
