package fixedloop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"
)

// ErrAlreadyRunning is returned when Run or RunInThread is called on a loop
// that is already executing a run.
var ErrAlreadyRunning = errors.New("fixedloop: loop is already running")

// LoopState is the phase of a loop's run cycle.
//
//	StateIdle     → StateStarting   [Run]
//	StateStarting → StateRunning    [StartUp returned]
//	StateRunning  → StateStopping   [shutdown/restart requested]
//	StateStopping → StateStarting   [restart only]
//	StateStopping → StateIdle       [shutdown]
type LoopState int32

const (
	StateIdle LoopState = iota
	StateStarting
	StateRunning
	StateStopping
)

func (s LoopState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return fmt.Sprintf("LoopState(%d)", int32(s))
	}
}

// Loop drives Hooks at a target rate, separating variable-rate updates from
// fixed-step updates. Pacing and stop requests may be changed from any
// goroutine; everything else belongs to the goroutine executing the run.
type Loop struct {
	hooks    Hooks
	reporter FrameReporter

	pacing  *Pacing
	signals signals

	clock  Clock
	wait   WaitStrategy
	slack  time.Duration
	logger *slog.Logger

	running     atomic.Bool
	state       atomic.Int32
	totalFrames atomic.Uint64
}

// New creates a loop around hooks. If hooks also implements FrameReporter it
// receives per-frame stats.
func New(hooks Hooks, opts ...Option) *Loop {
	if hooks == nil {
		hooks = NopHooks{}
	}
	l := &Loop{
		hooks:  hooks,
		pacing: newPacing(DefaultTargetFPS, DefaultCappedFPS),
		clock:  SystemClock,
		wait:   WaitSpin,
		slack:  DefaultHybridSlack,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if r, ok := hooks.(FrameReporter); ok {
		l.reporter = r
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run executes the loop on the calling goroutine at targetFPS until a
// shutdown is requested. A restart request without a shutdown request runs
// the whole cycle again, StartUp included.
func (l *Loop) Run(targetFPS uint32) error {
	return l.RunContext(context.Background(), targetFPS)
}

// RunContext is Run with ctx cancellation treated as a shutdown request,
// observed at the next frame boundary. It returns nil on a cooperative stop.
func (l *Loop) RunContext(ctx context.Context, targetFPS uint32) error {
	if err := l.acquire(); err != nil {
		return err
	}
	l.run(ctx, targetFPS)
	return nil
}

// acquire claims the loop for one Run call.
func (l *Loop) acquire() error {
	if !l.running.CompareAndSwap(false, true) {
		l.logger.Warn("run rejected", "error", ErrAlreadyRunning, "state", l.State().String())
		return ErrAlreadyRunning
	}
	return nil
}

// run executes start/run/stop cycles until shutdown. The caller must hold
// the claim taken by acquire; run releases it, also when a hook panics.
func (l *Loop) run(ctx context.Context, targetFPS uint32) {
	defer func() {
		l.state.Store(int32(StateIdle))
		l.running.Store(false)
	}()

	l.SetTargetFPS(targetFPS)

	for run := uint32(1); ; run++ {
		l.logger.Info("run starting", "run", run, "target_fps", l.pacing.TargetFPS(), "capped", l.pacing.Capped())
		frames := l.cycle(ctx, run)

		if ctx.Err() != nil || !l.signals.restartOnly() {
			l.logger.Info("run stopped", "run", run, "frames", frames)
			return
		}
		l.logger.Info("run restarting", "run", run, "frames", frames)
	}
}

// cycle performs one Starting → Running → Stopping pass and returns the
// number of frames it ran.
func (l *Loop) cycle(ctx context.Context, run uint32) uint64 {
	l.state.Store(int32(StateStarting))
	l.signals.clear()
	l.hooks.StartUp()

	var acc accumulator
	acc.reset(time.Second / time.Duration(l.pacing.TargetFPS()))

	var (
		lastDur time.Duration
		frame   uint64
	)
	start := l.clock.Now()
	lastEnd := start

	l.state.Store(int32(StateRunning))
	for !l.signals.pending() && ctx.Err() == nil {
		// The target may change between frames, never within one.
		fps := l.pacing.TargetFPS()
		target := time.Second / time.Duration(fps)
		fixedDelta := 1.0 / float64(fps)

		delta := min(lastDur, target).Seconds()
		l.hooks.UpdateStart(delta)

		if acc.due(target) {
			l.hooks.UpdateFixed(fixedDelta)
			acc.consume(target)
		}

		l.hooks.UpdateEnded(delta)

		end, elapsed := l.waitFrame(lastEnd, target, l.pacing.Capped())
		acc.add(elapsed)
		lastEnd = end
		lastDur = elapsed

		frame++
		total := l.totalFrames.Add(1)

		if l.reporter != nil {
			runDur := end.Sub(start)
			l.reporter.OnFrameComplete(FrameStats{
				Run:         run,
				Frame:       frame,
				TotalFrames: total,
				ActualFPS:   roundedRate(1, elapsed),
				AverageFPS:  roundedRate(frame, runDur),
				TargetFPS:   fps,
				ActualDur:   elapsed,
				TargetDur:   target,
				ExcessDur:   acc.excess(),
				TotalDur:    runDur,
			})
		}
	}

	l.state.Store(int32(StateStopping))
	l.hooks.ShutDown()
	return frame
}

// SetTargetFPS changes the target rate, effective from the next frame.
// A rate of 0 is stored as 1.
func (l *Loop) SetTargetFPS(fps uint32) {
	l.pacing.SetTargetFPS(fps)
}

// SetCappedFPS toggles waiting out each frame to the target duration.
func (l *Loop) SetCappedFPS(capped bool) {
	l.pacing.SetCapped(capped)
}

func (l *Loop) GetTargetFPS() uint32 {
	return l.pacing.TargetFPS()
}

func (l *Loop) GetCappedFPS() bool {
	return l.pacing.Capped()
}

// Pacing exposes the loop's pacing controls for hosts that hand them to
// other components.
func (l *Loop) Pacing() *Pacing {
	return l.pacing
}

// RequestShutDown asks the loop to stop after the current frame.
func (l *Loop) RequestShutDown() {
	l.signals.shutdown.Store(true)
}

// RequestRestart asks the loop to shut down and start again after the
// current frame. A shutdown request in the same frame wins.
func (l *Loop) RequestRestart() {
	l.signals.restart.Store(true)
}

// State returns the loop's current phase.
func (l *Loop) State() LoopState {
	return LoopState(l.state.Load())
}

// Running reports whether a run is in progress.
func (l *Loop) Running() bool {
	return l.running.Load()
}

// TotalFrames returns the frames completed over the loop's lifetime.
func (l *Loop) TotalFrames() uint64 {
	return l.totalFrames.Load()
}
