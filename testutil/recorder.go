// Package testutil provides hooks, clocks and runners for exercising
// fixedloop.Loop in tests and benchmarks.
package testutil

import (
	"fmt"

	"github.com/comalice/fixedloop"
)

// Params drive a Recorder.
type Params struct {
	// FramesPerRun is how many frames each run lasts before the recorder
	// requests a restart or shutdown from UpdateStart. Minimum 1.
	FramesPerRun uint32
	// Restarts is how many restarts to request before shutting down.
	Restarts uint32
	// ConstantRate declares the target rate is never changed during the
	// test, enabling the delta bound checks and, when capped, the
	// one-fixed-update-per-frame checks.
	ConstantRate bool
	// Work, when set, is called from each update hook with the hook name
	// ("start", "fixed", "ended"), eg. to advance a StepClock.
	Work func(hook string)
	// BeforeCount, when set, runs inside UpdateStart before counting, with
	// the 0-based frame index within the run.
	BeforeCount func(frame uint32)
}

// Counts are hook invocation tallies.
type Counts struct {
	StartUp     uint32
	ShutDown    uint32
	UpdateStart uint32
	UpdateFixed uint32
	UpdateEnded uint32
}

// Recorder is a fixedloop.Hooks that counts every call, checks the ordering
// invariants between hooks as they happen, and drives restarts and shutdown
// after a fixed number of frames per run.
type Recorder struct {
	Loop   *fixedloop.Loop
	Params Params

	ThisRun         Counts // reset in ShutDown
	Total           Counts // persist across restarts
	RestartRequests uint32

	Deltas      []float64
	FixedDeltas []float64
	Frames      []fixedloop.FrameStats

	violations []string
}

// NewRecorder creates a recorder and a loop driving it.
func NewRecorder(p Params, opts ...fixedloop.Option) *Recorder {
	if p.FramesPerRun == 0 {
		p.FramesPerRun = 1
	}
	r := &Recorder{Params: p}
	r.Loop = fixedloop.New(r, opts...)
	return r
}

// Violations returns every invariant broken so far.
func (r *Recorder) Violations() []string {
	return r.violations
}

// Verify checks the final tallies once the loop has returned and returns all
// violations, including those recorded during the run.
func (r *Recorder) Verify() []string {
	r.expect(r.ThisRun == Counts{}, "per-run counts not reset after shutdown: %+v", r.ThisRun)

	runs := r.Params.Restarts + 1
	frames := r.Params.FramesPerRun * runs
	r.expect(r.Total.StartUp == runs, "StartUp total %d, want %d", r.Total.StartUp, runs)
	r.expect(r.Total.ShutDown == runs, "ShutDown total %d, want %d", r.Total.ShutDown, runs)
	r.expect(r.Total.UpdateStart == frames, "UpdateStart total %d, want %d", r.Total.UpdateStart, frames)
	r.expect(r.Total.UpdateEnded == frames, "UpdateEnded total %d, want %d", r.Total.UpdateEnded, frames)
	r.checkFixed(r.Total.UpdateFixed, frames, "UpdateFixed total")
	return r.violations
}

func (r *Recorder) StartUp() {
	r.expect(r.ThisRun == Counts{}, "StartUp with stale per-run counts: %+v", r.ThisRun)
	frames := r.Total.StartUp * r.Params.FramesPerRun
	r.expect(r.Total.StartUp == r.RestartRequests, "StartUp total %d, restart requests %d", r.Total.StartUp, r.RestartRequests)
	r.expect(r.Total.ShutDown == r.Total.StartUp, "ShutDown total %d != StartUp total %d", r.Total.ShutDown, r.Total.StartUp)
	r.expect(r.Total.UpdateStart == frames, "UpdateStart total %d at StartUp, want %d", r.Total.UpdateStart, frames)
	r.expect(r.Total.UpdateEnded == frames, "UpdateEnded total %d at StartUp, want %d", r.Total.UpdateEnded, frames)

	r.ThisRun.StartUp++
	r.Total.StartUp++
}

func (r *Recorder) ShutDown() {
	r.expect(r.ThisRun.StartUp == 1, "ShutDown with %d StartUp calls this run", r.ThisRun.StartUp)
	r.expect(r.ThisRun.ShutDown == 0, "ShutDown called twice in one run")
	r.expect(r.ThisRun.UpdateStart == r.Params.FramesPerRun, "ShutDown after %d frames, want %d", r.ThisRun.UpdateStart, r.Params.FramesPerRun)
	r.expect(r.ThisRun.UpdateEnded == r.Params.FramesPerRun, "UpdateEnded %d at ShutDown, want %d", r.ThisRun.UpdateEnded, r.Params.FramesPerRun)
	r.checkFixed(r.ThisRun.UpdateFixed, r.Params.FramesPerRun, "UpdateFixed at ShutDown")
	r.expect(r.Total.ShutDown == r.Total.StartUp-1, "ShutDown total %d, StartUp total %d", r.Total.ShutDown, r.Total.StartUp)

	r.Total.ShutDown++
	r.ThisRun = Counts{}
}

func (r *Recorder) UpdateStart(delta float64) {
	r.checkDelta(delta, "UpdateStart")
	r.expect(r.ThisRun.StartUp == 1, "UpdateStart outside StartUp/ShutDown")
	r.expect(r.ThisRun.UpdateStart < r.Params.FramesPerRun, "UpdateStart frame %d beyond %d", r.ThisRun.UpdateStart+1, r.Params.FramesPerRun)
	r.expect(r.ThisRun.UpdateEnded == r.ThisRun.UpdateStart, "UpdateStart entered with %d starts, %d ends", r.ThisRun.UpdateStart, r.ThisRun.UpdateEnded)
	r.checkFixed(r.ThisRun.UpdateFixed, r.ThisRun.UpdateStart, "UpdateFixed at UpdateStart")

	if r.Params.BeforeCount != nil {
		r.Params.BeforeCount(r.ThisRun.UpdateStart)
	}
	r.work("start")
	r.Deltas = append(r.Deltas, delta)

	r.ThisRun.UpdateStart++
	r.Total.UpdateStart++

	if r.ThisRun.UpdateStart == r.Params.FramesPerRun {
		if r.RestartRequests < r.Params.Restarts {
			r.Loop.RequestRestart()
			r.RestartRequests++
		} else {
			r.Loop.RequestShutDown()
		}
	}
}

func (r *Recorder) UpdateFixed(fixedDelta float64) {
	if r.Params.ConstantRate {
		want := 1.0 / float64(r.Loop.GetTargetFPS())
		r.expect(fixedDelta == want, "fixed delta %v, want %v", fixedDelta, want)
	}
	r.expect(r.ThisRun.StartUp == 1, "UpdateFixed outside StartUp/ShutDown")
	r.expect(r.ThisRun.UpdateEnded+1 == r.ThisRun.UpdateStart, "UpdateFixed not between UpdateStart and UpdateEnded")
	r.checkFixed(r.ThisRun.UpdateFixed, r.ThisRun.UpdateEnded, "UpdateFixed at entry")
	if r.ThisRun.UpdateFixed > r.ThisRun.UpdateEnded {
		r.failf("more than one UpdateFixed in frame %d", r.ThisRun.UpdateStart)
	}

	r.work("fixed")
	r.FixedDeltas = append(r.FixedDeltas, fixedDelta)

	r.ThisRun.UpdateFixed++
	r.Total.UpdateFixed++
}

func (r *Recorder) UpdateEnded(delta float64) {
	r.checkDelta(delta, "UpdateEnded")
	r.expect(r.ThisRun.StartUp == 1, "UpdateEnded outside StartUp/ShutDown")
	r.expect(r.ThisRun.UpdateEnded+1 == r.ThisRun.UpdateStart, "UpdateEnded without matching UpdateStart")
	r.checkFixed(r.ThisRun.UpdateFixed, r.ThisRun.UpdateStart, "UpdateFixed at UpdateEnded")
	if n := len(r.Deltas); n > 0 {
		r.expect(r.Deltas[n-1] == delta, "UpdateEnded delta %v differs from UpdateStart delta %v", delta, r.Deltas[n-1])
	}

	r.work("ended")

	r.ThisRun.UpdateEnded++
	r.Total.UpdateEnded++
}

func (r *Recorder) OnFrameComplete(stats fixedloop.FrameStats) {
	r.expect(stats.Frame == uint64(r.ThisRun.UpdateStart), "stats frame %d, UpdateStart count %d", stats.Frame, r.ThisRun.UpdateStart)
	r.expect(stats.Frame == uint64(r.ThisRun.UpdateEnded), "stats frame %d, UpdateEnded count %d", stats.Frame, r.ThisRun.UpdateEnded)
	r.expect(stats.TotalFrames == uint64(r.Total.UpdateStart), "stats total frames %d, UpdateStart total %d", stats.TotalFrames, r.Total.UpdateStart)
	r.expect(stats.Run == r.Total.StartUp, "stats run %d, StartUp total %d", stats.Run, r.Total.StartUp)
	if r.fixedRate() {
		r.expect(stats.Frame == uint64(r.ThisRun.UpdateFixed), "stats frame %d, UpdateFixed count %d", stats.Frame, r.ThisRun.UpdateFixed)
	}
	if r.Loop.GetCappedFPS() && r.Params.ConstantRate {
		r.expect(stats.ActualDur >= stats.TargetDur, "capped frame took %v, target %v", stats.ActualDur, stats.TargetDur)
		r.expect(stats.AverageFPS <= stats.TargetFPS, "capped average fps %d above target %d", stats.AverageFPS, stats.TargetFPS)
	}
	r.expect(stats.ExcessDur >= 0, "negative excess %v", stats.ExcessDur)
	r.Frames = append(r.Frames, stats)
}

func (r *Recorder) fixedRate() bool {
	return r.Params.ConstantRate && r.Loop.GetCappedFPS()
}

// checkFixed asserts fixed == frames at a constant capped rate and
// fixed <= frames otherwise.
func (r *Recorder) checkFixed(fixed, frames uint32, what string) {
	if r.fixedRate() {
		r.expect(fixed == frames, "%s: %d fixed updates over %d frames", what, fixed, frames)
		return
	}
	r.expect(fixed <= frames, "%s: %d fixed updates over %d frames", what, fixed, frames)
}

func (r *Recorder) checkDelta(delta float64, hook string) {
	r.expect(delta >= 0, "%s delta %v is negative", hook, delta)
	if r.Params.ConstantRate {
		limit := 1.0 / float64(r.Loop.GetTargetFPS())
		r.expect(delta <= limit, "%s delta %v exceeds one step %v", hook, delta, limit)
	}
}

func (r *Recorder) work(hook string) {
	if r.Params.Work != nil {
		r.Params.Work(hook)
	}
}

func (r *Recorder) expect(ok bool, format string, args ...any) {
	if !ok {
		r.failf(format, args...)
	}
}

func (r *Recorder) failf(format string, args ...any) {
	r.violations = append(r.violations, fmt.Sprintf(format, args...))
}
