package fixedloop

// Hooks are the lifecycle and per-frame callbacks a host supplies to a Loop.
// All calls for one run happen on the goroutine executing that run, in order:
//
//	StartUp
//	  UpdateStart(delta) [UpdateFixed(fixedDelta)] UpdateEnded(delta)   (per frame)
//	ShutDown
//
// Deltas are in seconds. Hooks are expected to return promptly; a hook that
// blocks stalls the loop, and a hook that panics unwinds out of Run.
type Hooks interface {
	StartUp()
	ShutDown()

	// UpdateStart runs at the start of every frame with the previous frame's
	// duration, capped to one target step (eg. input).
	UpdateStart(deltaSeconds float64)

	// UpdateFixed runs whenever the accumulated frame time reaches the target
	// step. When capped at a constant rate it runs exactly once per frame;
	// uncapped it may be skipped, but is always bookended by UpdateStart and
	// UpdateEnded of the same frame (eg. physics).
	UpdateFixed(fixedDeltaSeconds float64)

	// UpdateEnded runs at the end of every frame with the same delta passed
	// to UpdateStart (eg. rendering).
	UpdateEnded(deltaSeconds float64)
}

// FrameReporter is optionally implemented by Hooks to receive per-frame
// diagnostics. It must not feed back into pacing decisions.
type FrameReporter interface {
	OnFrameComplete(stats FrameStats)
}

// NopHooks implements every hook as a no-op. Embed it to override only the
// callbacks a host cares about.
type NopHooks struct{}

func (NopHooks) StartUp() {}
func (NopHooks) ShutDown() {}
func (NopHooks) UpdateStart(float64) {}
func (NopHooks) UpdateFixed(float64) {}
func (NopHooks) UpdateEnded(float64) {}
func (NopHooks) OnFrameComplete(FrameStats) {}

// HookFuncs adapts plain functions to Hooks. Nil fields are skipped.
type HookFuncs struct {
	OnStartUp     func()
	OnShutDown    func()
	OnUpdateStart func(deltaSeconds float64)
	OnUpdateFixed func(fixedDeltaSeconds float64)
	OnUpdateEnded func(deltaSeconds float64)
	OnFrame       func(stats FrameStats)
}

func (h HookFuncs) StartUp() {
	if h.OnStartUp != nil {
		h.OnStartUp()
	}
}

func (h HookFuncs) ShutDown() {
	if h.OnShutDown != nil {
		h.OnShutDown()
	}
}

func (h HookFuncs) UpdateStart(deltaSeconds float64) {
	if h.OnUpdateStart != nil {
		h.OnUpdateStart(deltaSeconds)
	}
}

func (h HookFuncs) UpdateFixed(fixedDeltaSeconds float64) {
	if h.OnUpdateFixed != nil {
		h.OnUpdateFixed(fixedDeltaSeconds)
	}
}

func (h HookFuncs) UpdateEnded(deltaSeconds float64) {
	if h.OnUpdateEnded != nil {
		h.OnUpdateEnded(deltaSeconds)
	}
}

func (h HookFuncs) OnFrameComplete(stats FrameStats) {
	if h.OnFrame != nil {
		h.OnFrame(stats)
	}
}
