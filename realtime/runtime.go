package realtime

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/comalice/fixedloop"
)

// ErrQueueFull is returned by SendEvent when the step's batch is at capacity.
var ErrQueueFull = errors.New("event queue full")

// EventHandler receives queued events, in deterministic order, on the fixed
// step that follows their submission.
type EventHandler interface {
	HandleEvent(fixedDelta float64, event Event)
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(fixedDelta float64, event Event)

func (f HandlerFunc) HandleEvent(fixedDelta float64, event Event) {
	f(fixedDelta, event)
}

// RealtimeRuntime drives a fixedloop.Loop and delivers batched events at
// fixed-step boundaries. The embedded Hooks receive every lifecycle and
// update call; UpdateFixed runs after the step's events are handled.
type RealtimeRuntime struct {
	fixedloop.Hooks

	loop      *fixedloop.Loop
	handler   EventHandler
	targetFPS uint32
	tickNum   atomic.Uint64

	// Event batching
	eventBatch  []EventWithMeta
	batchMu     sync.Mutex
	sequenceNum uint64

	// Control; the cancel func stops the run even before its first frame.
	handleMu   sync.Mutex
	handle     *fixedloop.Handle
	tickCancel context.CancelFunc
}

// Config configures the real-time runtime
type Config struct {
	TargetFPS        uint32 // Fixed step rate (default: fixedloop.DefaultTargetFPS)
	MaxEventsPerTick int    // Event queue capacity (default: 1000)
}

// NewRuntime creates a runtime around hooks (nil for none) and handler.
// Loop options such as the clock or capped mode pass through to the loop.
func NewRuntime(hooks fixedloop.Hooks, handler EventHandler, cfg Config, opts ...fixedloop.Option) *RealtimeRuntime {
	if cfg.MaxEventsPerTick == 0 {
		cfg.MaxEventsPerTick = 1000
	}
	if cfg.TargetFPS == 0 {
		cfg.TargetFPS = fixedloop.DefaultTargetFPS
	}
	if hooks == nil {
		hooks = fixedloop.NopHooks{}
	}

	rt := &RealtimeRuntime{
		Hooks:      hooks,
		handler:    handler,
		targetFPS:  cfg.TargetFPS,
		eventBatch: make([]EventWithMeta, 0, cfg.MaxEventsPerTick),
	}
	rt.loop = fixedloop.New(rt, append([]fixedloop.Option{fixedloop.WithTargetFPS(cfg.TargetFPS)}, opts...)...)
	return rt
}

// UpdateFixed delivers the batched events, then forwards to the inner hooks.
func (rt *RealtimeRuntime) UpdateFixed(fixedDelta float64) {
	rt.processTick(fixedDelta)
	rt.Hooks.UpdateFixed(fixedDelta)
}

// OnFrameComplete forwards frame stats when the inner hooks report them.
func (rt *RealtimeRuntime) OnFrameComplete(stats fixedloop.FrameStats) {
	if r, ok := rt.Hooks.(fixedloop.FrameReporter); ok {
		r.OnFrameComplete(stats)
	}
}

// Start runs the loop on its own thread until Stop or ctx cancellation.
func (rt *RealtimeRuntime) Start(ctx context.Context) error {
	rt.handleMu.Lock()
	defer rt.handleMu.Unlock()

	tickCtx, tickCancel := context.WithCancel(ctx)
	h := rt.loop.RunInThreadContext(tickCtx, rt.targetFPS)
	select {
	case <-h.Done():
		if err := h.Wait(); err != nil {
			tickCancel()
			return err
		}
	default:
	}

	if rt.tickCancel != nil {
		rt.tickCancel()
	}
	rt.handle = h
	rt.tickCancel = tickCancel
	return nil
}

// Stop cancels the run started by Start and waits for the loop to return.
func (rt *RealtimeRuntime) Stop() error {
	rt.handleMu.Lock()
	h, cancel := rt.handle, rt.tickCancel
	rt.handle, rt.tickCancel = nil, nil
	rt.handleMu.Unlock()

	if h == nil {
		return nil
	}
	cancel()
	return h.Wait()
}

// Run executes the loop on the calling goroutine.
func (rt *RealtimeRuntime) Run(ctx context.Context) error {
	return rt.loop.RunContext(ctx, rt.targetFPS)
}

// Loop exposes the underlying loop for pacing and restart control.
func (rt *RealtimeRuntime) Loop() *fixedloop.Loop {
	return rt.loop
}

// SendEvent queues an event for the next fixed step (thread-safe)
func (rt *RealtimeRuntime) SendEvent(event Event) error {
	return rt.SendEventWithPriority(event, 0)
}

// SendEventWithPriority queues an event with priority
func (rt *RealtimeRuntime) SendEventWithPriority(event Event, priority int) error {
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()

	if len(rt.eventBatch) >= cap(rt.eventBatch) {
		return ErrQueueFull
	}

	rt.eventBatch = append(rt.eventBatch, EventWithMeta{
		Event:       event,
		SequenceNum: rt.sequenceNum,
		Priority:    priority,
	})
	rt.sequenceNum++

	return nil
}

// Pending returns the number of events waiting for the next fixed step.
func (rt *RealtimeRuntime) Pending() int {
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()
	return len(rt.eventBatch)
}

// GetTickNumber returns the number of fixed steps processed
func (rt *RealtimeRuntime) GetTickNumber() uint64 {
	return rt.tickNum.Load()
}
