// Package fixedloop provides a fixed-timestep update loop scheduler.
//
// A Loop repeatedly invokes host-supplied Hooks at a target rate, separating
// variable-rate work (input, rendering) from fixed-rate deterministic work
// (physics, simulation):
//   - UpdateStart runs every frame with a variable delta
//   - UpdateFixed runs whenever accumulated real time covers one fixed step
//   - UpdateEnded runs every frame with the same variable delta
//
// # Example Usage
//
//	type game struct{ fixedloop.NopHooks }
//
//	func (g *game) UpdateFixed(dt float64) { /* step physics by dt */ }
//
//	loop := fixedloop.New(&game{})
//	h := loop.RunInThread(60)
//	// ... from any goroutine:
//	loop.SetTargetFPS(120)
//	loop.RequestShutDown()
//	_ = h.Wait()
//
// # Frame Pacing
//
// Each frame reads the target rate once and derives the target duration
// (1s / fps) and the fixed delta (1.0 / fps). The previous frame's real
// duration, capped to one target step, is the variable delta.
//
// An accumulator starts each run holding one full step, so the first frame
// always performs a fixed update. Real elapsed time is added after every
// frame; a fixed update subtracts one step and clamps the leftover to at most
// one step. Under sustained overload the backlog is dropped instead of
// compounding into bursts of fixed updates.
//
// In capped mode the loop waits at the end of each frame until the target
// duration has elapsed. WaitSpin re-reads the clock in a tight loop; WaitHybrid
// sleeps first and spins only the final slack. Either way a capped frame never
// finishes early. Uncapped frames do not wait.
//
// # Concurrency
//
// One run occupies one goroutine end to end. Pacing (target rate, capped mode)
// and the shutdown/restart requests are independent atomics and may be written
// from any goroutine; they are sampled at frame boundaries and never interrupt
// a hook. Only one run may execute per Loop; a concurrent Run or RunInThread
// returns ErrAlreadyRunning.
//
// # Restart
//
// RequestRestart shuts the run down (ShutDown is called) and starts it again
// (StartUp is called) with cleared requests, a fresh accumulator, and frame
// numbering from 1. RequestShutDown always wins when both are set.
package fixedloop
