// Package realtime provides deterministic, fixed-step event dispatch on top
// of a fixedloop.Loop.
//
// The runtime differs from handling input directly in UpdateStart:
//   - Events are batched and delivered only at fixed step boundaries
//   - Deterministic event ordering via priority and sequence numbers
//   - Every delivery carries the step's fixed delta
//   - Frames without a fixed update deliver nothing; events wait
//
// # Example Usage
//
//	rt := realtime.NewRuntime(nil, realtime.HandlerFunc(func(dt float64, e realtime.Event) {
//		// apply e to the simulation
//	}), realtime.Config{TargetFPS: 60})
//	rt.Start(ctx)
//	rt.SendEvent(realtime.Event{ID: 1})
//	rt.Stop()
//
// # Event Ordering Guarantees
//
// Events are ordered deterministically using:
//  1. Priority (higher priority processed first)
//  2. Sequence number (FIFO for same priority)
//  3. Stable sorting (preserves relative order)
//
// This ensures that given the same sequence of SendEvent() calls between
// two fixed steps, the handler always observes the same order, regardless
// of which goroutines sent them.
//
// # Capacity
//
// Each step's batch holds at most Config.MaxEventsPerTick events (default
// 1000). SendEvent returns ErrQueueFull beyond that until the next fixed
// step drains the batch. Events still queued at shutdown stay queued and are
// delivered on the first fixed step of a later run.
package realtime
